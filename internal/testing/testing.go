// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/likesync/internal/models"
)

// MockLibrary is a configurable test double for [services.Library].
type MockLibrary struct {
	Tracks []models.Track
	Err    error
}

func (m *MockLibrary) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockLibrary) LikedTracks(ctx context.Context) ([]models.Track, error) {
	return m.Tracks, m.Err
}

func (m *MockLibrary) Name() string { return "mock" }

// MockSearcher returns canned candidates keyed by query, or Err for
// every call when set.
type MockSearcher struct {
	Results map[string][]models.Candidate
	Err     error
	Calls   []string
}

func (m *MockSearcher) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	m.Calls = append(m.Calls, query)
	if m.Err != nil {
		return nil, m.Err
	}
	results := m.Results[query]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MockSearcher) Name() string { return "mock" }

// MockDownloader records download calls and optionally fails specific
// URLs.
type MockDownloader struct {
	Downloaded []string
	FailURLs   map[string]error
}

func (m *MockDownloader) Download(ctx context.Context, url, dest string) error {
	if err := m.FailURLs[url]; err != nil {
		return err
	}
	m.Downloaded = append(m.Downloaded, dest)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper serves a fixed sequence of responses, one per
// request, for paginated API tests.
type SequenceRoundTripper struct {
	Responses []*http.Response
	index     int
}

func (s *SequenceRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	if s.index >= len(s.Responses) {
		return nil, errors.New("no more responses")
	}
	resp := s.Responses[s.index]
	s.index++
	return resp, nil
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
