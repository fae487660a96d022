package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Credentials.Spotify.RedirectURI != "http://localhost:6060/callback" {
		t.Errorf("redirect URI = %q", config.Credentials.Spotify.RedirectURI)
	}
	if config.Matching.DurationToleranceSeconds != 10.0 {
		t.Errorf("duration tolerance = %v, want 10", config.Matching.DurationToleranceSeconds)
	}
	if config.Matching.TitleThreshold != 0.7 {
		t.Errorf("title threshold = %v, want 0.7", config.Matching.TitleThreshold)
	}
	if config.Matching.ArtistThreshold != 0.05 {
		t.Errorf("artist threshold = %v, want 0.05", config.Matching.ArtistThreshold)
	}
	if config.Matching.MaxCandidates != 5 {
		t.Errorf("max candidates = %d, want 5", config.Matching.MaxCandidates)
	}
	if config.Downloader.AudioFormat != "mp3" || config.Downloader.AudioQuality != "320K" {
		t.Errorf("downloader defaults = %q/%q", config.Downloader.AudioFormat, config.Downloader.AudioQuality)
	}
	if config.Database.Path != "likesync.db" {
		t.Errorf("database path = %q", config.Database.Path)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://localhost:9999/callback"

[matching]
title_threshold = 0.8
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("client ID = %q", config.Credentials.Spotify.ClientID)
		}
		if config.Matching.TitleThreshold != 0.8 {
			t.Errorf("title threshold = %v", config.Matching.TitleThreshold)
		}
	})
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config := DefaultConfig()
	config.Credentials.Spotify.ClientID = "abc"
	config.Credentials.Spotify.AccessToken = "tok"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Credentials.Spotify.ClientID != "abc" {
		t.Errorf("client ID = %q after roundtrip", loaded.Credentials.Spotify.ClientID)
	}
	if loaded.Credentials.Spotify.AccessToken != "tok" {
		t.Errorf("access token = %q after roundtrip", loaded.Credentials.Spotify.AccessToken)
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("creates from template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("CreateConfigFile: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if config.Matching.MaxCandidates != 5 {
			t.Errorf("created config missing defaults")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(""), 0644); err != nil {
			t.Fatal(err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error for existing file")
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Map", func(t *testing.T) {
		creds := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}
		m := creds.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
			t.Errorf("Map() = %v", m)
		}
	})

	t.Run("Update and Token roundtrip", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		var creds SpotifyConfig

		err := creds.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}

		token := creds.Token()
		if token == nil {
			t.Fatal("Token() returned nil")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("token = %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expiry = %v, want %v", token.Expiry, expiry)
		}
	})

	t.Run("Update rejects empty token", func(t *testing.T) {
		var creds SpotifyConfig
		if err := creds.Update(nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if err := creds.Update(&oauth2.Token{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Token nil without saved token", func(t *testing.T) {
		var creds SpotifyConfig
		if creds.Token() != nil {
			t.Error("expected nil token")
		}
	})

	t.Run("CallbackAddr", func(t *testing.T) {
		creds := SpotifyConfig{RedirectURI: "http://localhost:6060/callback"}
		addr, err := creds.CallbackAddr()
		if err != nil {
			t.Fatalf("CallbackAddr: %v", err)
		}
		if addr != "localhost:6060" {
			t.Errorf("addr = %q", addr)
		}
	})

	t.Run("CallbackAddr without host", func(t *testing.T) {
		creds := SpotifyConfig{RedirectURI: "not-a-url"}
		if _, err := creds.CallbackAddr(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestOutputDir(t *testing.T) {
	t.Run("explicit directory wins", func(t *testing.T) {
		config := DefaultConfig()
		config.Downloader.OutputDir = "/tmp/music"

		dir, err := config.OutputDir()
		if err != nil {
			t.Fatalf("OutputDir: %v", err)
		}
		if dir != "/tmp/music" {
			t.Errorf("dir = %q", dir)
		}
	})

	t.Run("default is dated downloads directory", func(t *testing.T) {
		config := DefaultConfig()
		config.Downloader.OutputDir = ""

		dir, err := config.OutputDir()
		if err != nil {
			t.Fatalf("OutputDir: %v", err)
		}

		want := "likesync_" + time.Now().Format("02-01")
		if filepath.Base(dir) != want {
			t.Errorf("dir = %q, want base %q", dir, want)
		}
	})
}
