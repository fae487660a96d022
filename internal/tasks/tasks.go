// package tasks implements the batch sync pipeline.
//
// The core abstraction is SyncEngine, which fans the liked-track list
// out over a fixed pool of workers. Each worker resolves its track
// against the search backend and downloads the winner; failures are
// emitted as events on a channel owned by a single collector, so no
// mutable failure state is shared between workers. Operations emit
// progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/likesync/internal/matcher"
	"github.com/desertthunder/likesync/internal/models"
	"github.com/desertthunder/likesync/internal/services"
	"github.com/desertthunder/likesync/internal/shared"
	"golang.org/x/time/rate"
)

// FailureLog is the collected display titles of tracks that could not
// be resolved or downloaded. It is owned by the run's single collector
// goroutine and carries no ordering guarantee.
type FailureLog []string

// TrackResult records one track's trip through the pipeline.
type TrackResult struct {
	Track     models.Track
	Outcome   models.Outcome
	Match     models.Match
	Path      string // destination file, set when downloaded
	FromCache bool   // resolution served from the cache
	Err       error  // diagnostic for unresolved/failed outcomes
}

// RunResult contains all data from a full sync run.
type RunResult struct {
	Detected   int           // liked tracks found in the catalog
	Results    []TrackResult // per-track outcomes, order unspecified
	Downloaded int
	Unresolved int
	Failed     int
	Failures   FailureLog
}

// RunOpts contains configuration for a sync run.
type RunOpts struct {
	OutputDir    string        // destination directory, created if absent
	AudioFormat  string        // file extension for destinations (default mp3)
	Workers      int           // worker pool size (default: CPU count)
	RateLimit    float64       // search calls per second (default 5)
	TrackTimeout time.Duration // per-track deadline; 0 disables
}

// ResolutionCache is the slice of the persistence layer the engine
// needs. A nil cache disables caching.
type ResolutionCache interface {
	Get(trackID string) (*models.Resolution, error)
	Put(res models.Resolution) error
}

// SyncEngine defines the batch operation: resolve and download every
// liked track, isolating per-track failures.
type SyncEngine interface {
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error)
}

// DownloadEngine implements SyncEngine against a catalog library, a
// resolver, and a download backend.
type DownloadEngine struct {
	library    services.Library
	resolver   *matcher.Resolver
	downloader services.Downloader
	cache      ResolutionCache
	logger     *log.Logger
}

// NewDownloadEngine creates a DownloadEngine with the provided
// collaborators. cache may be nil.
func NewDownloadEngine(library services.Library, resolver *matcher.Resolver, downloader services.Downloader, cache ResolutionCache, logger *log.Logger) *DownloadEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &DownloadEngine{
		library:    library,
		resolver:   resolver,
		downloader: downloader,
		cache:      cache,
		logger:     logger,
	}
}

// sendProgress sends a progress update through the channel without
// blocking; a full or absent channel drops the update rather than
// stalling a worker.
func (e *DownloadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type trackJob struct {
	seq   int
	track models.Track
}

// Run fetches the liked-track list and processes every track through
// resolution and download on a fixed worker pool.
//
// The batch never aborts on a per-track error: search failures mark
// the track unresolved, download failures mark it failed, and both
// land in the FailureLog. Run returns once every worker has drained
// its queue.
func (e *DownloadEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library not initialized", shared.ErrServiceUnavailable)
	}
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}
	if e.downloader == nil {
		return nil, fmt.Errorf("%w: downloader not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = "mp3"
	}

	e.sendProgress(progress, fetchLibraryUpdate())

	tracks, err := e.library.LikedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list liked tracks: %v", shared.ErrAPIRequest, err)
	}

	result := &RunResult{Detected: len(tracks)}
	e.sendProgress(progress, libraryFetchedUpdate(result.Detected))

	if len(tracks) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan trackJob, len(tracks))
	results := make(chan TrackResult, len(tracks))
	failures := make(chan string, len(tracks))

	// Single collector owns the FailureLog; workers only ever send.
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for title := range failures {
			result.Failures = append(result.Failures, title)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go e.worker(ctx, &wg, jobs, results, failures, limiter, progress, opts, len(tracks))
	}

	for i, track := range tracks {
		jobs <- trackJob{seq: i + 1, track: track}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(failures)
	}()

	completed := 0
	for res := range results {
		completed++
		e.sendProgress(progress, trackDoneUpdate(completed, len(tracks), res))

		result.Results = append(result.Results, res)
		switch res.Outcome {
		case models.OutcomeDownloaded:
			result.Downloaded++
		case models.OutcomeUnresolved:
			result.Unresolved++
		case models.OutcomeFailed:
			result.Failed++
		}
	}

	<-collectorDone
	e.sendProgress(progress, reportUpdate(len(result.Failures)))
	return result, nil
}

// worker drains the job queue, isolating each track's failure to that
// track.
func (e *DownloadEngine) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan trackJob,
	results chan<- TrackResult,
	failures chan<- string,
	limiter *rate.Limiter,
	progress chan<- ProgressUpdate,
	opts RunOpts,
	total int,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.processTrack(ctx, job, limiter, progress, opts, total)
		if res.Outcome == models.OutcomeUnresolved || res.Outcome == models.OutcomeFailed {
			failures <- res.Track.DisplayTitle()
		}
		results <- res
	}
}

// processTrack runs one track through resolve and download.
func (e *DownloadEngine) processTrack(
	ctx context.Context,
	job trackJob,
	limiter *rate.Limiter,
	progress chan<- ProgressUpdate,
	opts RunOpts,
	total int,
) TrackResult {
	track := job.track
	result := TrackResult{Track: track, Outcome: models.OutcomePending}

	if opts.TrackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TrackTimeout)
		defer cancel()
	}

	e.sendProgress(progress, resolveUpdate(job.seq, total, track))

	match, fromCache := e.cachedMatch(track)
	if match == nil {
		if err := limiter.Wait(ctx); err != nil {
			result.Outcome = models.OutcomeUnresolved
			result.Err = err
			return result
		}

		m, err := e.resolver.Resolve(ctx, track)
		if err != nil {
			e.logger.Warnf("resolution failed for %s: %v", track.DisplayTitle(), err)
			result.Outcome = models.OutcomeUnresolved
			result.Err = err
			return result
		}
		if !m.Accepted() {
			e.logger.Warnf("no acceptable match for %s", track.DisplayTitle())
			result.Outcome = models.OutcomeUnresolved
			return result
		}

		match = &m
		e.cacheMatch(track, m)
	}

	result.Match = *match
	result.FromCache = fromCache
	result.Outcome = models.OutcomeResolved

	e.sendProgress(progress, downloadUpdate(job.seq, total, track, match.URL))

	dest := filepath.Join(opts.OutputDir, shared.LegalizeFilename(track.DisplayTitle())+"."+opts.AudioFormat)
	if err := e.downloader.Download(ctx, match.URL, dest); err != nil {
		e.logger.Warnf("download failed for %s: %v", track.DisplayTitle(), err)
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result
	}

	result.Outcome = models.OutcomeDownloaded
	result.Path = dest
	return result
}

// cachedMatch returns a previously persisted resolution for the track,
// if any. Cache errors only log; a broken cache must not fail a track.
func (e *DownloadEngine) cachedMatch(track models.Track) (*models.Match, bool) {
	if e.cache == nil || track.ID == "" {
		return nil, false
	}

	res, err := e.cache.Get(track.ID)
	if err != nil {
		e.logger.Warnf("resolution cache lookup failed for %s: %v", track.ID, err)
		return nil, false
	}
	if res == nil {
		return nil, false
	}

	return &models.Match{
		URL:         res.URL,
		TitleScore:  res.TitleScore,
		ArtistScore: res.ArtistScore,
	}, true
}

func (e *DownloadEngine) cacheMatch(track models.Track, m models.Match) {
	if e.cache == nil || track.ID == "" {
		return
	}

	err := e.cache.Put(models.Resolution{
		TrackID:      track.ID,
		DisplayTitle: track.DisplayTitle(),
		URL:          m.URL,
		TitleScore:   m.TitleScore,
		ArtistScore:  m.ArtistScore,
		ResolvedAt:   time.Now().UTC(),
	})
	if err != nil {
		e.logger.Warnf("failed to cache resolution for %s: %v", track.ID, err)
	}
}
