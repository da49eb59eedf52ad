package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ytget/yt-webdl/internal/progress"
)

const (
	outputTemplate      = "%(title)s.%(ext)s"
	progressInterval    = 500 * time.Millisecond
	fetchRetries        = 1
	retryBackoff        = 2 * time.Second
	engineRetryArgument = "10"
)

// YTDLP is the production engine backed by the yt-dlp binary
type YTDLP struct{}

// NewYTDLP creates the yt-dlp backed engine
func NewYTDLP() *YTDLP {
	return &YTDLP{}
}

// Fetch downloads the source into req.OutputDir, forwarding yt-dlp
// progress updates as events. Fatal engine errors are returned after one
// retry; partial per-item failures inside a collection are tolerated via
// IgnoreErrors so one broken entry does not sink the batch.
func (e *YTDLP) Fetch(ctx context.Context, req FetchRequest, onProgress func(progress.Event)) error {
	dl := ytdlp.New().
		IgnoreErrors().
		ForceOverwrites().
		RestrictFilenames().
		Continue().
		Retries(engineRetryArgument).
		Format(req.Format).
		Output(filepath.Join(req.OutputDir, outputTemplate))

	if req.MergeToMP4 {
		dl = dl.MergeOutputFormat("mp4")
	}
	if spec := SelectionSpec(req.Selection); spec != "" {
		dl = dl.PlaylistItems(spec)
	}
	if req.CookieFile != "" {
		dl = dl.Cookies(req.CookieFile)
	}

	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		onProgress(toEvent(update))
	})

	return e.fetchWithRetry(ctx, dl, req.URL)
}

// fetchWithRetry runs the download with a single backoff retry
func (e *YTDLP) fetchWithRetry(ctx context.Context, dl *ytdlp.Command, url string) error {
	var lastErr error

	for attempt := 0; attempt <= fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			log.Printf("retrying fetch for %s, attempt %d", url, attempt+1)
		}

		if _, err := dl.Run(ctx, url); err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("fetch attempt %d failed for %s: %v", attempt+1, url, err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("engine fetch failed: %w", lastErr)
}

// toEvent converts a yt-dlp progress update into the aggregator's event shape
func toEvent(update ytdlp.ProgressUpdate) progress.Event {
	ev := progress.Event{
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		Filename:        update.Filename,
	}

	switch update.Status {
	case ytdlp.ProgressStatusFinished:
		ev.Status = progress.EventFinished
	case ytdlp.ProgressStatusPostProcessing:
		ev.Status = progress.EventPostProcessing
	default:
		ev.Status = progress.EventDownloading
	}

	if update.Info != nil {
		if update.Info.Title != nil {
			ev.Title = *update.Info.Title
		}
		if update.Info.PlaylistIndex != nil {
			ev.PlaylistIndex = int(*update.Info.PlaylistIndex)
		}
	}

	if eta := update.ETA(); eta > 0 {
		ev.ETASec = int(eta.Seconds())
	}
	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			ev.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	return ev
}
