package engine

import (
	"context"

	"github.com/ytget/yt-webdl/internal/progress"
)

// FetchRequest describes one engine invocation
type FetchRequest struct {
	URL        string
	Format     string // yt-dlp format selector
	OutputDir  string // per-job private directory
	Selection  []int  // 1-based playlist indices, empty for whole source
	MergeToMP4 bool   // ask the engine to merge split streams into mp4
	CookieFile string // optional cookies.txt for restricted content
}

// Engine fetches remote media into the request's output directory,
// reporting progress through the callback. The callback may be invoked
// from the engine's own goroutines in arbitrary order.
type Engine interface {
	Fetch(ctx context.Context, req FetchRequest, onProgress func(progress.Event)) error
}
