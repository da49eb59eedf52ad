// Package engine wraps the external download engine behind a small port.
// The real implementation drives yt-dlp via github.com/lrstanley/go-ytdlp;
// tests substitute stubs that write files and emit synthetic events.
package engine
