package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/yt-webdl/internal/model"
)

// Audio-only selector: prefer containers that remux cleanly
const audioFormatSelector = "bestaudio[ext=m4a]/bestaudio[ext=aac]/bestaudio[ext=mp3]/bestaudio/best"

// FormatSelector builds the yt-dlp format selector for the requested kind
// and optional resolution ceiling. The fallback chains deliberately walk
// from mergeable mp4/webm pairs down to single-file worst-case formats so
// a fetch almost never fails on format availability alone.
func FormatSelector(kind model.Kind, resolution string) string {
	if kind == model.KindMedia {
		return audioFormatSelector
	}

	maxHeight := parseHeight(resolution)
	if maxHeight > 0 {
		h := strconv.Itoa(maxHeight)
		return fmt.Sprintf(
			"bestvideo[height<=%[1]s][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=%[1]s][ext=mp4]+bestaudio[ext=aac]/"+
				"bestvideo[height<=%[1]s][ext=webm]+bestaudio[ext=webm]/bestvideo[height<=%[1]s][ext=webm]+bestaudio[ext=opus]/"+
				"bestvideo[height<=%[1]s]+bestaudio/best[height<=%[1]s][ext=mp4]/best[height<=%[1]s]/"+
				"bestvideo[height<=%[1]s][ext=mp4]+bestaudio/bestvideo[height<=%[1]s][ext=webm]+bestaudio/"+
				"bestvideo[height<=%[1]s]+bestaudio[ext=m4a]/bestvideo[height<=%[1]s]+bestaudio[ext=aac]/"+
				"worst[height<=%[1]s]/worst",
			h,
		)
	}

	return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo[ext=mp4]+bestaudio[ext=aac]/" +
		"bestvideo[ext=webm]+bestaudio[ext=webm]/bestvideo[ext=webm]+bestaudio[ext=opus]/" +
		"bestvideo+bestaudio/best[ext=mp4]/best/" +
		"bestvideo[ext=mp4]+bestaudio/bestvideo[ext=webm]+bestaudio/" +
		"bestvideo+bestaudio[ext=m4a]/bestvideo+bestaudio[ext=aac]/" +
		"worst[ext=mp4]/worst"
}

// parseHeight extracts the numeric height from values like "720p" or
// "1080". Returns 0 when no digits are present.
func parseHeight(resolution string) int {
	var digits strings.Builder
	for _, r := range resolution {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	h, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return h
}

// SelectionSpec renders playlist indices as the comma-separated list
// yt-dlp expects. Ordering is preserved and duplicates are permitted;
// unknown indices are simply ignored by the engine.
func SelectionSpec(selection []int) string {
	if len(selection) == 0 {
		return ""
	}
	parts := make([]string, len(selection))
	for i, idx := range selection {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}
