package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Known media container extensions accepted as final candidates
var mediaExtensions = []string{
	".mp4", ".mp3", ".m4a", ".webm", ".mkv", ".avi", ".mov", ".flv", ".wmv", ".3gp",
}

// Transient download markers left behind by the engine mid-fetch
var transientSuffixes = []string{".part", ".ytdl", ".tmp", ".temp", ".f4v", ".f4a"}

// Transient markers that appear mid-name, e.g. "video.part.mp4"
var transientMarkers = []string{".part.", ".ytdl.", ".tmp.", ".temp."}

// Sidecar artifacts that never count as deliverables
var sidecarExtensions = []string{
	".jpg", ".jpeg", ".png", ".webp", ".json", ".vtt", ".srt", ".txt", ".info",
}

// FileDesc describes one entry of the job's output directory, decoupled
// from the filesystem so discovery and selection stay pure.
type FileDesc struct {
	Name string // base name
	Size int64
	Dir  bool
}

// Discover filters directory entries down to final candidates: non-empty
// regular files with a known media extension that are neither transient
// download leftovers nor sidecar artifacts.
func Discover(files []FileDesc) []FileDesc {
	var candidates []FileDesc
	for _, f := range files {
		if isFinalCandidate(f) {
			candidates = append(candidates, f)
		}
	}
	return candidates
}

func isFinalCandidate(f FileDesc) bool {
	if f.Dir || f.Size == 0 {
		return false
	}
	name := strings.ToLower(f.Name)
	for _, suffix := range transientSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	for _, marker := range transientMarkers {
		if strings.Contains(name, marker) {
			return false
		}
	}
	for _, ext := range sidecarExtensions {
		if strings.HasSuffix(name, ext) {
			return false
		}
	}
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Pick chooses the output set from the candidates. Multi-item jobs keep
// every candidate; a single-item job with spurious duplicates keeps only
// the largest file, which resolves engines leaving an intermediate next
// to the merged final file.
func Pick(candidates []FileDesc, multiItem bool) []FileDesc {
	if len(candidates) <= 1 || multiItem {
		return candidates
	}

	largest := candidates[0]
	for _, c := range candidates[1:] {
		if c.Size > largest.Size {
			largest = c
		}
	}
	return []FileDesc{largest}
}

// Collect lists the job directory as file descriptors
func Collect(dir string) ([]FileDesc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]FileDesc, 0, len(entries))
	for _, entry := range entries {
		desc := FileDesc{Name: entry.Name(), Dir: entry.IsDir()}
		if !entry.IsDir() {
			if info, err := entry.Info(); err == nil {
				desc.Size = info.Size()
			}
		}
		files = append(files, desc)
	}
	return files, nil
}

const maxFilenameLength = 200

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*#!]`)
	unsafeFilenameRunes  = regexp.MustCompile(`[^\w\s\-_.()\[\]]`)
	collapsedUnderscores = regexp.MustCompile(`_+`)
)

// SanitizeFilename strips characters that break URLs or filesystems from
// a produced file's base name.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = unsafeFilenameRunes.ReplaceAllString(name, "_")
	name = collapsedUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_.")
	if name == "" {
		name = "video"
	}
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	return name
}

// baseWithoutExt returns the file name with its extension removed
func baseWithoutExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
