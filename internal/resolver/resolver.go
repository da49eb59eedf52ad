package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-webdl/internal/media"
	"github.com/ytget/yt-webdl/internal/model"
)

// ErrNoMedia is the fatal outcome of a job whose directory holds no
// usable final candidate after selection and validation.
var ErrNoMedia = errors.New("no media files were produced")

// Result describes the finished deliverable
type Result struct {
	// Deliverable is the base name of the file to publish
	Deliverable string
	// Files are the base names of the underlying final outputs
	Files []string
	// IsArchive is true when Deliverable bundles two or more files
	IsArchive bool
}

// Resolver runs the post-download stages for one job directory
type Resolver struct {
	prober     media.Prober
	normalizer media.Normalizer
}

// New creates a resolver. Both tools may be unavailable; validation then
// passes by default and normalization is skipped.
func New(prober media.Prober, normalizer media.Normalizer) *Resolver {
	return &Resolver{prober: prober, normalizer: normalizer}
}

// Resolve drives discovery, selection, validation, normalization and
// packaging. Every stage except discovery is best-effort; only an empty
// final set is fatal.
func (r *Resolver) Resolve(ctx context.Context, jobID, dir string, kind model.Kind, multiItem bool) (*Result, error) {
	files, err := Collect(dir)
	if err != nil {
		return nil, fmt.Errorf("list job directory: %w", err)
	}

	candidates := Pick(Discover(files), multiItem)
	candidates = r.validate(ctx, dir, kind, candidates)
	if len(candidates) == 0 {
		return nil, ErrNoMedia
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	if len(names) == 1 && kind == model.KindMediaVideo {
		names[0] = r.normalize(ctx, dir, names[0])
	}

	if len(names) > 1 {
		archiveName, err := PackArchive(dir, jobID+".zip", names)
		if err != nil {
			return nil, fmt.Errorf("package outputs: %w", err)
		}
		return &Result{Deliverable: archiveName, Files: names, IsArchive: true}, nil
	}

	return &Result{Deliverable: names[0], Files: names}, nil
}

// validate drops candidates that fail stream probing. Without a usable
// prober every candidate passes: validation defends against partial-merge
// corruption and is not critical path.
func (r *Resolver) validate(ctx context.Context, dir string, kind model.Kind, candidates []FileDesc) []FileDesc {
	if r.prober == nil || !r.prober.Available() {
		return candidates
	}

	var valid []FileDesc
	for _, c := range candidates {
		if r.probeOK(ctx, filepath.Join(dir, c.Name), kind) {
			valid = append(valid, c)
		} else {
			log.Printf("dropping %s: failed stream validation", c.Name)
		}
	}
	return valid
}

func (r *Resolver) probeOK(ctx context.Context, path string, kind model.Kind) bool {
	result, err := r.prober.Probe(ctx, path)
	if err != nil {
		// Probe tooling faults pass the file through rather than
		// failing the job on a tooling problem.
		log.Printf("probe failed for %s, accepting file: %v", path, err)
		return true
	}
	if kind == model.KindMediaVideo {
		return result.HasPlayableVideo()
	}
	return true
}

// normalize rewrites a video output into the target mp4 container. A
// failed re-encode degrades to the original file and is logged only.
func (r *Resolver) normalize(ctx context.Context, dir, name string) string {
	if strings.EqualFold(filepath.Ext(name), media.TargetExtension) {
		return name
	}
	if r.normalizer == nil || !r.normalizer.Available() {
		return name
	}

	normalized := SanitizeFilename(baseWithoutExt(name)) + media.TargetExtension
	input := filepath.Join(dir, name)
	output := filepath.Join(dir, normalized)

	if err := r.normalizer.Normalize(ctx, input, output); err != nil {
		log.Printf("normalization failed for %s, keeping original: %v", name, err)
		os.Remove(output)
		return name
	}

	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		log.Printf("normalization produced no output for %s, keeping original", name)
		return name
	}

	os.Remove(input)
	return normalized
}
