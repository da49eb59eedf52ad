package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytget/yt-webdl/internal/engine"
	"github.com/ytget/yt-webdl/internal/model"
	"github.com/ytget/yt-webdl/internal/progress"
	"github.com/ytget/yt-webdl/internal/publish"
	"github.com/ytget/yt-webdl/internal/registry"
	"github.com/ytget/yt-webdl/internal/resolver"
)

// ErrEmptyURL rejects a submission before any job record exists
var ErrEmptyURL = errors.New("source URL is required")

// ErrInvalidKind rejects a submission with an unknown output kind
var ErrInvalidKind = errors.New("invalid kind")

const jobDirPermissions = 0o755

// Service creates jobs and launches their workers
type Service struct {
	registry *registry.Registry
	engine   engine.Engine
	resolver *resolver.Resolver

	downloadRoot string
	cookieFile   string
	baseURL      func() string
}

// New wires the pipeline. baseURL is resolved per job at publish time so
// late-bound interface addresses are picked up.
func New(reg *registry.Registry, eng engine.Engine, res *resolver.Resolver, downloadRoot, cookieFile string, baseURL func() string) *Service {
	return &Service{
		registry:     reg,
		engine:       eng,
		resolver:     res,
		downloadRoot: downloadRoot,
		cookieFile:   cookieFile,
		baseURL:      baseURL,
	}
}

// Submit validates the request, creates the job record and launches its
// worker detached. The returned id is pollable immediately. Workers are
// deliberately unbounded; an admission limiter can wrap Submit without
// touching the core.
func (s *Service) Submit(rawURL string, kind model.Kind, resolution string, selection []int) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", ErrEmptyURL
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	job := s.registry.Create(model.Source{
		URL:        strings.TrimSpace(rawURL),
		Kind:       kind,
		Resolution: resolution,
	}, selection)

	go s.run(job.ID)

	return job.ID, nil
}

// JobDir returns the private output directory for a job id
func (s *Service) JobDir(id string) string {
	return filepath.Join(s.downloadRoot, id)
}

// run drives one job to a terminal state
func (s *Service) run(id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("job %s: worker panic: %v", id, r)
			s.fail(id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	snapshot, err := s.registry.Read(id)
	if err != nil {
		return
	}
	src := snapshot.Source
	selection := snapshot.Selection

	s.registry.Mutate(id, func(j *model.Job) {
		j.Advance(model.StatusStarting)
	})

	dir := s.JobDir(id)
	if err := os.MkdirAll(dir, jobDirPermissions); err != nil {
		s.fail(id, fmt.Sprintf("create job directory: %v", err))
		return
	}

	// No cancellation or deadline here: the engine owns its own retry
	// and timeout behavior.
	ctx := context.Background()

	s.registry.Mutate(id, func(j *model.Job) {
		j.Advance(model.StatusDownloading)
	})

	req := engine.FetchRequest{
		URL:        src.URL,
		Format:     engine.FormatSelector(src.Kind, src.Resolution),
		OutputDir:  dir,
		Selection:  selection,
		MergeToMP4: src.Kind == model.KindMediaVideo,
		CookieFile: s.cookieFile,
	}

	err = s.engine.Fetch(ctx, req, func(ev progress.Event) {
		s.registry.Mutate(id, func(j *model.Job) {
			progress.Apply(j, ev)
		})
	})
	if err != nil {
		log.Printf("job %s: engine failed: %v", id, err)
		s.fail(id, err.Error())
		return
	}

	s.registry.Mutate(id, func(j *model.Job) {
		j.Advance(model.StatusProcessing)
	})

	multiItem := false
	if snap, err := s.registry.Read(id); err == nil {
		multiItem = snap.MultiItem()
	}

	result, err := s.resolver.Resolve(ctx, id, dir, src.Kind, multiItem)
	if err != nil {
		log.Printf("job %s: resolve failed: %v", id, err)
		s.fail(id, err.Error())
		return
	}

	s.complete(id, result)
}

// complete publishes the deliverable and seals the record
func (s *Service) complete(id string, result *resolver.Result) {
	base := s.baseURL()
	artifactURL := publish.ArtifactURL(base, id, result.Deliverable)

	qr, err := publish.QRDataURL(artifactURL)
	if err != nil {
		// The URL itself is still usable without the image.
		log.Printf("job %s: qr rendering failed: %v", id, err)
	}

	s.registry.Mutate(id, func(j *model.Job) {
		if j.Status.IsTerminal() {
			return
		}
		full := 100.0
		j.Progress = &full
		j.Output = &model.Output{
			Filename:   result.Deliverable,
			PublishURL: artifactURL,
			QRImage:    qr,
			IsArchive:  result.IsArchive,
			Files:      result.Files,
		}
		j.CompletedAt = time.Now()
		j.Status = model.StatusCompleted
	})
	log.Printf("job %s: completed with %s", id, result.Deliverable)
}

// fail seals the record with a terminal error message
func (s *Service) fail(id, message string) {
	s.registry.Mutate(id, func(j *model.Job) {
		if j.Status.IsTerminal() {
			return
		}
		j.Status = model.StatusError
		j.Error = message
	})
}
