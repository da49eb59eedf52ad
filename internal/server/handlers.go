package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ytget/yt-webdl/internal/model"
	"github.com/ytget/yt-webdl/internal/pipeline"
	"github.com/ytget/yt-webdl/internal/platform"
	"github.com/ytget/yt-webdl/internal/registry"
)

// Handler exposes the delivery interface: submit, status polling and
// artifact retrieval. Reads are always a fast registry snapshot; nothing
// here ever blocks on a worker.
type Handler struct {
	jobs     *pipeline.Service
	registry *registry.Registry
	metadata *platform.MetadataService
}

// NewHandler creates the HTTP handler set
func NewHandler(jobs *pipeline.Service, reg *registry.Registry, metadata *platform.MetadataService) *Handler {
	return &Handler{
		jobs:     jobs,
		registry: reg,
		metadata: metadata,
	}
}

// SubmitRequest is the body of POST /api/download
type SubmitRequest struct {
	URL        string `json:"url"`
	Kind       string `json:"kind"`
	Resolution string `json:"resolution,omitempty"`
	Selection  []int  `json:"selection,omitempty"`
}

// SubmitResponse acknowledges a created job
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// ItemStatus is one flattened entry of the job's item map, ordered by index
type ItemStatus struct {
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	Progress *float64 `json:"progress"`
	Status   string   `json:"status"`
	Filename string   `json:"filename,omitempty"`
}

// OutputStatus describes the finished deliverable on the wire
type OutputStatus struct {
	Filename   string `json:"filename"`
	PublishURL string `json:"publish_url"`
	QRImage    string `json:"qr_image,omitempty"`
	IsArchive  bool   `json:"is_archive"`
}

// StatusResponse is the poll result for one job
type StatusResponse struct {
	Status     string        `json:"status"`
	Progress   *float64      `json:"progress"`
	Items      []ItemStatus  `json:"items"`
	IsPlaylist bool          `json:"is_playlist"`
	ETASec     int           `json:"eta_sec,omitempty"`
	Speed      string        `json:"speed,omitempty"`
	Output     *OutputStatus `json:"output,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Submit handles POST /api/download
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := model.Kind(req.Kind)
	if req.Kind == "" {
		kind = model.KindMediaVideo
	}

	jobID, err := h.jobs.Submit(req.URL, kind, req.Resolution, req.Selection)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{JobID: jobID})
}

// Status handles GET /api/progress/{job_id}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	job, err := h.registry.Read(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse(job))
}

// statusResponse flattens a job snapshot into its wire form
func statusResponse(job *model.Job) StatusResponse {
	resp := StatusResponse{
		Status:     job.Status.String(),
		Progress:   job.Progress,
		Items:      make([]ItemStatus, 0, len(job.Items)),
		IsPlaylist: job.MultiItem(),
		ETASec:     job.ETASec,
		Speed:      job.Speed,
		Error:      job.Error,
	}

	for _, idx := range job.ItemIndices() {
		item := job.Items[idx]
		resp.Items = append(resp.Items, ItemStatus{
			Index:    idx,
			Title:    item.Title,
			Progress: item.Progress,
			Status:   item.Status.String(),
			Filename: item.Filename,
		})
	}

	if job.Output != nil {
		resp.Output = &OutputStatus{
			Filename:   job.Output.Filename,
			PublishURL: job.Output.PublishURL,
			QRImage:    job.Output.QRImage,
			IsArchive:  job.Output.IsArchive,
		}
	}

	return resp
}

// Artifact handles GET /download/{job_id}/{filename}
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["job_id"]
	filename := vars["filename"]

	if _, err := h.registry.Read(jobID); err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	path, ok := h.artifactPath(jobID, filename)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}

// artifactPath resolves the requested file inside the job's private
// directory, rejecting anything that would escape it.
func (h *Handler) artifactPath(jobID, filename string) (string, bool) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", false
	}
	if strings.HasPrefix(filename, ".") {
		return "", false
	}

	dir := h.jobs.JobDir(jobID)
	path := filepath.Join(dir, filename)
	if !strings.HasPrefix(path, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", false
	}
	return path, true
}

// MetadataRequest is the body of POST /api/metadata
type MetadataRequest struct {
	URL string `json:"url"`
}

// Metadata handles POST /api/metadata
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	var req MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	meta, err := h.metadata.Resolve(r.Context(), req.URL)
	if err != nil {
		log.Printf("metadata lookup failed for %s: %v", req.URL, err)
		writeError(w, http.StatusBadGateway, "unable to resolve source")
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
