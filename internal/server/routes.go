package server

import (
	"github.com/gorilla/mux"
)

// SetupRoutes attaches the delivery interface to the router
func SetupRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/api/download", h.Submit).Methods("POST")
	r.HandleFunc("/api/progress/{job_id}", h.Status).Methods("GET")
	r.HandleFunc("/api/metadata", h.Metadata).Methods("POST")
	r.HandleFunc("/download/{job_id}/{filename}", h.Artifact).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
}
