package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/ytget/yt-webdl/internal/config"
	"github.com/ytget/yt-webdl/internal/engine"
	"github.com/ytget/yt-webdl/internal/media"
	"github.com/ytget/yt-webdl/internal/pipeline"
	"github.com/ytget/yt-webdl/internal/platform"
	"github.com/ytget/yt-webdl/internal/publish"
	"github.com/ytget/yt-webdl/internal/registry"
	"github.com/ytget/yt-webdl/internal/resolver"
	"github.com/ytget/yt-webdl/internal/server"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	log.Printf("yt-webdl v%s starting", version)

	cfg := config.Load()
	if err := os.MkdirAll(cfg.DownloadRoot, 0o755); err != nil {
		log.Fatalf("failed to ensure download root %s: %v", cfg.DownloadRoot, err)
	}
	if cfg.CookieFile != "" {
		log.Printf("using cookie file: %s", cfg.CookieFile)
	} else {
		log.Printf("no cookie file configured; restricted sources may be inaccessible")
	}

	prober := media.NewFFProbe()
	if !prober.Available() {
		log.Printf("ffprobe not found; output validation is disabled")
	}
	normalizer := media.NewFFMpeg(prober)
	if !normalizer.Available() {
		log.Printf("ffmpeg not found; container normalization is disabled")
	}

	reg := registry.New()
	res := resolver.New(prober, normalizer)
	eng := engine.NewYTDLP()

	baseURL := func() string {
		return publish.BaseURL(cfg.PublicHost, cfg.BindHost, cfg.ListenPort)
	}
	jobs := pipeline.New(reg, eng, res, cfg.DownloadRoot, cfg.CookieFile, baseURL)

	handler := server.NewHandler(jobs, reg, platform.NewMetadataService())
	router := mux.NewRouter()
	server.SetupRoutes(router, handler)

	addr := cfg.ListenAddr()
	log.Printf("listening on %s, downloads under %s", addr, cfg.DownloadRoot)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
