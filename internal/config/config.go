package config

import (
	"os"
	"path/filepath"
)

// Default values
const (
	DefaultListenPort   = "5000"
	DefaultDownloadRoot = "/tmp/yt_web"
	cookieFileName      = "cookies.txt"
)

// Environment variable keys
const (
	KeyListenPort   = "YT_LISTEN_PORT"
	KeyBindHost     = "YT_BIND_HOST"
	KeyPublicHost   = "YT_PUBLIC_HOST"
	KeyDownloadRoot = "YT_DOWNLOAD_ROOT"
	KeyCookiesFile  = "YOUTUBE_COOKIES_FILE"
)

// Config holds the service configuration
type Config struct {
	// ListenPort is the HTTP port to serve on
	ListenPort string

	// BindHost is the interface address to bind; empty binds all
	BindHost string

	// PublicHost overrides publish-URL host detection when set
	PublicHost string

	// DownloadRoot is the parent of per-job output directories
	DownloadRoot string

	// CookieFile is an optional cookies.txt for restricted content
	CookieFile string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		ListenPort:   getEnv(KeyListenPort, DefaultListenPort),
		BindHost:     getEnv(KeyBindHost, ""),
		PublicHost:   getEnv(KeyPublicHost, ""),
		DownloadRoot: getEnv(KeyDownloadRoot, DefaultDownloadRoot),
		CookieFile:   resolveCookieFile(),
	}
}

// ListenAddr returns the host:port address for the HTTP listener
func (c *Config) ListenAddr() string {
	return c.BindHost + ":" + c.ListenPort
}

// resolveCookieFile finds a cookies.txt: an explicit env path wins, then
// one sitting in the working directory. Returns "" when none exists.
func resolveCookieFile() string {
	if path := os.Getenv(KeyCookiesFile); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, cookieFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
