package platform

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/ytget/ytdlp/v2"
)

const (
	defaultLookupTimeout = 60 * time.Second

	playlistParam  = "list="
	paramSeparator = "&"

	videoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Resolutions offered when the source does not advertise its own ladder
var defaultResolutions = []string{"1080p", "720p", "480p", "360p"}

// Metadata describes a resolved source
type Metadata struct {
	Type        string      `json:"type"` // "playlist" or "video"
	Title       string      `json:"title"`
	Channel     string      `json:"channel,omitempty"`
	Duration    *float64    `json:"duration,omitempty"` // seconds, nil when unknown
	Entries     []EntryInfo `json:"entries,omitempty"`
	Resolutions []string    `json:"resolutions,omitempty"`
}

// EntryInfo is the wire form of one playlist entry
type EntryInfo struct {
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Duration    *float64 `json:"duration,omitempty"`
	Resolutions []string `json:"resolutions"`
}

// VideoInfo is the slice of extracted fields the metadata surface needs
// from a single video.
type VideoInfo struct {
	Title    string
	Channel  string
	Duration *float64 // seconds, nil when the extractor reports none
	Heights  []int    // video stream heights across available formats
}

// VideoInspector extracts single-video info without downloading
type VideoInspector interface {
	Inspect(ctx context.Context, url string) (*VideoInfo, error)
}

// MetadataService looks up source composition: playlists through the
// ytdlp client, single videos through the download engine's extractor.
type MetadataService struct {
	timeout   time.Duration
	inspector VideoInspector
}

// NewMetadataService creates a metadata service with the default timeout
func NewMetadataService() *MetadataService {
	return &MetadataService{
		timeout:   defaultLookupTimeout,
		inspector: ytdlpInspector{},
	}
}

// SetTimeout overrides the lookup timeout
func (m *MetadataService) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
}

// SetInspector overrides the single-video inspector
func (m *MetadataService) SetInspector(inspector VideoInspector) {
	m.inspector = inspector
}

// Resolve inspects the URL. Playlist URLs are expanded into their entry
// list; anything else is extracted as a single video with its title,
// duration and the resolution ladder its formats actually offer.
func (m *MetadataService) Resolve(ctx context.Context, url string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if !IsPlaylistURL(url) {
		return m.resolveVideo(ctx, url)
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist id from URL: %s", url)
	}

	client := ytdlp.New()
	items, err := client.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist items: %w", err)
	}

	meta := &Metadata{Type: "playlist"}
	for i, item := range items {
		meta.Entries = append(meta.Entries, EntryInfo{
			Index:       i + 1,
			Title:       item.Title,
			URL:         fmt.Sprintf(videoURLTemplate, item.VideoID),
			Resolutions: defaultResolutions,
		})
	}
	if len(meta.Entries) > 0 {
		meta.Title = meta.Entries[0].Title + " Playlist"
	}
	return meta, nil
}

// resolveVideo extracts a single video's metadata without downloading it
func (m *MetadataService) resolveVideo(ctx context.Context, url string) (*Metadata, error) {
	info, err := m.inspector.Inspect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("inspect video: %w", err)
	}

	return &Metadata{
		Type:        "video",
		Title:       info.Title,
		Channel:     info.Channel,
		Duration:    info.Duration,
		Resolutions: resolutionLadder(info.Heights),
	}, nil
}

// resolutionLadder renders distinct format heights as "1080p"-style labels
// in descending order, falling back to the default ladder when the
// extractor reported no heights at all.
func resolutionLadder(heights []int) []string {
	seen := make(map[int]bool)
	uniq := make([]int, 0, len(heights))
	for _, h := range heights {
		if h > 0 && !seen[h] {
			seen[h] = true
			uniq = append(uniq, h)
		}
	}
	if len(uniq) == 0 {
		return defaultResolutions
	}

	sort.Sort(sort.Reverse(sort.IntSlice(uniq)))
	ladder := make([]string, len(uniq))
	for i, h := range uniq {
		ladder[i] = strconv.Itoa(h) + "p"
	}
	return ladder
}

// ytdlpInspector runs the extractor of the download engine in
// skip-download mode.
type ytdlpInspector struct{}

func (ytdlpInspector) Inspect(ctx context.Context, url string) (*VideoInfo, error) {
	result, err := goytdlp.New().SkipDownload().Run(ctx, url)
	if err != nil {
		return nil, err
	}

	extracted, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("decode extracted info: %w", err)
	}
	if len(extracted) == 0 {
		return nil, fmt.Errorf("no info extracted for %s", url)
	}
	raw := extracted[0]

	info := &VideoInfo{}
	if raw.Title != nil {
		info.Title = *raw.Title
	}
	if raw.Channel != nil {
		info.Channel = *raw.Channel
	}
	if raw.Duration != nil {
		d := *raw.Duration
		info.Duration = &d
	}
	for _, format := range raw.Formats {
		if format == nil || format.Height == nil {
			continue
		}
		if h := int(*format.Height); h > 0 {
			info.Heights = append(info.Heights, h)
		}
	}
	return info, nil
}

// IsPlaylistURL reports whether the URL addresses a playlist
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, playlistParam)
}

// ExtractPlaylistID pulls the playlist id out of the various URL forms
func ExtractPlaylistID(url string) string {
	if !strings.Contains(url, playlistParam) {
		return ""
	}
	parts := strings.Split(url, playlistParam)
	if len(parts) < 2 {
		return ""
	}
	id := parts[1]
	if strings.Contains(id, paramSeparator) {
		id = strings.Split(id, paramSeparator)[0]
	}
	return id
}
