package platform

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubInspector returns canned video info without touching the network
type stubInspector struct {
	info *VideoInfo
	err  error
}

func (s *stubInspector) Inspect(ctx context.Context, url string) (*VideoInfo, error) {
	return s.info, s.err
}

func newStubService(info *VideoInfo, err error) *MetadataService {
	svc := NewMetadataService()
	svc.SetInspector(&stubInspector{info: info, err: err})
	return svc
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", true},
		{"https://www.youtube.com/watch?v=xyz&list=PLabc123", true},
		{"https://www.youtube.com/watch?v=xyz", false},
		{"https://example.com/media.mp4", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsPlaylistURL(test.url); got != test.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", "PLabc123"},
		{"https://www.youtube.com/watch?v=xyz&list=PLabc123&index=4", "PLabc123"},
		{"https://www.youtube.com/watch?v=xyz", ""},
		{"", ""},
	}

	for _, test := range tests {
		if got := ExtractPlaylistID(test.url); got != test.expected {
			t.Errorf("ExtractPlaylistID(%q) = %q, expected %q", test.url, got, test.expected)
		}
	}
}

func TestResolve_SingleVideoCarriesExtractedInfo(t *testing.T) {
	duration := 213.0
	svc := newStubService(&VideoInfo{
		Title:    "Example Talk",
		Channel:  "Example Channel",
		Duration: &duration,
		Heights:  []int{360, 1080, 720, 1080, 144},
	}, nil)

	meta, err := svc.Resolve(context.Background(), "https://www.youtube.com/watch?v=xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Type != "video" {
		t.Errorf("type = %q, expected video", meta.Type)
	}
	if meta.Title != "Example Talk" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Channel != "Example Channel" {
		t.Errorf("channel = %q", meta.Channel)
	}
	if meta.Duration == nil || *meta.Duration != 213 {
		t.Errorf("duration = %v, expected 213", meta.Duration)
	}
	if len(meta.Entries) != 0 {
		t.Errorf("plain video must not carry entries, got %d", len(meta.Entries))
	}

	expected := []string{"1080p", "720p", "360p", "144p"}
	if !reflect.DeepEqual(meta.Resolutions, expected) {
		t.Errorf("resolutions = %v, expected %v", meta.Resolutions, expected)
	}
}

func TestResolve_SingleVideoWithoutFormatsFallsBack(t *testing.T) {
	svc := newStubService(&VideoInfo{Title: "No Formats"}, nil)

	meta, err := svc.Resolve(context.Background(), "https://www.youtube.com/watch?v=xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Duration != nil {
		t.Errorf("duration = %v, expected nil when the extractor reports none", meta.Duration)
	}
	if !reflect.DeepEqual(meta.Resolutions, defaultResolutions) {
		t.Errorf("resolutions = %v, expected the default ladder", meta.Resolutions)
	}
}

func TestResolve_SingleVideoInspectionFailure(t *testing.T) {
	svc := newStubService(nil, errors.New("video is private"))

	_, err := svc.Resolve(context.Background(), "https://www.youtube.com/watch?v=xyz")
	if err == nil {
		t.Fatal("expected an error when inspection fails")
	}
}

func TestResolutionLadder(t *testing.T) {
	tests := []struct {
		name     string
		heights  []int
		expected []string
	}{
		{"descending unique", []int{720, 1080, 720, 480}, []string{"1080p", "720p", "480p"}},
		{"zero heights dropped", []int{0, 360}, []string{"360p"}},
		{"empty falls back", nil, defaultResolutions},
		{"all zero falls back", []int{0, 0}, defaultResolutions},
	}

	for _, test := range tests {
		if got := resolutionLadder(test.heights); !reflect.DeepEqual(got, test.expected) {
			t.Errorf("%s: resolutionLadder(%v) = %v, expected %v", test.name, test.heights, got, test.expected)
		}
	}
}
