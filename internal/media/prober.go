package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	ffprobeCommand = "ffprobe"
	ffmpegCommand  = "ffmpeg"

	codecTypeVideo = "video"
	codecTypeAudio = "audio"
)

// Stream is one elementary stream of a probed container
type Stream struct {
	CodecType string
	CodecName string
	Width     int
	Height    int
}

// ProbeResult summarizes a container's composition
type ProbeResult struct {
	Streams  []Stream
	Duration float64
}

// VideoStream returns the first video stream, or nil
func (r *ProbeResult) VideoStream() *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecTypeVideo {
			return &r.Streams[i]
		}
	}
	return nil
}

// AudioStream returns the first audio stream, or nil
func (r *ProbeResult) AudioStream() *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecTypeAudio {
			return &r.Streams[i]
		}
	}
	return nil
}

// HasPlayableVideo reports whether the container holds a video stream
// with positive dimensions.
func (r *ProbeResult) HasPlayableVideo() bool {
	v := r.VideoStream()
	return v != nil && v.Width > 0 && v.Height > 0
}

// Prober inspects media containers
type Prober interface {
	// Available reports whether inspection tooling is usable at all
	Available() bool
	Probe(ctx context.Context, path string) (*ProbeResult, error)
}

// FFProbe probes files with the ffprobe binary
type FFProbe struct {
	bin string
}

// NewFFProbe locates ffprobe on PATH. The returned prober reports
// unavailable when the binary is missing.
func NewFFProbe() *FFProbe {
	bin, err := exec.LookPath(ffprobeCommand)
	if err != nil {
		return &FFProbe{}
	}
	return &FFProbe{bin: bin}
}

// Available reports whether ffprobe was found
func (p *FFProbe) Available() bool {
	return p.bin != ""
}

// Probe runs ffprobe and parses its JSON output
func (p *FFProbe) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("ffprobe not available")
	}

	cmd := exec.CommandContext(ctx, p.bin,
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	return parseProbeOutput(output)
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// parseProbeOutput decodes ffprobe's -of json output
func parseProbeOutput(output []byte) (*ProbeResult, error) {
	var ff ffprobeOutput
	if err := json.Unmarshal(output, &ff); err != nil {
		return nil, fmt.Errorf("decode ffprobe output: %w", err)
	}

	result := &ProbeResult{}
	if dur, err := strconv.ParseFloat(ff.Format.Duration, 64); err == nil {
		result.Duration = dur
	}
	for _, s := range ff.Streams {
		result.Streams = append(result.Streams, Stream{
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Width:     s.Width,
			Height:    s.Height,
		})
	}
	return result, nil
}
