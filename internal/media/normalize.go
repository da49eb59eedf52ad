package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Target container settings for normalized video deliverables
const (
	TargetVideoCodec = "h264"
	TargetAudioCodec = "aac"
	TargetExtension  = ".mp4"

	encodeVideoCodec = "libx264"
	encodePixFmt     = "yuv420p"
	encodePreset     = "faster"
	encodeCRF        = "23"
	encodeAudioCodec = "aac"
	audioBitrate     = "128k"
	fastStartFlag    = "+faststart"
)

// Normalizer converts a produced file into the target delivery container
type Normalizer interface {
	// Available reports whether re-encode tooling is usable
	Available() bool
	// Normalize writes a standard mp4 rendition of input to output
	Normalize(ctx context.Context, input, output string) error
}

// FFMpeg normalizes containers with the ffmpeg binary, remuxing by copy
// when the source codecs already match the target pair.
type FFMpeg struct {
	bin    string
	prober Prober
}

// NewFFMpeg locates ffmpeg on PATH
func NewFFMpeg(prober Prober) *FFMpeg {
	bin, err := exec.LookPath(ffmpegCommand)
	if err != nil {
		return &FFMpeg{prober: prober}
	}
	return &FFMpeg{bin: bin, prober: prober}
}

// Available reports whether ffmpeg was found
func (f *FFMpeg) Available() bool {
	return f.bin != ""
}

// Normalize produces output as an mp4 with widely compatible codecs. When
// the input is already h264/aac inside an mp4 the file is copied as-is.
func (f *FFMpeg) Normalize(ctx context.Context, input, output string) error {
	if !f.Available() {
		return fmt.Errorf("ffmpeg not available")
	}

	info, err := os.Stat(input)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("input file missing or empty: %s", input)
	}

	hasAudio := true
	if f.prober != nil && f.prober.Available() {
		result, probeErr := f.prober.Probe(ctx, input)
		if probeErr == nil {
			video := result.VideoStream()
			if video == nil {
				return fmt.Errorf("input has no video stream: %s", input)
			}
			audio := result.AudioStream()
			hasAudio = audio != nil

			if alreadyNormalized(input, video, audio) {
				return copyFile(input, output)
			}
		}
	}

	args := encodeArgs(input, output, hasAudio)
	cmd := exec.CommandContext(ctx, f.bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg re-encode failed: %w: %s", err, truncate(string(out), 500))
	}

	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		return fmt.Errorf("ffmpeg produced no output for %s", input)
	}
	return nil
}

// alreadyNormalized reports whether the container/codec pair already
// matches the delivery target.
func alreadyNormalized(path string, video, audio *Stream) bool {
	if !strings.EqualFold(filepath.Ext(path), TargetExtension) {
		return false
	}
	if video == nil || video.CodecName != TargetVideoCodec {
		return false
	}
	return audio == nil || audio.CodecName == TargetAudioCodec
}

// encodeArgs builds the full re-encode command line
func encodeArgs(input, output string, hasAudio bool) []string {
	args := []string{
		"-y",
		"-i", input,
		"-c:v", encodeVideoCodec,
		"-pix_fmt", encodePixFmt,
		"-preset", encodePreset,
		"-crf", encodeCRF,
		"-movflags", fastStartFlag,
	}
	if hasAudio {
		args = append(args, "-c:a", encodeAudioCodec, "-b:a", audioBitrate)
	} else {
		args = append(args, "-an")
	}
	args = append(args, "-avoid_negative_ts", "make_zero", output)
	return args
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
