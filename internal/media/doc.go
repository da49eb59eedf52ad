// Package media shells out to ffprobe/ffmpeg for stream inspection and
// container normalization. Both tools are optional: when a binary is not
// on PATH the callers fall open rather than blocking completion.
package media
