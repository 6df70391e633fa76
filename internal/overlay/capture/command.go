package capture

import (
	"fmt"
	"strconv"

	"github.com/pitwall-io/pitwall/pkg/options"
)

// BuildArgs assembles the ffmpeg invocation for the configured source: a
// source-specific input, fixed low-latency flags, a resize/frame-rate
// normalization stage and a local listen-and-serve MJPEG sink.
func BuildArgs(opts *options.CaptureOptions) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "warning",
		"-fflags", "+nobuffer",
		"-flags", "low_delay",
		"-thread_queue_size", "1024",
	}

	switch opts.Source {
	case options.SourceWebcam:
		args = append(args,
			"-f", "v4l2",
			"-framerate", strconv.Itoa(opts.FPS),
			"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
			"-i", opts.Device,
		)
	case options.SourceFile:
		args = append(args,
			"-stream_loop", "-1",
			"-re",
			"-i", opts.File,
		)
	default:
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("testsrc2=size=%dx%d:rate=%d", opts.Width, opts.Height, opts.FPS),
		)
	}

	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:%d:flags=lanczos,fps=%d", opts.Width, opts.Height, opts.FPS),
		"-an",
		"-c:v", "mjpeg",
		"-q:v", strconv.Itoa(opts.JPEGQuality),
		"-f", "mpjpeg",
		"-listen", "1",
		SinkURL(opts.SinkPort),
	)

	return args
}

// SinkURL is the local address the ffmpeg sink serves the MJPEG stream on.
func SinkURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/live.mjpg", port)
}
