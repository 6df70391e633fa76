package capture

import (
	"strings"
	"testing"

	"github.com/pitwall-io/pitwall/pkg/options"
)

func TestBuildArgs(t *testing.T) {
	base := func() *options.CaptureOptions {
		o := options.NewCaptureOptions()
		o.Width = 1280
		o.Height = 720
		o.FPS = 30
		o.JPEGQuality = 5
		o.SinkPort = 8090
		return o
	}

	tests := []struct {
		name     string
		mutate   func(*options.CaptureOptions)
		contains []string
	}{
		{
			name:   "webcam",
			mutate: func(o *options.CaptureOptions) { o.Source = options.SourceWebcam; o.Device = "/dev/video2" },
			contains: []string{
				"-f v4l2",
				"-framerate 30",
				"-video_size 1280x720",
				"-i /dev/video2",
			},
		},
		{
			name:   "testsrc",
			mutate: func(o *options.CaptureOptions) { o.Source = options.SourceTestsrc },
			contains: []string{
				"-f lavfi",
				"-i testsrc2=size=1280x720:rate=30",
			},
		},
		{
			name:   "file",
			mutate: func(o *options.CaptureOptions) { o.Source = options.SourceFile; o.File = "/tmp/lap.mp4" },
			contains: []string{
				"-stream_loop -1",
				"-re",
				"-i /tmp/lap.mp4",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base()
			tt.mutate(opts)

			args := BuildArgs(opts)
			joined := strings.Join(args, " ")

			want := append([]string{
				"-hide_banner",
				"-loglevel warning",
				"-fflags +nobuffer",
				"-flags low_delay",
				"-thread_queue_size 1024",
				"-vf scale=1280:720:flags=lanczos,fps=30",
				"-an",
				"-c:v mjpeg",
				"-q:v 5",
				"-f mpjpeg",
				"-listen 1",
			}, tt.contains...)
			for _, frag := range want {
				if !strings.Contains(joined, frag) {
					t.Errorf("args missing %q:\n%s", frag, joined)
				}
			}

			if last := args[len(args)-1]; last != "http://127.0.0.1:8090/live.mjpg" {
				t.Errorf("sink URL must be the final argument, got %q", last)
			}
		})
	}
}

func TestSinkURL(t *testing.T) {
	if got := SinkURL(9000); got != "http://127.0.0.1:9000/live.mjpg" {
		t.Errorf("SinkURL(9000) = %q", got)
	}
}
