package options

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Capture source modes. These select the ffmpeg input (or, for SourceMJPEG,
// bypass ffmpeg entirely and relay an external MJPEG stream).
const (
	SourceWebcam  = "webcam"
	SourceTestsrc = "testsrc"
	SourceFile    = "file"
	SourceMJPEG   = "mjpeg"
)

var _ IOptions = (*CaptureOptions)(nil)

// CaptureOptions contains configuration for the video capture pipeline.
type CaptureOptions struct {
	// Source selects the video input: webcam, testsrc, file or mjpeg.
	Source string `json:"source" mapstructure:"source"`

	// Device is the V4L2 device path used when Source is "webcam".
	Device string `json:"device" mapstructure:"device"`

	// File is the video file looped when Source is "file".
	File string `json:"file" mapstructure:"file"`

	// MJPEGURL is the external stream relayed when Source is "mjpeg".
	MJPEGURL string `json:"mjpeg-url" mapstructure:"mjpeg-url"`

	// SinkPort is the local port the ffmpeg MJPEG sink listens on.
	SinkPort int `json:"sink-port" mapstructure:"sink-port"`

	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
	FPS    int `json:"fps" mapstructure:"fps"`

	// JPEGQuality is ffmpeg's -q:v for the mjpeg encoder (2 best .. 31 worst).
	JPEGQuality int `json:"jpeg-quality" mapstructure:"jpeg-quality"`

	// RestartCooldown is the delay before relaunching an exited pipeline.
	RestartCooldown time.Duration `json:"restart-cooldown" mapstructure:"restart-cooldown"`
}

// NewCaptureOptions creates a CaptureOptions object with default parameters.
func NewCaptureOptions() *CaptureOptions {
	return &CaptureOptions{
		Source:          SourceWebcam,
		Device:          "/dev/video0",
		SinkPort:        8090,
		Width:           1280,
		Height:          720,
		FPS:             30,
		JPEGQuality:     5,
		RestartCooldown: 800 * time.Millisecond,
	}
}

// Validate rejects inconsistent source combinations before the core starts.
func (o *CaptureOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Source {
	case SourceWebcam, SourceTestsrc:
	case SourceFile:
		if o.File == "" {
			errors = append(errors, fmt.Errorf("capture.file is required when capture.source is %q", SourceFile))
		} else if _, err := os.Stat(o.File); err != nil {
			errors = append(errors, fmt.Errorf("video file not found: %s", o.File))
		}
	case SourceMJPEG:
		if o.MJPEGURL == "" {
			errors = append(errors, fmt.Errorf("capture.mjpeg-url is required when capture.source is %q", SourceMJPEG))
		} else if _, err := url.ParseRequestURI(o.MJPEGURL); err != nil {
			errors = append(errors, fmt.Errorf("invalid capture.mjpeg-url: %w", err))
		}
	default:
		errors = append(errors, fmt.Errorf("unknown capture.source %q", o.Source))
	}

	if o.Width <= 0 || o.Height <= 0 {
		errors = append(errors, fmt.Errorf("capture geometry must be positive, got %dx%d", o.Width, o.Height))
	}
	if o.FPS <= 0 {
		errors = append(errors, fmt.Errorf("capture.fps must be positive, got %d", o.FPS))
	}
	if o.JPEGQuality < 2 || o.JPEGQuality > 31 {
		errors = append(errors, fmt.Errorf("capture.jpeg-quality must be within [2,31], got %d", o.JPEGQuality))
	}
	if o.SinkPort <= 0 || o.SinkPort > 65535 {
		errors = append(errors, fmt.Errorf("capture.sink-port out of range: %d", o.SinkPort))
	}

	return errors
}

// AddFlags adds flags related to video capture to the specified FlagSet.
func (o *CaptureOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Source, "capture.source", o.Source, "Video input source (webcam, testsrc, file, mjpeg).")
	fs.StringVar(&o.Device, "capture.device", o.Device, "V4L2 camera device path.")
	fs.StringVar(&o.File, "capture.file", o.File, "Video file to loop when source is 'file'.")
	fs.StringVar(&o.MJPEGURL, "capture.mjpeg-url", o.MJPEGURL, "Upstream MJPEG URL when source is 'mjpeg'.")
	fs.IntVar(&o.SinkPort, "capture.sink-port", o.SinkPort, "Local port for the ffmpeg MJPEG sink.")
	fs.IntVar(&o.Width, "capture.width", o.Width, "Frame width.")
	fs.IntVar(&o.Height, "capture.height", o.Height, "Frame height.")
	fs.IntVar(&o.FPS, "capture.fps", o.FPS, "Target frame rate.")
	fs.IntVar(&o.JPEGQuality, "capture.jpeg-quality", o.JPEGQuality, "MJPEG encoder quality, ffmpeg -q:v (2-31).")
	fs.DurationVar(&o.RestartCooldown, "capture.restart-cooldown", o.RestartCooldown, "Delay before restarting an exited capture pipeline.")
}
