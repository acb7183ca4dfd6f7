package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"snapcamverify"

	"github.com/benbjohnson/clock"
	"go.viam.com/rdk/logging"
)

type shellFactory func(snapcamverify.Settings, logging.Logger) snapcamverify.DeviceShell

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, snapcamverify.NewADBShell))
}

// run prints OK or FAILED on stdout and returns 0 either way; only bad
// arguments produce a non-zero code.
func run(args []string, stdout, stderr io.Writer, newShell shellFactory) int {
	fs := flag.NewFlagSet("snapcam-verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		filename     = fs.String("filename", "", "filename to save the picture as (default: timestamp)")
		flash        = fs.Bool("flash", false, "enable flash")
		autofocus    = fs.Bool("autofocus", false, "enable autofocus")
		iso          = fs.String("iso", "", "ISO: auto, 100, 200, 400, 800, 1600 or 3200")
		exposureTime = fs.Int64("exposure_time", 0, "exposure time in nanoseconds (passed to the camera, not verified)")
		resolution   = fs.String("resolution", "", "picture size as WxH, e.g. 1600x1200")
		serial       = fs.String("serial", "", "adb serial of the device under test")
		configPath   = fs.String("config", "", "JSON config file")
		debug        = fs.Bool("debug", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	req := snapcamverify.CaptureRequest{
		Filename:          *filename,
		Flash:             *flash,
		Autofocus:         *autofocus,
		ExposureTimeNanos: *exposureTime,
	}
	if *iso != "" {
		v, err := snapcamverify.ParseISO(*iso)
		if err != nil {
			fmt.Fprintf(stderr, "invalid --iso: %v\n", err)
			return 2
		}
		req.ISO = v
	}
	if *resolution != "" {
		v, err := snapcamverify.ParseResolution(*resolution)
		if err != nil {
			fmt.Fprintf(stderr, "invalid --resolution: %v\n", err)
			return 2
		}
		req.Resolution = v
	}

	cfg := &snapcamverify.Config{}
	if *configPath != "" {
		loaded, err := snapcamverify.LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
		cfg = loaded
	}
	if *serial != "" {
		cfg.Serial = *serial
	}

	logger := logging.NewBlankLogger("snapcam-verify")
	logger.AddAppender(logging.NewWriterAppender(stderr))
	logger.SetLevel(logging.INFO)
	if *debug {
		logger.SetLevel(logging.DEBUG)
	}

	settings := cfg.Settings()
	h := snapcamverify.NewHarness(settings, newShell(settings, logger), snapcamverify.NewExifReader(), clock.New(), logger)
	v := h.Run(context.Background(), req)
	if v.CaptureErr != nil {
		logger.Warnf("capture commands reported errors: %v", v.CaptureErr)
	}
	if !v.Passed {
		logger.Errorf("%s", v.Reason)
	}
	fmt.Fprintln(stdout, v.Status())
	return 0
}
