package snapcamverify

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
)

var CameraVerifier = resource.NewModel("viamdemo", "snapcam-verify", "camera-verifier")

func init() {
	resource.RegisterService(generic.API, CameraVerifier,
		resource.Registration[resource.Resource, *Config]{
			Constructor: newCameraVerifier,
		},
	)
}

type cameraVerifier struct {
	resource.AlwaysRebuild

	name    resource.Name
	logger  logging.Logger
	clock   clock.Clock
	harness *Harness

	// runMu serializes runs; mu guards the fields below it.
	runMu    sync.Mutex
	mu       sync.Mutex
	running  bool
	runCount int
	last     *Verdict
	lastAt   time.Time
}

func newCameraVerifier(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*Config](rawConf)
	if err != nil {
		return nil, err
	}
	shell := NewADBShell(conf.Settings(), logger)
	return NewVerifier(ctx, rawConf.ResourceName(), conf, shell, NewExifReader(), logger)
}

// NewVerifier builds the verifier service around an existing device shell.
func NewVerifier(ctx context.Context, name resource.Name, conf *Config, shell DeviceShell, reader ImageMetadataReader, logger logging.Logger) (resource.Resource, error) {
	v, err := newVerifier(name, conf, shell, reader, clock.New(), logger)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newVerifier(name resource.Name, conf *Config, shell DeviceShell, reader ImageMetadataReader, clk clock.Clock, logger logging.Logger) (*cameraVerifier, error) {
	if _, _, err := conf.Validate(name.String()); err != nil {
		return nil, err
	}
	settings := conf.Settings()
	logger.Infof("camera-verifier for %s, pictures in %s", settings.PackageName, settings.PictureDir)
	return &cameraVerifier{
		name:    name,
		logger:  logger,
		clock:   clk,
		harness: NewHarness(settings, shell, reader, clk, logger),
	}, nil
}

func (s *cameraVerifier) Name() resource.Name {
	return s.name
}

func (s *cameraVerifier) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	command, ok := cmd["command"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'command' field")
	}

	switch command {
	case "capture_and_verify":
		return s.handleCaptureAndVerify(ctx, cmd)
	case "status":
		return s.GetState(), nil
	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func (s *cameraVerifier) handleCaptureAndVerify(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	req, err := requestFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	v := s.harness.Run(ctx, req)

	s.mu.Lock()
	s.running = false
	s.runCount++
	s.last = &v
	s.lastAt = s.clock.Now()
	s.mu.Unlock()

	return verdictMap(v), nil
}

// GetState reports whether a run is in progress and the last verdict.
func (s *cameraVerifier) GetState() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := "idle"
	if s.running {
		state = "running"
	}
	out := map[string]interface{}{
		"state":     state,
		"run_count": s.runCount,
	}
	if s.last != nil {
		for k, v := range verdictMap(*s.last) {
			out["last_"+k] = v
		}
		out["last_run_at"] = s.lastAt.UTC().Format(time.RFC3339)
	}
	return out
}

// RunRecord is the verifier's most recent verdict. Seq is the run count at
// the time it was recorded and grows by one per run.
type RunRecord struct {
	Verdict Verdict
	Seq     int
	At      time.Time
}

// LastRun returns the most recent verdict, if any run has finished.
func (s *cameraVerifier) LastRun() (RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return RunRecord{}, false
	}
	return RunRecord{Verdict: *s.last, Seq: s.runCount, At: s.lastAt}, true
}

func verdictMap(v Verdict) map[string]interface{} {
	out := map[string]interface{}{
		"status":   v.Status(),
		"run_id":   v.RunID,
		"filename": v.Filename,
	}
	if v.Failure != nil {
		out["reason"] = v.Reason
		out["failure_kind"] = string(v.Failure.Kind)
	}
	if v.CaptureErr != nil {
		out["capture_error"] = v.CaptureErr.Error()
	}
	return out
}

func requestFromCommand(cmd map[string]interface{}) (CaptureRequest, error) {
	var req CaptureRequest

	if v, ok := cmd["filename"]; ok {
		s, ok := v.(string)
		if !ok {
			return req, fmt.Errorf("filename must be a string, got %T", v)
		}
		req.Filename = s
	}
	for key, dst := range map[string]*bool{"flash": &req.Flash, "autofocus": &req.Autofocus} {
		if v, ok := cmd[key]; ok {
			b, ok := v.(bool)
			if !ok {
				return req, fmt.Errorf("%s must be a bool, got %T", key, v)
			}
			*dst = b
		}
	}
	if v, ok := cmd["iso"]; ok {
		var raw string
		switch t := v.(type) {
		case string:
			raw = t
		case float64:
			if t != math.Trunc(t) {
				return req, fmt.Errorf("iso must be a whole number, got %v", t)
			}
			raw = fmt.Sprintf("%d", int(t))
		case int:
			raw = fmt.Sprintf("%d", t)
		default:
			return req, fmt.Errorf("iso must be a string or number, got %T", v)
		}
		iso, err := ParseISO(raw)
		if err != nil {
			return req, err
		}
		req.ISO = iso
	}
	if v, ok := cmd["exposure_time"]; ok {
		switch t := v.(type) {
		case float64:
			req.ExposureTimeNanos = int64(t)
		case int:
			req.ExposureTimeNanos = int64(t)
		default:
			return req, fmt.Errorf("exposure_time must be a number, got %T", v)
		}
	}
	if v, ok := cmd["resolution"]; ok {
		s, ok := v.(string)
		if !ok {
			return req, fmt.Errorf("resolution must be a string, got %T", v)
		}
		res, err := ParseResolution(s)
		if err != nil {
			return req, err
		}
		req.Resolution = res
	}
	return req, nil
}

func (s *cameraVerifier) Close(context.Context) error {
	return nil
}
