package snapcamverify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
)

var VerdictSensor = resource.NewModel("viamdemo", "snapcam-verify", "verdict-sensor")

func init() {
	resource.RegisterComponent(sensor.API, VerdictSensor,
		resource.Registration[sensor.Sensor, *VerdictSensorConfig]{
			Constructor: newVerdictSensor,
		},
	)
}

type VerdictSensorConfig struct {
	Verifier string `json:"verifier"`
}

func (cfg *VerdictSensorConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Verifier == "" {
		return nil, nil, fmt.Errorf("%s: verifier is required", path)
	}
	// full resource name so the verifier resolves as a generic service
	dep := resource.NewName(resource.APINamespaceRDK.WithServiceType("generic"), cfg.Verifier)
	return []string{dep.String()}, nil, nil
}

// verdictSource is what the sensor needs from the verifier service.
type verdictSource interface {
	LastRun() (RunRecord, bool)
}

type verdictSensor struct {
	resource.AlwaysRebuild

	name     resource.Name
	logger   logging.Logger
	verifier verdictSource

	mu     sync.Mutex
	synced int // Seq of the last verdict reported with should_sync
}

func newVerdictSensor(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (sensor.Sensor, error) {
	conf, err := resource.NativeConfig[*VerdictSensorConfig](rawConf)
	if err != nil {
		return nil, err
	}

	verifierName := resource.NewName(resource.APINamespaceRDK.WithServiceType("generic"), conf.Verifier)
	v, ok := deps[verifierName]
	if !ok {
		return nil, fmt.Errorf("verifier %q not found in dependencies", conf.Verifier)
	}

	source, ok := v.(verdictSource)
	if !ok {
		return nil, fmt.Errorf("verifier %q does not report verdicts", conf.Verifier)
	}

	return &verdictSensor{
		name:     rawConf.ResourceName(),
		logger:   logger,
		verifier: source,
	}, nil
}

func (s *verdictSensor) Name() resource.Name {
	return s.name
}

// Readings flattens the last verdict into typed fields. should_sync is true
// on the first reading after each new verdict so data capture stores every
// run exactly once.
func (s *verdictSensor) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	rec, ok := s.verifier.LastRun()
	if !ok {
		return map[string]interface{}{
			"run_count":   0,
			"should_sync": false,
		}, nil
	}

	s.mu.Lock()
	shouldSync := rec.Seq != s.synced
	s.synced = rec.Seq
	s.mu.Unlock()

	v := rec.Verdict
	failureKind := ""
	if v.Failure != nil {
		failureKind = string(v.Failure.Kind)
	}
	captureErr := ""
	if v.CaptureErr != nil {
		captureErr = v.CaptureErr.Error()
	}

	return map[string]interface{}{
		"run_count":     rec.Seq,
		"run_id":        v.RunID,
		"run_at":        rec.At.UTC().Format(time.RFC3339),
		"filename":      v.Filename,
		"passed":        v.Passed,
		"status":        v.Status(),
		"failure_kind":  failureKind,
		"reason":        v.Reason,
		"capture_error": captureErr,
		"should_sync":   shouldSync,
	}, nil
}

func (s *verdictSensor) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return nil, fmt.Errorf("DoCommand not supported on verdict-sensor")
}

func (s *verdictSensor) Close(context.Context) error {
	return nil
}
