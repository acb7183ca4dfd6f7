package snapcamverify

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.viam.com/rdk/logging"
)

// Harness takes a picture on the device and verifies it.
type Harness struct {
	settings     Settings
	orchestrator *CaptureOrchestrator
	locator      *RecentFileLocator
	validator    *MetadataValidator
	logger       logging.Logger
}

func NewHarness(settings Settings, shell DeviceShell, reader ImageMetadataReader, clk clock.Clock, logger logging.Logger) *Harness {
	return &Harness{
		settings:     settings,
		orchestrator: NewCaptureOrchestrator(settings, NewAppLifecycleController(shell, logger), clk, logger),
		locator:      NewRecentFileLocator(shell, settings.FreshnessWindow, clk, logger),
		validator:    NewMetadataValidator(shell, reader, logger),
		logger:       logger,
	}
}

// Run always returns a verdict; device and metadata problems become failures.
func (h *Harness) Run(ctx context.Context, req CaptureRequest) Verdict {
	rep := h.orchestrator.Capture(ctx, req)
	v := Verdict{
		RunID:      uuid.NewString(),
		Filename:   rep.Request.Filename,
		CaptureErr: rep.Err,
	}

	remote := h.settings.PicturePath(rep.Request.Filename)
	handle, err := h.locator.Locate(ctx, remote)
	if err == nil {
		err = h.validator.Validate(ctx, handle, rep.Request)
	}
	if err != nil {
		v = v.withFailure(asFailure(err))
		h.logger.Warnf("run %s FAILED: %s", v.RunID, v.Reason)
		return v
	}

	v.Passed = true
	h.logger.Infof("run %s OK: %s", v.RunID, remote)
	return v
}

func asFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: FailureTransport, Reason: err.Error(), Err: err}
}
