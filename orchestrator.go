package snapcamverify

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.viam.com/rdk/logging"
)

type CaptureState int

const (
	StateIdle CaptureState = iota
	StateAppStopped
	StateIntentSent
	StateWaiting
	StateAppStoppedAgain
	StateDone
)

func (s CaptureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAppStopped:
		return "app_stopped"
	case StateIntentSent:
		return "intent_sent"
	case StateWaiting:
		return "waiting"
	case StateAppStoppedAgain:
		return "app_stopped_again"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// CaptureReport is the outcome of one capture sequence.
type CaptureReport struct {
	Request CaptureRequest // Filename always set
	Intent  Intent
	States  []CaptureState
	// Err collects every failed step. The sequence does not stop on failure.
	Err error
}

// CaptureOrchestrator runs stop -> launch intent -> settle -> stop.
type CaptureOrchestrator struct {
	settings  Settings
	lifecycle *AppLifecycleController
	clock     clock.Clock
	logger    logging.Logger
}

func NewCaptureOrchestrator(settings Settings, lifecycle *AppLifecycleController, clk clock.Clock, logger logging.Logger) *CaptureOrchestrator {
	return &CaptureOrchestrator{
		settings:  settings,
		lifecycle: lifecycle,
		clock:     clk,
		logger:    logger,
	}
}

// Capture walks every state unconditionally. Step errors end up in the
// report, never as a branch.
func (o *CaptureOrchestrator) Capture(ctx context.Context, req CaptureRequest) CaptureReport {
	req = req.WithFilename(o.clock.Now())
	rep := CaptureReport{
		Request: req,
		Intent:  BuildCaptureIntent(o.settings.CaptureAction, req, o.clock.Now()),
		States:  []CaptureState{StateIdle},
	}

	rep.Err = multierr.Append(rep.Err, o.lifecycle.Stop(ctx, o.settings.PackageName))
	rep.States = append(rep.States, StateAppStopped)

	rep.Err = multierr.Append(rep.Err, o.lifecycle.Launch(ctx, rep.Intent))
	rep.States = append(rep.States, StateIntentSent)

	o.logger.Infof("waiting %v for %s.jpg", o.settings.SettleDelay, req.Filename)
	rep.States = append(rep.States, StateWaiting)
	if o.settings.SettleDelay > 0 {
		o.clock.Sleep(o.settings.SettleDelay)
	}

	// stop again so the camera is released
	rep.Err = multierr.Append(rep.Err, o.lifecycle.Stop(ctx, o.settings.PackageName))
	rep.States = append(rep.States, StateAppStoppedAgain)

	rep.States = append(rep.States, StateDone)
	if rep.Err != nil {
		o.logger.Warnf("capture sequence finished with %d command error(s): %v", len(multierr.Errors(rep.Err)), rep.Err)
	}
	return rep
}
