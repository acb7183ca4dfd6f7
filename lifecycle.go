package snapcamverify

import (
	"context"
	"fmt"
	"strings"

	"go.viam.com/rdk/logging"
)

// AppLifecycleController stops and starts the camera app on the device.
type AppLifecycleController struct {
	shell  DeviceShell
	logger logging.Logger
}

func NewAppLifecycleController(shell DeviceShell, logger logging.Logger) *AppLifecycleController {
	return &AppLifecycleController{shell: shell, logger: logger}
}

// Stop force-stops packageName.
func (c *AppLifecycleController) Stop(ctx context.Context, packageName string) error {
	return c.exec(ctx, "force-stop "+packageName, "am", "force-stop", packageName)
}

// Launch starts the activity matching intent.
func (c *AppLifecycleController) Launch(ctx context.Context, intent Intent) error {
	return c.exec(ctx, "start "+intent.Action, intent.Args()...)
}

func (c *AppLifecycleController) exec(ctx context.Context, what string, args ...string) error {
	res, err := c.shell.Execute(ctx, args...)
	if err != nil {
		c.logger.Errorf("%s: %v", what, err)
		return fmt.Errorf("%s: %w", what, err)
	}
	if res.Failed() {
		c.logger.Warnf("%s exited %d: %s", what, res.ExitStatus, strings.TrimSpace(res.Stderr))
		return fmt.Errorf("%s: exit status %d: %s", what, res.ExitStatus, strings.TrimSpace(res.Stderr))
	}
	c.logger.Debugf("%s ok", what)
	return nil
}
