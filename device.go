package snapcamverify

import (
	"context"
	"strings"
)

// CommandResult is what a device command left behind.
type CommandResult struct {
	Stdout     string
	Stderr     string
	ExitStatus int
}

// Failed reports a non-zero exit or anything written to stderr.
func (r CommandResult) Failed() bool {
	return r.ExitStatus != 0 || strings.TrimSpace(r.Stderr) != ""
}

// DeviceShell runs commands on, and copies files from, the device under test.
// An error means the command could not be run at all; a command that ran and
// failed is reported through CommandResult.
type DeviceShell interface {
	Execute(ctx context.Context, args ...string) (CommandResult, error)
	Pull(ctx context.Context, remotePath, localPath string) (CommandResult, error)
}
