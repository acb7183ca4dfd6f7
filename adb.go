package snapcamverify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.viam.com/rdk/logging"
)

// adbShell drives a device through the adb command-line tool.
type adbShell struct {
	adbPath string
	serial  string
	logger  logging.Logger
}

// NewADBShell returns a DeviceShell backed by the adb binary in settings.
func NewADBShell(settings Settings, logger logging.Logger) DeviceShell {
	return &adbShell{
		adbPath: settings.ADBPath,
		serial:  settings.Serial,
		logger:  logger,
	}
}

func (a *adbShell) baseArgs() []string {
	if a.serial == "" {
		return nil
	}
	return []string{"-s", a.serial}
}

// Execute runs args through `adb shell`. adb joins its arguments into one
// remote shell line, so each one is quoted here.
func (a *adbShell) Execute(ctx context.Context, args ...string) (CommandResult, error) {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	full := append(a.baseArgs(), "shell", strings.Join(quoted, " "))
	return a.run(ctx, full)
}

func (a *adbShell) Pull(ctx context.Context, remotePath, localPath string) (CommandResult, error) {
	full := append(a.baseArgs(), "pull", remotePath, localPath)
	return a.run(ctx, full)
}

func (a *adbShell) run(ctx context.Context, args []string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, a.adbPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	a.logger.Debugf("running %s %s", a.adbPath, strings.Join(args, " "))
	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitStatus = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("running %s: %w", a.adbPath, err)
	}
	return res, nil
}

// shellQuote wraps s in single quotes unless it is made only of characters
// the device shell passes through unchanged.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,+@%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
