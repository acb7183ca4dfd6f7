package snapcamverify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// fakeShell records every command and delegates to the Func fields when set.
type fakeShell struct {
	ExecuteFunc func(ctx context.Context, args ...string) (CommandResult, error)
	PullFunc    func(ctx context.Context, remotePath, localPath string) (CommandResult, error)

	mu    sync.Mutex
	calls []string
}

func (f *fakeShell) Execute(ctx context.Context, args ...string) (CommandResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, strings.Join(args, " "))
	f.mu.Unlock()
	if f.ExecuteFunc == nil {
		return CommandResult{}, nil
	}
	return f.ExecuteFunc(ctx, args...)
}

func (f *fakeShell) Pull(ctx context.Context, remotePath, localPath string) (CommandResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "pull "+remotePath)
	f.mu.Unlock()
	if f.PullFunc == nil {
		return CommandResult{ExitStatus: 1, Stderr: "no such file"}, nil
	}
	return f.PullFunc(ctx, remotePath, localPath)
}

func (f *fakeShell) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// newFakeDevice answers `am` commands with success, `ls -l` with listing and
// pulls with picture.
func newFakeDevice(listing string, picture []byte) *fakeShell {
	return &fakeShell{
		ExecuteFunc: func(ctx context.Context, args ...string) (CommandResult, error) {
			if len(args) > 0 && args[0] == "ls" {
				return CommandResult{Stdout: listing}, nil
			}
			return CommandResult{}, nil
		},
		PullFunc: func(ctx context.Context, remotePath, localPath string) (CommandResult, error) {
			if err := os.WriteFile(localPath, picture, 0o644); err != nil {
				return CommandResult{}, err
			}
			return CommandResult{Stdout: remotePath + ": 1 file pulled"}, nil
		},
	}
}

func listingLine(remotePath string, modified time.Time) string {
	return fmt.Sprintf("-rw-rw---- 1 u0_a123 media_rw 2481152 %s %s\n", modified.Format("2006-01-02 15:04"), remotePath)
}
