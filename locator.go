package snapcamverify

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/rdk/logging"
)

// listingTimeLayout is the toybox `ls -l` timestamp format.
const listingTimeLayout = "2006-01-02 15:04"

// RemoteFileHandle points at a picture on the device.
type RemoteFileHandle struct {
	Path         string
	LastModified time.Time
	Size         int64
	SizeKnown    bool
}

// RecentFileLocator checks that a picture exists and was written recently.
// It lists the file exactly once and never retries.
type RecentFileLocator struct {
	shell  DeviceShell
	window time.Duration
	clock  clock.Clock
	logger logging.Logger
}

func NewRecentFileLocator(shell DeviceShell, window time.Duration, clk clock.Clock, logger logging.Logger) *RecentFileLocator {
	return &RecentFileLocator{shell: shell, window: window, clock: clk, logger: logger}
}

// Locate returns a *Failure as the error when the file is missing, stale or
// its listing cannot be parsed.
func (l *RecentFileLocator) Locate(ctx context.Context, remotePath string) (RemoteFileHandle, error) {
	res, err := l.shell.Execute(ctx, "ls", "-l", remotePath)
	if err != nil {
		l.logger.Errorf("Error accessing directory: %v", err)
		return RemoteFileHandle{}, failf(FailureTransport, err, "Error accessing directory: %v", err)
	}
	if res.Failed() {
		stderr := strings.TrimSpace(res.Stderr)
		l.logger.Errorf("Error accessing directory: %s (exit %d)", stderr, res.ExitStatus)
		return RemoteFileHandle{}, failf(FailureTransport, nil, "Error accessing directory: %s", stderr)
	}

	now := l.clock.Now()
	handle, err := parseListing(res.Stdout, remotePath, now.Location())
	if err != nil {
		l.logger.Errorf("%v", err)
		return RemoteFileHandle{}, err
	}

	if !isFresh(handle.LastModified, now, l.window) {
		return RemoteFileHandle{}, failf(FailureNotFresh, nil,
			"no recent picture: %s modified %s, older than %v",
			remotePath, handle.LastModified.Format(listingTimeLayout), l.window)
	}
	l.logger.Infof("found %s modified %s", remotePath, handle.LastModified.Format(listingTimeLayout))
	return handle, nil
}

// isFresh is true when modified is strictly after now-window.
func isFresh(modified, now time.Time, window time.Duration) bool {
	return now.Add(-window).Before(modified)
}

// parseListing finds the entry for remotePath in `ls -l` output. Names may
// contain spaces, so the line is matched on its suffix and only the prefix is
// split into fields; the last two of those are the modification time.
func parseListing(stdout, remotePath string, loc *time.Location) (RemoteFileHandle, error) {
	for _, line := range strings.Split(stdout, "\n") {
		prefix, ok := listingPrefix(strings.TrimRight(line, " \r"), remotePath)
		if !ok {
			continue
		}
		parts := strings.Fields(prefix)
		if len(parts) < 2 {
			return RemoteFileHandle{}, failf(FailureTimestamp, nil, "Error parsing timestamp: %q", line)
		}
		ts := strings.Join(parts[len(parts)-2:], " ")
		modified, err := time.ParseInLocation(listingTimeLayout, ts, loc)
		if err != nil {
			return RemoteFileHandle{}, failf(FailureTimestamp, err, "Error parsing timestamp: %q", ts)
		}

		h := RemoteFileHandle{Path: remotePath, LastModified: modified}
		if len(parts) >= 3 {
			if size, err := strconv.ParseInt(parts[len(parts)-3], 10, 64); err == nil {
				h.Size = size
				h.SizeKnown = true
			}
		}
		return h, nil
	}
	return RemoteFileHandle{}, failf(FailureTransport, nil, "Error accessing directory: %s not listed", remotePath)
}

// listingPrefix strips the file name from a listing line. ls prints either the
// path as given or, without any directory part, just its base name.
func listingPrefix(line, remotePath string) (string, bool) {
	if strings.HasSuffix(line, " "+remotePath) {
		return strings.TrimSuffix(line, remotePath), true
	}
	if base := path.Base(remotePath); !strings.Contains(line, "/") && strings.HasSuffix(line, " "+base) {
		return strings.TrimSuffix(line, base), true
	}
	return "", false
}
