package snapcamverify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/rdk/logging"
)

const testPicture = "/storage/emulated/0/DCIM/Camera/test.jpg"

func newTestLocator(t *testing.T, shell DeviceShell, now time.Time) *RecentFileLocator {
	clk := clock.NewMock()
	clk.Set(now)
	return NewRecentFileLocator(shell, 2*time.Minute, clk, logging.NewTestLogger(t))
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)
	window := 2 * time.Minute

	if isFresh(now.Add(-window), now, window) {
		t.Error("file exactly at the boundary must not be fresh")
	}
	if !isFresh(now.Add(-window).Add(time.Millisecond), now, window) {
		t.Error("file one millisecond inside the window must be fresh")
	}
	if isFresh(now.Add(-time.Hour), now, window) {
		t.Error("old file must not be fresh")
	}
}

func TestRecentFileLocator_Locate(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 10, 0, time.Local)

	t.Run("finds a fresh picture", func(t *testing.T) {
		shell := newFakeDevice(listingLine(testPicture, now.Add(-10*time.Second)), nil)

		h, err := newTestLocator(t, shell, now).Locate(context.Background(), testPicture)
		if err != nil {
			t.Fatalf("Locate failed: %v", err)
		}
		if h.Path != testPicture {
			t.Errorf("Path = %q", h.Path)
		}
		if !h.SizeKnown || h.Size != 2481152 {
			t.Errorf("size = %d known=%v", h.Size, h.SizeKnown)
		}
		if want := time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local); !h.LastModified.Equal(want) {
			t.Errorf("LastModified = %v, want %v", h.LastModified, want)
		}
		if calls := shell.Calls(); len(calls) != 1 || calls[0] != "ls -l "+testPicture {
			t.Errorf("expected a single listing, got %v", calls)
		}
	})

	t.Run("listing failure", func(t *testing.T) {
		shell := &fakeShell{ExecuteFunc: func(ctx context.Context, args ...string) (CommandResult, error) {
			return CommandResult{ExitStatus: 1, Stderr: "ls: test.jpg: No such file or directory"}, nil
		}}

		_, err := newTestLocator(t, shell, now).Locate(context.Background(), testPicture)
		f := failureOf(t, err)
		if f.Kind != FailureTransport || !strings.HasPrefix(f.Reason, "Error accessing directory") {
			t.Errorf("got %v", f)
		}
		if len(shell.Calls()) != 1 {
			t.Errorf("expected no retry, got %v", shell.Calls())
		}
	})

	t.Run("shell error", func(t *testing.T) {
		shell := &fakeShell{ExecuteFunc: func(ctx context.Context, args ...string) (CommandResult, error) {
			return CommandResult{}, errors.New("exec: adb not found")
		}}
		_, err := newTestLocator(t, shell, now).Locate(context.Background(), testPicture)
		if f := failureOf(t, err); f.Kind != FailureTransport {
			t.Errorf("got %v", f)
		}
	})

	t.Run("unparsable timestamp", func(t *testing.T) {
		shell := newFakeDevice("-rw-rw---- 1 u0_a123 media_rw 2481152 Oct 18 12:00 "+testPicture+"\n", nil)
		_, err := newTestLocator(t, shell, now).Locate(context.Background(), testPicture)
		if f := failureOf(t, err); f.Kind != FailureTimestamp {
			t.Errorf("got %v", f)
		}
	})

	t.Run("stale picture", func(t *testing.T) {
		shell := newFakeDevice(listingLine(testPicture, now.Add(-10*time.Minute)), nil)
		_, err := newTestLocator(t, shell, now).Locate(context.Background(), testPicture)
		if f := failureOf(t, err); f.Kind != FailureNotFresh {
			t.Errorf("got %v", f)
		}
	})

	t.Run("picture on the window boundary", func(t *testing.T) {
		boundary := time.Date(2026, 10, 18, 12, 2, 0, 0, time.Local)
		shell := newFakeDevice(listingLine(testPicture, boundary.Add(-2*time.Minute)), nil)
		_, err := newTestLocator(t, shell, boundary).Locate(context.Background(), testPicture)
		if f := failureOf(t, err); f.Kind != FailureNotFresh {
			t.Errorf("got %v", f)
		}
	})

	t.Run("name with spaces", func(t *testing.T) {
		spaced := "/storage/emulated/0/DCIM/Camera/my pic.jpg"
		shell := newFakeDevice(listingLine(spaced, now.Add(-10*time.Second)), nil)

		h, err := newTestLocator(t, shell, now).Locate(context.Background(), spaced)
		if err != nil {
			t.Fatalf("Locate failed: %v", err)
		}
		if h.Path != spaced || !h.SizeKnown || h.Size != 2481152 {
			t.Errorf("got %+v", h)
		}
		if want := time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local); !h.LastModified.Equal(want) {
			t.Errorf("LastModified = %v, want %v", h.LastModified, want)
		}
	})

	t.Run("listing with base name only", func(t *testing.T) {
		line := "-rw-rw---- 1 u0_a123 media_rw 2481152 2026-10-18 12:00 test.jpg\n"
		h, err := newTestLocator(t, newFakeDevice(line, nil), now).Locate(context.Background(), testPicture)
		if err != nil {
			t.Fatalf("Locate failed: %v", err)
		}
		if h.Size != 2481152 {
			t.Errorf("Size = %d", h.Size)
		}
	})

	t.Run("suffix of another name is not a match", func(t *testing.T) {
		listing := listingLine("/storage/emulated/0/DCIM/Camera/my test.jpg", now)
		_, err := newTestLocator(t, newFakeDevice(listing, nil), now).Locate(context.Background(), "/storage/emulated/0/DCIM/Camera/test.jpg")
		if f := failureOf(t, err); f.Kind != FailureTransport || !strings.Contains(f.Reason, "not listed") {
			t.Errorf("expected a not-listed failure, got %v", f)
		}
	})

	t.Run("other files are ignored", func(t *testing.T) {
		listing := listingLine("/storage/emulated/0/DCIM/Camera/other.jpg", now)
		shell := newFakeDevice(listing, nil)
		_, err := newTestLocator(t, shell, now).Locate(context.Background(), testPicture)
		if err == nil {
			t.Error("expected failure when the picture is not listed")
		}
	})
}
