package snapcamverify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.viam.com/rdk/logging"
)

// MetadataValidator pulls a captured picture and checks its EXIF against the
// request that produced it.
type MetadataValidator struct {
	shell  DeviceShell
	reader ImageMetadataReader
	logger logging.Logger
}

func NewMetadataValidator(shell DeviceShell, reader ImageMetadataReader, logger logging.Logger) *MetadataValidator {
	return &MetadataValidator{shell: shell, reader: reader, logger: logger}
}

// Validate returns nil when the picture matches req, otherwise a *Failure.
// The local copy lives in a temp dir removed before returning.
func (v *MetadataValidator) Validate(ctx context.Context, handle RemoteFileHandle, req CaptureRequest) error {
	dir, err := os.MkdirTemp("", "snapcam-verify-")
	if err != nil {
		return failf(FailureTransport, err, "creating local temp dir: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			v.logger.Warnf("removing %s: %v", dir, err)
		}
	}()

	local := filepath.Join(dir, path.Base(handle.Path))
	res, err := v.shell.Pull(ctx, handle.Path, local)
	if err != nil {
		return failf(FailureTransport, err, "Error pulling %s: %v", handle.Path, err)
	}
	if res.ExitStatus != 0 {
		return failf(FailureTransport, nil, "Error pulling %s: %s", handle.Path, strings.TrimSpace(res.Stderr))
	}

	snap, err := v.reader.Decode(local)
	if err != nil {
		if errors.Is(err, ErrNoMetadata) {
			return failf(FailureNoMetadata, err, "no metadata")
		}
		return failf(FailureTransport, err, "reading local copy of %s: %v", handle.Path, err)
	}
	v.logger.Debugf("exif for %s: %v", handle.Path, snap.Fields)

	if req.ExposureTimeNanos > 0 {
		v.logger.Debugf("exposure time %dns requested; not verified", req.ExposureTimeNanos)
	}
	return CheckSnapshot(snap, req)
}

// CheckSnapshot runs the flash, ISO and resolution checks in that order and
// returns the first failure.
func CheckSnapshot(snap ExifSnapshot, req CaptureRequest) error {
	if err := checkFlash(snap, req.Flash); err != nil {
		return err
	}
	if err := checkISO(snap, req.ISO); err != nil {
		return err
	}
	return checkResolution(snap, req.Resolution)
}

func checkFlash(snap ExifSnapshot, wantFlash bool) error {
	if snap.FlashCode == nil {
		return failf(FailureMismatch, nil, "Flash tag missing from metadata")
	}
	code := *snap.FlashCode
	class := ClassifyFlash(code)
	if wantFlash && class != FlashFired {
		return failf(FailureMismatch, nil, "Flash wrongly not enabled: flash code %#x (%s)", code, class)
	}
	if !wantFlash && class != FlashNotFired {
		return failf(FailureMismatch, nil, "Flash wrongly enabled: flash code %#x (%s)", code, class)
	}
	return nil
}

// checkISO skips ISOAuto: there is no numeric value to compare against.
func checkISO(snap ExifSnapshot, iso ISO) error {
	want, ok := iso.Numeric()
	if !ok {
		return nil
	}
	if snap.ISOSpeed == nil {
		return failf(FailureMismatch, nil, "ISO mismatch: requested %d, ISOSpeedRatings missing", want)
	}
	if *snap.ISOSpeed != want {
		return failf(FailureMismatch, nil, "ISO mismatch: requested %d, got %d", want, *snap.ISOSpeed)
	}
	return nil
}

func checkResolution(snap ExifSnapshot, res Resolution) error {
	if res == "" {
		return nil
	}
	if snap.ImageWidth == nil || snap.ImageHeight == nil {
		return failf(FailureMismatch, nil, "Resolution mismatch: requested %s, image size missing", res)
	}
	got := fmt.Sprintf("%dx%d", *snap.ImageWidth, *snap.ImageHeight)
	if got != string(res) {
		return failf(FailureMismatch, nil, "Resolution mismatch: requested %s, got %s", res, got)
	}
	return nil
}
