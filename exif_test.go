package snapcamverify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"snapcamverify/testutils"
)

func writeTemp(t *testing.T, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

func TestExifReader_Decode(t *testing.T) {
	t.Run("reads camera tags", func(t *testing.T) {
		p := writeTemp(t, "pic.jpg", testutils.JPEGWithExif(testutils.CameraTags(0x19, 800, 4000, 3000)))

		snap, err := NewExifReader().Decode(p)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if snap.FlashCode == nil || *snap.FlashCode != 0x19 {
			t.Errorf("FlashCode = %v", snap.FlashCode)
		}
		if snap.ISOSpeed == nil || *snap.ISOSpeed != 800 {
			t.Errorf("ISOSpeed = %v", snap.ISOSpeed)
		}
		if snap.ImageWidth == nil || *snap.ImageWidth != 4000 || snap.ImageHeight == nil || *snap.ImageHeight != 3000 {
			t.Errorf("size = %v x %v", snap.ImageWidth, snap.ImageHeight)
		}
		if _, ok := snap.Fields["Flash"]; !ok {
			t.Errorf("Fields missing Flash: %v", snap.Fields)
		}
	})

	t.Run("absent tags stay nil", func(t *testing.T) {
		p := writeTemp(t, "flash-only.jpg", testutils.JPEGWithExif([]testutils.ExifTag{{ID: testutils.TagFlash, Value: 0}}))

		snap, err := NewExifReader().Decode(p)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if snap.FlashCode == nil || *snap.FlashCode != 0 {
			t.Errorf("FlashCode = %v", snap.FlashCode)
		}
		if snap.ISOSpeed != nil || snap.ImageWidth != nil || snap.ImageHeight != nil {
			t.Errorf("expected nil iso and size, got %+v", snap)
		}
	})

	t.Run("jpeg without exif", func(t *testing.T) {
		p := writeTemp(t, "plain.jpg", testutils.PlainJPEG(8, 8))
		if _, err := NewExifReader().Decode(p); !errors.Is(err, ErrNoMetadata) {
			t.Errorf("expected ErrNoMetadata, got %v", err)
		}
	})

	t.Run("missing file is not no-metadata", func(t *testing.T) {
		_, err := NewExifReader().Decode(filepath.Join(t.TempDir(), "nope.jpg"))
		if err == nil || errors.Is(err, ErrNoMetadata) {
			t.Errorf("expected open error, got %v", err)
		}
	})
}
