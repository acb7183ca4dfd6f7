package snapcamverify

import (
	"errors"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrNoMetadata is returned when an image carries no EXIF block.
var ErrNoMetadata = errors.New("no metadata")

// ExifSnapshot holds the EXIF fields the validator checks. Nil means the tag
// was absent. Fields carries every decoded tag as text.
type ExifSnapshot struct {
	FlashCode   *int
	ISOSpeed    *int
	ImageWidth  *int
	ImageHeight *int
	Fields      map[string]string
}

// ImageMetadataReader decodes EXIF from a local image file.
type ImageMetadataReader interface {
	Decode(localPath string) (ExifSnapshot, error)
}

type goexifReader struct{}

// NewExifReader returns an ImageMetadataReader built on goexif.
func NewExifReader() ImageMetadataReader {
	return goexifReader{}
}

func (goexifReader) Decode(localPath string) (ExifSnapshot, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return ExifSnapshot{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return ExifSnapshot{}, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	snap := ExifSnapshot{
		FlashCode: intTag(x, exif.Flash),
		ISOSpeed:  intTag(x, exif.ISOSpeedRatings),
		Fields:    map[string]string{},
	}
	snap.ImageWidth = intTag(x, exif.PixelXDimension)
	if snap.ImageWidth == nil {
		snap.ImageWidth = intTag(x, exif.ImageWidth)
	}
	snap.ImageHeight = intTag(x, exif.PixelYDimension)
	if snap.ImageHeight == nil {
		snap.ImageHeight = intTag(x, exif.ImageLength)
	}

	if err := x.Walk(fieldCollector(snap.Fields)); err != nil {
		return ExifSnapshot{}, fmt.Errorf("walking exif tags: %w", err)
	}
	return snap, nil
}

func intTag(x *exif.Exif, name exif.FieldName) *int {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &v
}

type fieldCollector map[string]string

func (c fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c[string(name)] = tag.String()
	return nil
}
