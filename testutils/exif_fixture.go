// Package testutils builds image fixtures for tests.
package testutils

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
)

// EXIF tag IDs used by the fixtures.
const (
	TagFlash           uint16 = 0x9209
	TagISOSpeedRatings uint16 = 0x8827
	TagPixelXDimension uint16 = 0xa002
	TagPixelYDimension uint16 = 0xa003
	TagOrientation     uint16 = 0x0112

	tagExifIFDPointer uint16 = 0x8769
	typeShort         uint16 = 3
	typeLong          uint16 = 4
)

// ExifTag is one entry of the Exif sub-IFD. Values must fit in four bytes.
type ExifTag struct {
	ID    uint16
	Long  bool // LONG instead of SHORT
	Value uint32
}

// CameraTags returns the sub-IFD entries a Snapdragon capture carries.
func CameraTags(flash, iso, width, height int) []ExifTag {
	return []ExifTag{
		{ID: TagFlash, Value: uint32(flash)},
		{ID: TagISOSpeedRatings, Value: uint32(iso)},
		{ID: TagPixelXDimension, Long: true, Value: uint32(width)},
		{ID: TagPixelYDimension, Long: true, Value: uint32(height)},
	}
}

// JPEGWithExif returns a JPEG stream whose APP1 segment holds a little-endian
// TIFF with IFD0 pointing at an Exif sub-IFD made of tags. There is no image
// data after the APP1 segment; EXIF readers do not need it.
func JPEGWithExif(tags []ExifTag) []byte {
	var out bytes.Buffer
	out.Write([]byte{0xff, 0xd8})
	out.Write(exifSegments(nil, tags))
	out.Write([]byte{0xff, 0xd9})
	return out.Bytes()
}

// InsertExif adds the APP1 segment for tags right after the SOI marker of an
// encoded JPEG, keeping it decodable.
func InsertExif(jpegData []byte, tags []ExifTag) []byte {
	return insert(jpegData, nil, tags)
}

// InsertRotatedExif is InsertExif with an IFD0 Orientation tag, 6 meaning
// the stored pixels must be turned 90° clockwise for display.
func InsertRotatedExif(jpegData []byte, orientation int, tags []ExifTag) []byte {
	return insert(jpegData, []ExifTag{{ID: TagOrientation, Value: uint32(orientation)}}, tags)
}

func insert(jpegData []byte, ifd0, tags []ExifTag) []byte {
	var out bytes.Buffer
	out.Write(jpegData[:2])
	out.Write(exifSegments(ifd0, tags))
	out.Write(jpegData[2:])
	return out.Bytes()
}

// exifSegments lays out IFD0 followed by the Exif sub-IFD. ifd0 entries are
// written before the Exif pointer, so their IDs must sort below 0x8769.
func exifSegments(ifd0, tags []ExifTag) []byte {
	le := binary.LittleEndian

	var tiff bytes.Buffer
	tiff.WriteString("II")
	binary.Write(&tiff, le, uint16(42))
	binary.Write(&tiff, le, uint32(8))

	ifd0Size := 2 + 12*(len(ifd0)+1) + 4
	subIFDOffset := uint32(8 + ifd0Size)
	binary.Write(&tiff, le, uint16(len(ifd0)+1))
	for _, t := range ifd0 {
		writeEntry(&tiff, t.ID, t.typ(), t.Value)
	}
	writeEntry(&tiff, tagExifIFDPointer, typeLong, subIFDOffset)
	binary.Write(&tiff, le, uint32(0))

	binary.Write(&tiff, le, uint16(len(tags)))
	for _, t := range tags {
		writeEntry(&tiff, t.ID, t.typ(), t.Value)
	}
	binary.Write(&tiff, le, uint32(0))

	app1 := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var out bytes.Buffer
	// APP0 JFIF header
	out.Write([]byte{0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00})
	out.Write([]byte{0xff, 0xe1})
	binary.Write(&out, binary.BigEndian, uint16(len(app1)+2))
	out.Write(app1)
	return out.Bytes()
}

func (t ExifTag) typ() uint16 {
	if t.Long {
		return typeLong
	}
	return typeShort
}

func writeEntry(buf *bytes.Buffer, id, typ uint16, value uint32) {
	le := binary.LittleEndian
	binary.Write(buf, le, id)
	binary.Write(buf, le, typ)
	binary.Write(buf, le, uint32(1))
	if typ == typeShort {
		binary.Write(buf, le, uint16(value))
		binary.Write(buf, le, uint16(0))
		return
	}
	binary.Write(buf, le, value)
}

// PlainJPEG encodes a small gray image with no EXIF segment.
func PlainJPEG(w, h int) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
