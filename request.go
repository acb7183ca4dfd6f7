package snapcamverify

import (
	"fmt"
	"strconv"
	"time"
)

// ISO is a requested sensor sensitivity. The empty value means "not requested".
type ISO string

const (
	ISOAuto ISO = "auto"
	ISO100  ISO = "100"
	ISO200  ISO = "200"
	ISO400  ISO = "400"
	ISO800  ISO = "800"
	ISO1600 ISO = "1600"
	ISO3200 ISO = "3200"
)

var isoValues = []ISO{ISOAuto, ISO100, ISO200, ISO400, ISO800, ISO1600, ISO3200}

func ParseISO(s string) (ISO, error) {
	for _, v := range isoValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid iso %q: must be one of %v", s, isoValues)
}

// Numeric returns the ISO speed and false for ISOAuto or an unset value.
func (i ISO) Numeric() (int, bool) {
	if i == "" || i == ISOAuto {
		return 0, false
	}
	n, err := strconv.Atoi(string(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Resolution is a "WxH" picture size supported by the capture intent.
type Resolution string

var resolutionValues = []Resolution{
	"4160x3120",
	"4000x3000",
	"3264x2448",
	"2592x1944",
	"2048x1536",
	"1920x1080",
	"1600x1200",
	"1280x960",
	"1280x720",
	"640x480",
}

func ParseResolution(s string) (Resolution, error) {
	for _, v := range resolutionValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid resolution %q: must be one of %v", s, resolutionValues)
}

// CaptureRequest describes one picture to take. Zero values mean "device default".
type CaptureRequest struct {
	Filename  string // without extension
	Flash     bool
	Autofocus bool
	ISO       ISO
	// ExposureTimeNanos is forwarded to the intent but never verified: the
	// camera app ignores it and the EXIF exposure readback is unreliable.
	ExposureTimeNanos int64
	Resolution        Resolution
}

const filenameLayout = "20060102_150405"

// SynthesizeFilename names a picture after now. Two calls within the same
// second collide.
func SynthesizeFilename(now time.Time) string {
	return now.Format(filenameLayout)
}

// WithFilename returns a copy of r whose Filename is set, synthesizing one from
// now when r has none.
func (r CaptureRequest) WithFilename(now time.Time) CaptureRequest {
	if r.Filename == "" {
		r.Filename = SynthesizeFilename(now)
	}
	return r
}
