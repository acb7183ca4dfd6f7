package snapcamverify

import (
	"strconv"
	"time"
)

type extraType string

const (
	extraString extraType = "--es"
	extraLong   extraType = "--el"
)

// Extra is one key/value attached to an intent.
type Extra struct {
	Type  extraType
	Key   string
	Value string
}

// Intent is a structured `am start` invocation. It is never flattened into a
// single shell string on this side.
type Intent struct {
	Action string
	Extras []Extra
}

// Args returns the device-side argument vector, e.g.
// ["am", "start", "-a", action, "--es", "filename", "x"].
func (in Intent) Args() []string {
	args := []string{"am", "start", "-a", in.Action}
	for _, e := range in.Extras {
		args = append(args, string(e.Type), e.Key, e.Value)
	}
	return args
}

// Extra looks up an extra by key.
func (in Intent) Extra(key string) (string, bool) {
	for _, e := range in.Extras {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// BuildCaptureIntent maps a request onto the camera app's take-picture intent.
// Flash and autofocus are presence flags: false leaves the extra out so the
// device default applies.
func BuildCaptureIntent(action string, req CaptureRequest, now time.Time) Intent {
	req = req.WithFilename(now)

	in := Intent{Action: action}
	in.Extras = append(in.Extras, Extra{Type: extraString, Key: "filename", Value: req.Filename})
	if req.Flash {
		in.Extras = append(in.Extras, Extra{Type: extraString, Key: "flash_mode", Value: "on"})
	}
	if req.Autofocus {
		in.Extras = append(in.Extras, Extra{Type: extraString, Key: "autofocus", Value: "on"})
	}
	if req.ISO != "" {
		in.Extras = append(in.Extras, Extra{Type: extraString, Key: "iso", Value: string(req.ISO)})
	}
	if req.ExposureTimeNanos > 0 {
		in.Extras = append(in.Extras, Extra{Type: extraLong, Key: "exposure", Value: strconv.FormatInt(req.ExposureTimeNanos, 10)})
	}
	if req.Resolution != "" {
		in.Extras = append(in.Extras, Extra{Type: extraString, Key: "resolution", Value: string(req.Resolution)})
	}
	return in
}
