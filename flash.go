package snapcamverify

// FlashClass is the coarse outcome an EXIF flash code maps to.
type FlashClass int

const (
	FlashUndefined FlashClass = iota
	FlashFired
	FlashNotFired
)

func (c FlashClass) String() string {
	switch c {
	case FlashFired:
		return "fired"
	case FlashNotFired:
		return "not_fired"
	default:
		return "undefined"
	}
}

// flashClasses covers the EXIF 2.3 flash enumeration. 0x08 (on, did not
// fire) and 0x50 (off, red-eye reduction) have no class yet: whether they
// count as fired or not fired is unresolved, so for now either one fails both
// flash requests. Classify them here once that is settled.
var flashClasses = map[int]FlashClass{
	0x00: FlashNotFired, // no flash
	0x01: FlashFired,    // fired
	0x05: FlashFired,    // fired, return not detected
	0x07: FlashFired,    // fired, return detected
	0x08: FlashUndefined,
	0x09: FlashFired,    // on, fired
	0x0d: FlashFired,    // on, return not detected
	0x0f: FlashFired,    // on, return detected
	0x10: FlashNotFired, // off, did not fire
	0x14: FlashNotFired, // off, did not fire, return not detected
	0x18: FlashNotFired, // auto, did not fire
	0x19: FlashFired,    // auto, fired
	0x1d: FlashFired,
	0x1f: FlashFired,
	0x20: FlashNotFired, // no flash function
	0x30: FlashNotFired, // off, no flash function
	0x41: FlashFired,    // fired, red-eye reduction
	0x45: FlashFired,
	0x47: FlashFired,
	0x49: FlashFired, // on, red-eye reduction
	0x4d: FlashFired,
	0x4f: FlashFired,
	0x50: FlashUndefined,
	0x58: FlashNotFired, // auto, did not fire, red-eye reduction
	0x59: FlashFired,    // auto, fired, red-eye reduction
	0x5d: FlashFired,
	0x5f: FlashFired,
}

// ClassifyFlash maps an EXIF flash code. Unknown codes are FlashUndefined.
func ClassifyFlash(code int) FlashClass {
	return flashClasses[code]
}
