package snapcamverify

import "fmt"

type FailureKind string

const (
	FailureTransport  FailureKind = "transport"
	FailureTimestamp  FailureKind = "timestamp"
	FailureNotFresh   FailureKind = "not_fresh"
	FailureNoMetadata FailureKind = "no_metadata"
	FailureMismatch   FailureKind = "mismatch"
)

// Failure explains why a run did not pass.
type Failure struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

func failf(kind FailureKind, err error, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Reason: fmt.Sprintf(format, args...), Err: err}
}

// Verdict is the terminal value of a run.
type Verdict struct {
	RunID    string
	Filename string
	Passed   bool
	Reason   string
	Failure  *Failure
	// CaptureErr holds command failures from the capture sequence. They do
	// not decide the verdict but are reported alongside it.
	CaptureErr error
}

func (v Verdict) Status() string {
	if v.Passed {
		return "OK"
	}
	return "FAILED"
}

func (v Verdict) withFailure(f *Failure) Verdict {
	v.Passed = false
	v.Failure = f
	v.Reason = f.Reason
	return v
}
