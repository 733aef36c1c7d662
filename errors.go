package mdl

// An AcquireError reports the failure of a resource creating native call
// (window, renderer, texture, surface or audio device creation). Op is the
// name of the native operation that failed and Err carries the toolkit's own
// diagnostic.
//
type AcquireError struct {
	Op  string
	Err error
}

func (e *AcquireError) Error() string {
	return "mdl: " + e.Op + ": " + e.Err.Error()
}

func (e *AcquireError) Unwrap() error { return e.Err }

// An OpError reports the failure of an operation forwarded to a live
// resource (draw, copy, update, lock, property setters).
//
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return "mdl: " + e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func acquireErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AcquireError{Op: op, Err: err}
}

func opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
