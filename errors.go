package barni

import "errors"

// Sentinel error kinds raised by the core. Stages return them wrapped in a
// PipelineError naming the stage; callers compare with errors.Is.
var (
	ErrShapeMismatch = errors.New("barni: shape mismatch")
	ErrDomain        = errors.New("barni: domain error")
	ErrNumerical     = errors.New("barni: numerical error")
	ErrEmptyPeakSet  = errors.New("barni: empty peak set")
)

// PipelineError identifies which component raised one of the sentinel
// conditions above, without changing how callers match it with errors.Is.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// WrapErr attaches a stage name to one of the sentinel errors above while
// leaving errors.Is(err, ErrX) working for callers.
func WrapErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{Stage: stage, Err: err}
}
