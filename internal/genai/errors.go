package genai

import "errors"

// pipelineCreateError signals that a native pipeline could not be
// constructed (bad model artifact, unknown/unavailable device). Fatal to
// that handle; no partial handle is returned.
type pipelineCreateError struct {
	modelPath string
	device    string
	err       error
}

func (e pipelineCreateError) Error() string {
	return "create pipeline " + e.modelPath + " on " + e.device + ": " + e.err.Error()
}

func (e pipelineCreateError) Unwrap() error { return e.err }

// ErrPipelineCreate constructs a pipelineCreateError.
func ErrPipelineCreate(modelPath, device string, err error) error {
	return pipelineCreateError{modelPath: modelPath, device: device, err: err}
}

// IsPipelineCreate reports whether err indicates a failed pipeline construction.
func IsPipelineCreate(err error) bool {
	var e pipelineCreateError
	return errors.As(err, &e)
}

// generationError signals an engine-level failure during a generate call
// (invalid config value rejected by the engine, device fault). The handles
// involved remain valid and reusable unless the engine declared otherwise.
type generationError struct{ err error }

func (e generationError) Error() string { return "generate: " + e.err.Error() }

func (e generationError) Unwrap() error { return e.err }

// ErrGeneration constructs a generationError.
func ErrGeneration(err error) error { return generationError{err: err} }

// IsGeneration reports whether err is an engine-level generation failure.
func IsGeneration(err error) bool {
	var e generationError
	return errors.As(err, &e)
}

// engineUnavailableError signals that the native engine is not present in
// this build (missing 'openvino' build tag) or cannot be initialized, so
// callers can map it to 503 instead of 500.
type engineUnavailableError struct{ msg string }

func (e engineUnavailableError) Error() string { return e.msg }

// ErrEngineUnavailable constructs an engineUnavailableError.
func ErrEngineUnavailable(msg string) error { return engineUnavailableError{msg: msg} }

// IsEngineUnavailable reports whether err indicates a missing engine runtime.
func IsEngineUnavailable(err error) bool {
	var e engineUnavailableError
	return errors.As(err, &e)
}
