//go:build !openvino

package genai

// This file provides a no-CGO stub for the OpenVINO GenAI runtime. It is
// compiled when the 'openvino' build tag is NOT set, keeping default builds
// and CI CGO-free. The real runtime lives in openvino.go (tagged 'openvino').
//
// The stub fails fast instead of mocking inference: binaries built without
// engine support report the condition clearly rather than fabricating output.

const stubMsg = "openvino support not built (missing 'openvino' build tag)"

// NewRuntime reports that the engine is unavailable in this build.
func NewRuntime() (Runtime, error) {
	return nil, ErrEngineUnavailable(stubMsg)
}
