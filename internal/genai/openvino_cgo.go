//go:build openvino

package genai

// cgo link directives for the in-process OpenVINO GenAI runtime.
// - We set an rpath of $ORIGIN so the runtime loader finds libopenvino_genai_c.so
//   and libopenvino*.so in the same directory as the built Go binary (./bin).
// - We add -L${SRCDIR}/../../bin so the linker finds the libraries at link time
//   when building the 'openvino' variant.
// - No environment variables are required.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lopenvino_genai_c -lopenvino_c
*/
import "C"
