//go:build openvino

package genai

/*
#include <openvino/genai/c/llm_pipeline.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// genaidTokenCB is the exported trampoline the engine invokes once per token
// chunk during streaming generation. args carries a cgo.Handle to the Go
// StreamFunc for this call only; no ownership crosses into native code. It
// runs synchronously on the generating goroutine, so the generation loop is
// blocked until the sink returns.
//
//export genaidTokenCB
func genaidTokenCB(str *C.char, args unsafe.Pointer) C.ov_genai_streamming_status_e {
	h := *(*cgo.Handle)(args)
	stream := h.Value().(StreamFunc)
	if stream([]byte(C.GoString(str))) {
		return C.OV_GENAI_STREAMMING_STATUS_RUNNING
	}
	return C.OV_GENAI_STREAMMING_STATUS_STOP
}
