package genai

import "unicode/utf8"

// TokenSink is the caller-supplied capability invoked once per generated
// token chunk during a streaming generate call. OnToken runs synchronously
// on the generating goroutine, in generation order: chunk N's call returns
// before chunk N+1 is produced. Returning false is the sole cancellation
// signal; the engine stops at its next opportunity and no further calls are
// made. A panic inside the sink is a caller bug and is not caught here.
type TokenSink interface {
	OnToken(chunk []byte) bool
}

// SinkFunc adapts a plain function to the TokenSink capability.
type SinkFunc func(chunk []byte) bool

func (f SinkFunc) OnToken(chunk []byte) bool { return f(chunk) }

// streamer adapts a TokenSink to the engine's callback shape. The engine may
// split output on byte boundaries that fall inside a multi-byte UTF-8
// sequence; streamer holds the truncated tail back until the rest of the
// rune arrives, so the sink only ever sees complete sequences. No other
// buffering or transformation happens here.
type streamer struct {
	sink TokenSink
	tail []byte
}

// push is the StreamFunc handed to the engine.
func (s *streamer) push(chunk []byte) bool {
	if len(s.tail) == 0 && len(chunk) == 0 {
		return true
	}
	buf := chunk
	if len(s.tail) > 0 {
		buf = append(s.tail, chunk...)
	}
	n := completePrefix(buf)
	if n == 0 {
		// Nothing decodable yet; keep waiting for more bytes.
		s.tail = buf
		return true
	}
	out := make([]byte, n)
	copy(out, buf)
	s.tail = append(s.tail[:0], buf[n:]...)
	return s.sink.OnToken(out)
}

// completePrefix returns the length of b's longest prefix that does not end
// in a truncated multi-byte UTF-8 sequence. Bytes that cannot be the start
// of a truncated rune are included as-is; decoding garbage is the engine's
// problem, stalling the stream over it is not an option.
func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			// ASCII: everything up to the end is complete.
			return len(b)
		}
		if c&0xC0 == 0xC0 {
			// Leading byte of a multi-byte rune; truncated if the
			// remainder of the sequence has not arrived yet.
			if !utf8.FullRune(b[i:]) {
				return i
			}
			return len(b)
		}
		// 0x80..0xBF continuation byte: keep walking back.
	}
	return len(b)
}
