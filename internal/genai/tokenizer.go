package genai

import "sync"

// Tokenizer exclusively owns one native tokenizer instance, derived from a
// pipeline but independent of it afterwards: closing the pipeline does not
// invalidate the tokenizer.
type Tokenizer struct {
	raw       RawTokenizer
	closeOnce sync.Once
}

// CountTokens encodes text and returns the number of resulting tokens. The
// token IDs themselves are not exposed. Empty text encodes to zero tokens.
func (t *Tokenizer) CountTokens(text string) uint64 {
	if text == "" {
		return 0
	}
	return t.raw.CountTokens(text)
}

// Close releases the native tokenizer. Safe to call more than once; only
// the first call releases.
func (t *Tokenizer) Close() {
	t.closeOnce.Do(func() { t.raw.Close() })
}
