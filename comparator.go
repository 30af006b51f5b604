package ebidx

import "bytes"

// Comparator is the pluggable ordering the SearchEngine uses to walk both
// internal and leaf pages. It is a total order over entryLength-byte page
// slices; the engine never inspects which concrete comparator is installed
// (spec §3 "the engine treats them opaquely"). pattern is the caller's
// search word (or canonicalized word); page holds at least entryLength
// bytes of on-disk key data at the entry being examined.
type Comparator interface {
	Compare(pattern []byte, page []byte, entryLength int) int
}

// ComparatorFunc adapts a function to a Comparator.
type ComparatorFunc func(pattern, page []byte, entryLength int) int

func (f ComparatorFunc) Compare(pattern, page []byte, entryLength int) int {
	return f(pattern, page, entryLength)
}

// ExactComparator is a plain total order: the pattern matches an entry only
// when it equals the stored key exactly. Used for ExactWord searches, and
// for EndWord searches once both the pattern and the on-disk keys have been
// reversed (see NewEndWordComparator).
var ExactComparator Comparator = ComparatorFunc(func(pattern, page []byte, entryLength int) int {
	if entryLength > len(page) {
		entryLength = len(page)
	}
	return bytes.Compare(pattern, page[:entryLength])
})

// PrefixComparator implements forward (starts-with) matching for Word
// searches: an entry matches once its key is at least as long as pattern
// and agrees with it on the first len(pattern) bytes. Ordering for descent
// purposes still falls back to a full-length comparison so internal-page
// navigation remains correct when there is no prefix relationship.
var PrefixComparator Comparator = ComparatorFunc(func(pattern, page []byte, entryLength int) int {
	if entryLength > len(page) {
		entryLength = len(page)
	}
	key := page[:entryLength]
	n := len(pattern)
	if n > len(key) {
		n = len(key)
	}
	if c := bytes.Compare(pattern[:n], key[:n]); c != 0 {
		return c
	}
	if len(pattern) <= len(key) {
		return 0
	}
	// pattern is longer than the stored key: no prefix relationship,
	// pattern sorts after.
	return 1
})

// NewEndWordComparator returns an exact-match comparator for use with an
// already-reversed pattern and already-reversed on-disk keys. Grounded on
// original_source/eb/search.c's endword path: the C source reverses the
// search pattern once before descent and relies on the dictionary's
// endword index storing keys pre-reversed, rather than reversing on every
// comparison. ReverseBytes performs that one-time reversal.
func NewEndWordComparator() Comparator {
	return ExactComparator
}

// ReverseBytes returns a newly allocated reverse of b.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
