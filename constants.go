// Package ebidx implements the indexed-search and narrow-glyph alternation
// core of an EB/EPWING electronic-dictionary reader: a B+tree-style descent
// over fixed-size on-disk pages, a leaf-entry decoder for the five physical
// entry layouts, a per-book page cache, and a k-way merge for compound
// (keyword/multi) queries.
//
// Dictionary discovery, subbook opening, decompression of the underlying
// byte stream, text rendering and character-set conversion are all external
// collaborators; ebidx only consumes a PageSource and comparator callbacks
// supplied by the caller.
package ebidx

// PageSize is the fixed size, in bytes, of every page in the text and
// appendix streams.
const PageSize = 2048

// MaxIndexDepth bounds the number of internal pages a pre-search descent may
// visit before the book is considered corrupt.
const MaxIndexDepth = 6

// MaxAlternationTextLength is the longest alternation text, excluding the
// terminating NUL, that a 32-byte alternation slot can hold.
const MaxAlternationTextLength = 31

// alternationSlotSize is the on-disk size of one alternation record: the
// text plus its terminator.
const alternationSlotSize = MaxAlternationTextLength + 1

// NumberOfSearchContexts bounds how many parallel sub-queries a single Book
// can track at once. MaxKeywords and MaxMultiEntries must not exceed it.
const NumberOfSearchContexts = 16

// MaxKeywords is the maximum number of AND-ed terms in a keyword search.
const MaxKeywords = 4

// MaxMultiEntries is the maximum number of AND-ed fields in a multi search.
const MaxMultiEntries = 5

// tmpMaxHits is the per-round batch size the compound-query driver pulls
// from each sub-context before running the AND merge (spec §4.3.4).
const tmpMaxHits = 64

// Page-header flag bits (byte 0 of every index page).
const (
	pageIDIsLeaf        = 0x80
	pageIDIsLayerStart  = 0x40
	pageIDIsLayerEnd    = 0x20
	pageIDHasGroupEntry = 0x10
)

// Group-entry record-type tags (byte 0 of a group-leaf entry).
const (
	groupSingleton = 0x00
	groupHeader    = 0x80
	groupElement   = 0xC0
)
