package ebidx

// SearchKind identifies what a SearchContext is walking toward.
type SearchKind int

const (
	SearchNone SearchKind = iota
	SearchExactWord
	SearchWord
	SearchEndWord
	SearchKeyword
	SearchMulti
)

// SearchContext is the mutable cursor for one sub-query (spec §3). A Book
// owns NumberOfSearchContexts of these; compound (keyword/multi) queries
// drive several in parallel.
type SearchContext struct {
	Code SearchKind

	Word          []byte // literal pattern
	CanonicalWord []byte // folded pattern; empty means "compare Word only"
	Compare       Comparator

	Page uint32

	EntryLength int

	EntryIndex uint16
	Offset     int

	ComparisonResult int

	InGroupEntry   bool
	KeywordHeading Location

	// hdr caches the page header decoded the last time EntryIndex was 0,
	// so mid-page resumes after a cache eviction don't need to re-derive
	// page_id/entry_arrangement/entry_length from scratch (spec §4.2's
	// "reinitializes page-header fields ... only when entry_index == 0").
	hdr pageHeader
}

// reset clears a context back to its post-open, pre-query state.
func (c *SearchContext) reset() {
	*c = SearchContext{}
}

// exhausted reports whether this context's walk is known to have no more
// matches (spec's "sorted-stream termination" property).
func (c *SearchContext) exhausted() bool {
	return c.ComparisonResult < 0
}
