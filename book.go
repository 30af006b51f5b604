package ebidx

import (
	"sync"
	"sync/atomic"
)

var nextBookID atomic.Uint64

// FlagStrictDepth is reserved for symmetry with the teacher's Env.flags
// bitmask (env.go); MaxIndexDepth overrun is already always treated as
// ErrUnexpText per spec §4.3.2 step 3, so this flag currently has no
// observable effect. It exists so a future relaxed mode has somewhere to
// live without changing Book's shape.
const FlagStrictDepth uint = 1 << 0

// BookOptions configures a Book, in the style of the teacher's Env
// geometry/flags fields rather than a functional-options chain (env.go has
// no With* constructors either).
type BookOptions struct {
	// MaxDepth overrides MaxIndexDepth; zero means MaxIndexDepth.
	MaxDepth int
	// NumberOfSearchContexts overrides NumberOfSearchContexts; zero means
	// the package default.
	NumberOfSearchContexts int
	// Cache is the PageCache the Book's SearchEngine reads through. Nil
	// means the process-wide defaultPageCache (spec §4.2's "process-wide"
	// default); supply your own for isolated-cache tests or to trade the
	// single-slot discipline for, e.g., a per-book cache in a
	// many-open-books server.
	Cache *PageCache
	Flags uint
}

// Book owns the per-subbook SearchContext slots, its own mutex, and the
// PageSource for the current subbook's text stream (spec §3/§5). Opening,
// closing and subbook selection are external collaborators; callers hand
// OpenBook an already-positioned PageSource.
type Book struct {
	id    uint64
	mu    sync.Mutex
	text  PageSource
	cache *PageCache

	contexts  []SearchContext
	maxDepth  int
	flags     uint
	stats     *Stats
}

// OpenBook creates a Book reading index pages from text.
func OpenBook(text PageSource, opts BookOptions) *Book {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = MaxIndexDepth
	}
	n := opts.NumberOfSearchContexts
	if n <= 0 {
		n = NumberOfSearchContexts
	}
	cache := opts.Cache
	if cache == nil {
		cache = defaultPageCache
	}
	return &Book{
		id:       nextBookID.Add(1),
		text:     text,
		cache:    cache,
		contexts: make([]SearchContext, n),
		maxDepth: maxDepth,
		flags:    opts.Flags,
		stats:    newStats(),
	}
}

// Close releases the underlying PageSource.
func (b *Book) Close() error {
	return b.text.Close()
}

// Stats returns the Book's prometheus.Collector of search/cache counters.
func (b *Book) Stats() *Stats {
	return b.stats
}

// Context returns a pointer to sub-query slot i, panicking if i is out of
// range the way a slice index would. Index 0 is the primary context used
// by ExactWord/Word/EndWord searches; compound queries additionally use
// indices 1..NumberOfSearchContexts-1.
func (b *Book) Context(i int) *SearchContext {
	return &b.contexts[i]
}

// NumContexts returns how many SearchContext slots this Book has.
func (b *Book) NumContexts() int {
	return len(b.contexts)
}

// InitializeSearch discards any in-progress query: it invalidates this
// Book's cached page (holding only the cache mutex for that step), then,
// under the book lock, clears every SearchContext slot back to its zero
// state, so each context's Code becomes SearchNone.
func (b *Book) InitializeSearch() {
	b.cache.invalidateBook(b.id)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.contexts {
		b.contexts[i].reset()
	}
}
