package ebidx

import "sync"

// noBookID is the PageCache's empty-slot sentinel (spec §4.2 "cached_book:
// ... NONE sentinel means empty").
const noBookID = 0

// PageCache is the single-slot, mutex-protected cache of the last decoded
// index page described in spec §4.2. It is process-wide by default (one
// instance is shared by every Book opened without BookOptions.Cache), matching
// the teacher's single coarse mutex around shared page state; a caller that
// wants isolated caches per Book may construct its own and pass it via
// BookOptions.Cache.
type PageCache struct {
	mu         sync.Mutex
	cachedBook uint64
	cachedPage uint32
	valid      bool
	buffer     [PageSize]byte
}

// NewPageCache returns an empty cache.
func NewPageCache() *PageCache {
	return &PageCache{cachedBook: noBookID}
}

// defaultPageCache is the process-wide cache new Books share unless they
// supply their own, matching spec §4.2's "process-wide" default.
var defaultPageCache = NewPageCache()

// fetch ensures out holds page p of book, reading through src on a miss.
// On a PageSource error the slot is invalidated so the next caller re-reads
// from disk rather than trusting stale bytes (spec §7). stats may be nil.
func (c *PageCache) fetch(book uint64, p uint32, src PageSource, out *[PageSize]byte, stats *Stats) (hit bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.cachedBook == book && c.cachedPage == p {
		*out = c.buffer
		if stats != nil {
			stats.recordCacheHit()
		}
		return true, nil
	}

	logAt(LogDebug, "page cache miss", "book", book, "page", p)

	if err := src.ReadPage(p, c.buffer[:]); err != nil {
		c.valid = false
		return false, err
	}
	logAt(LogDebug, "page read", "book", book, "page", p)
	c.cachedBook = book
	c.cachedPage = p
	c.valid = true
	*out = c.buffer
	if stats != nil {
		stats.recordCacheMiss()
		stats.recordPageRead()
	}
	return false, nil
}

// invalidateBook clears the cache if it currently holds a page belonging to
// book. initialize_search (spec §4.2/§6) calls this; it takes only the
// cache mutex, never the book lock, because the write is idempotent.
func (c *PageCache) invalidateBook(book uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.cachedBook == book {
		c.valid = false
		logAt(LogDebug, "page cache evicted", "book", book, "page", c.cachedPage)
	}
}

// invalidate unconditionally drops whatever page is cached, used at the
// start of a pre-search descent (spec §4.3.2 step 1).
func (c *PageCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid {
		logAt(LogDebug, "page cache evicted", "book", c.cachedBook, "page", c.cachedPage)
	}
	c.valid = false
}
