package ebidx

import (
	"bytes"
	"sync"
)

// alternationCacheSlots is the direct-mapped alternation cache's slot
// count, grounded on original_source/eb/narwalt.c's
// EB_HASH_ALT_CACHE(c) == (c) & 0x0f.
const alternationCacheSlots = 16

// noCharacterNumber is the cache's empty-slot sentinel, matching the
// original's cache_p->character_number = -1.
const noCharacterNumber int32 = -1

type alternationCacheSlot struct {
	characterNumber int32
	text            [alternationSlotSize]byte
}

// AlternationTable answers narrow-glyph alternation lookups for one
// subbook's appendix (spec §4.4): character-number range checks, text
// lookup by character number, and forward/backward stepping across the
// font's legal characters. appendix holds 2048-byte pages the same way a
// Book's text PageSource does; narrowPage is the 1-based page where the
// subbook's narrow font alternation data begins, 0 if it has none.
type AlternationTable struct {
	mu       sync.Mutex
	appendix PageSource
	code     CharCode
	start    int32
	end      int32

	narrowPage uint32
	cache      [alternationCacheSlots]alternationCacheSlot

	stats *Stats
}

// SetStats attaches a Stats collector that NarrowAltCharacterText reports
// cache hits and misses to. A table with no attached Stats (the default)
// simply skips the bookkeeping.
func (t *AlternationTable) SetStats(stats *Stats) {
	t.stats = stats
}

// NewAlternationTable builds an AlternationTable over appendix for a
// subbook whose narrow font spans [start, end] and begins at narrowPage.
// Pass narrowPage 0 for a subbook with no narrow-font alternation;
// HaveNarrowAlt reports false and every lookup fails with
// ErrNoSuchCharText, mirroring how start/end are conventionally -1 in
// that case upstream.
func NewAlternationTable(appendix PageSource, code CharCode, start, end int32, narrowPage uint32) *AlternationTable {
	t := &AlternationTable{
		appendix:   appendix,
		code:       code,
		start:      start,
		end:        end,
		narrowPage: narrowPage,
	}
	for i := range t.cache {
		t.cache[i].characterNumber = noCharacterNumber
	}
	return t
}

// HaveNarrowAlt reports whether the subbook this table was built for has a
// narrow-font alternation at all.
func (t *AlternationTable) HaveNarrowAlt() bool {
	return t.narrowPage != 0
}

// NarrowAltStart returns the first character number of the narrow font.
func (t *AlternationTable) NarrowAltStart() (int32, error) {
	if !t.HaveNarrowAlt() {
		return -1, NewError(ErrNoSuchCharText)
	}
	return t.start, nil
}

// NarrowAltEnd returns the last character number of the narrow font.
func (t *AlternationTable) NarrowAltEnd() (int32, error) {
	if !t.HaveNarrowAlt() {
		return -1, NewError(ErrNoSuchCharText)
	}
	return t.end, nil
}

// locate computes the {page, offset} of character number c's 32-byte
// alternation slot. Every term is a multiple of alternationSlotSize and
// alternationSlotSize divides PageSize evenly, so a slot never straddles
// a page boundary.
func (t *AlternationTable) locate(c int32, scheme charScheme) (page uint32, offset int) {
	row, col := scheme.rowCol(c, t.start)
	slotIndex := row*scheme.stride + col
	absolute := int64(t.narrowPage-1)*PageSize + int64(slotIndex)*alternationSlotSize
	return uint32(absolute/PageSize) + 1, int(absolute % PageSize)
}

// NarrowAltCharacterText returns the alternation text for character number
// c, reading through the single-slot-per-hash cache before falling back to
// appendix (spec §4.4). Grounded on narwalt.c's
// eb_narrow_character_text_jis/_latin: a cache miss unconditionally
// overwrites its slot, there is no "belongs to another character"
// protection.
func (t *AlternationTable) NarrowAltCharacterText(c int32) (string, error) {
	if !t.HaveNarrowAlt() {
		return "", NewError(ErrNoSuchCharText)
	}
	scheme := schemeFor(t.code)
	if c < t.start || c > t.end || !scheme.validLowByte(c) {
		return "", NewError(ErrNoSuchCharText)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	slot := &t.cache[c&0x0f]
	if slot.characterNumber == c {
		if t.stats != nil {
			t.stats.recordAltCacheHit()
		}
		return textFromSlot(slot.text), nil
	}
	if t.stats != nil {
		t.stats.recordAltCacheMiss()
	}
	logAt(LogDebug, "alternation cache miss", "character", c)

	page, offset := t.locate(c, scheme)
	var buf [PageSize]byte
	slot.characterNumber = noCharacterNumber
	if err := t.appendix.ReadPage(page, buf[:]); err != nil {
		return "", WrapError(ErrFailReadApp, err)
	}
	logAt(LogDebug, "page read", "page", page)
	copy(slot.text[:], buf[offset:offset+alternationSlotSize])
	slot.text[alternationSlotSize-1] = 0
	slot.characterNumber = c
	return textFromSlot(slot.text), nil
}

func textFromSlot(b [alternationSlotSize]byte) string {
	if n := bytes.IndexByte(b[:], 0); n >= 0 {
		return string(b[:n])
	}
	return string(b[:])
}

// ForwardNarrowAltCharacter returns the character number n positions after
// c, or ErrNoSuchCharText if that runs past the font's end. Negative n
// delegates to BackwardNarrowAltCharacter, and n == 0 is a no-op success
// (the loop below simply never executes), both grounded on narwalt.c's
// eb_forward_narrow_alt_character.
func (t *AlternationTable) ForwardNarrowAltCharacter(n int, c int32) (int32, error) {
	if n < 0 {
		return t.BackwardNarrowAltCharacter(-n, c)
	}
	if !t.HaveNarrowAlt() {
		return -1, NewError(ErrNoSuchCharText)
	}
	scheme := schemeFor(t.code)
	if c < t.start || c > t.end || !scheme.validLowByte(c) {
		return -1, NewError(ErrNoSuchCharText)
	}
	for i := 0; i < n; i++ {
		c = scheme.successor(c)
		if c > t.end {
			return -1, NewError(ErrNoSuchCharText)
		}
	}
	return c, nil
}

// BackwardNarrowAltCharacter returns the character number n positions
// before c. Its "no narrow font at all" case reports ErrNoCurFont rather
// than ErrNoSuchCharText: a faithfully preserved asymmetry with
// ForwardNarrowAltCharacter's equivalent check in narwalt.c.
func (t *AlternationTable) BackwardNarrowAltCharacter(n int, c int32) (int32, error) {
	if n < 0 {
		return t.ForwardNarrowAltCharacter(-n, c)
	}
	if !t.HaveNarrowAlt() {
		return -1, NewError(ErrNoCurFont)
	}
	scheme := schemeFor(t.code)
	if c < t.start || c > t.end || !scheme.validLowByte(c) {
		return -1, NewError(ErrNoSuchCharText)
	}
	for i := 0; i < n; i++ {
		c = scheme.predecessor(c)
		if c < t.start {
			return -1, NewError(ErrNoSuchCharText)
		}
	}
	return c, nil
}
