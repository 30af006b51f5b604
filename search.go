package ebidx

// descend performs the pre-search index walk (spec §4.3.2), grounded on
// original_source/eb/search.c's eb_presearch_word: starting from ctx.Page
// (the subbook's root index page, set by the caller), it scans at most
// MaxIndexDepth internal pages, at each one choosing the first child entry
// whose key is >= the search word and following it, until it lands on a
// leaf page or determines the word cannot be present.
//
// Internal-page entries are always Fixed arrangement: entryLengthHint key
// bytes followed by a 4-byte child page number, with no location data.
// Running off the end of a page's entries, or an entry whose child page
// equals the current page (a self-reference a corrupt or empty index can
// produce), both mean "not found" rather than an error: descend leaves
// ctx.ComparisonResult negative and returns nil.
func (b *Book) descend(ctx *SearchContext) error {
	b.cache.invalidate()

	var buf [PageSize]byte
	depth := 0
	for ; depth < b.maxDepth; depth++ {
		if _, err := b.cache.fetch(b.id, ctx.Page, b.text, &buf, b.stats); err != nil {
			return WrapError(ErrFailReadText, err)
		}
		hdr, err := decodePageHeader(buf[:])
		if err != nil {
			return err
		}
		entryLength := int(hdr.entryLengthHint)

		if hdr.isLeaf() {
			ctx.hdr = hdr
			ctx.EntryIndex = 0
			ctx.ComparisonResult = 1
			ctx.EntryLength = 0
			ctx.InGroupEntry = false
			ctx.Offset = pageHeaderSize
			b.stats.recordDescentDepth(depth)
			return nil
		}

		offset := pageHeaderSize
		nextPage := ctx.Page
		found := false
		for i := uint16(0); i < hdr.entryCount; i++ {
			n := entryLength + 4
			if err := checkBounds(offset, n); err != nil {
				return err
			}
			entry := buf[offset : offset+n]
			if ctx.Compare.Compare(canonicalOf(ctx), entry, entryLength) <= 0 {
				nextPage = readUint32BE(entry[entryLength : entryLength+4])
				found = true
				break
			}
			offset += n
		}
		if !found || nextPage == ctx.Page {
			ctx.ComparisonResult = -1
			return nil
		}
		ctx.Page = nextPage
	}
	logAt(LogWarn, "descent exceeded max index depth", "maxDepth", b.maxDepth)
	return NewError(ErrUnexpText)
}

// collectHits runs ctx's leaf walk forward, gathering up to maxHits hits
// (spec §4.3.3). It is the Go counterpart of eb_hit_list_word /
// eb_hit_list_keyword / eb_hit_list_multi, unified into one function that
// dispatches per entry on ctx.Code, the page header's group/arrangement
// flags, and (for keyword group entries only) cursor. cursor may be nil
// for any search kind except SearchKeyword with a leaf that sets
// PAGE_ID_HAVE_GROUP_ENTRY.
func (b *Book) collectHits(ctx *SearchContext, maxHits int, cursor TextCursor) ([]Hit, error) {
	var hits []Hit
	var buf [PageSize]byte

	for len(hits) < maxHits && !ctx.exhausted() {
		if _, err := b.cache.fetch(b.id, ctx.Page, b.text, &buf, b.stats); err != nil {
			return hits, WrapError(ErrFailReadText, err)
		}
		if ctx.EntryIndex == 0 {
			hdr, err := decodePageHeader(buf[:])
			if err != nil {
				return hits, err
			}
			ctx.hdr = hdr
			ctx.EntryLength = int(hdr.entryLengthHint)
			ctx.Offset = pageHeaderSize
		}
		if !ctx.hdr.isLeaf() {
			logAt(LogWarn, "expected a leaf page", "page", ctx.Page)
			return hits, NewError(ErrUnexpText)
		}

		for ctx.EntryIndex < ctx.hdr.entryCount && len(hits) < maxHits {
			var (
				hit     Hit
				matched bool
				err     error
			)
			switch {
			case !ctx.hdr.hasGroupEntry() && ctx.hdr.entryArrangement == arrangementFixed:
				hit, matched, err = decodeNoGroupFixedEntry(ctx, buf[:])
			case !ctx.hdr.hasGroupEntry() && ctx.hdr.entryArrangement == arrangementVariable:
				hit, matched, err = decodeNoGroupVariableEntry(ctx, buf[:])
			case ctx.Code == SearchKeyword:
				hit, matched, err = decodeKeywordGroupEntry(ctx, buf[:], cursor)
			case ctx.Code == SearchMulti:
				hit, matched, err = decodeMultiGroupEntry(ctx, buf[:])
			default:
				hit, matched, err = decodeWordGroupEntry(ctx, buf[:])
			}
			if err != nil {
				return hits, err
			}
			if matched {
				hits = append(hits, hit)
			}
			if ctx.exhausted() {
				break
			}
		}
		if ctx.exhausted() || len(hits) >= maxHits {
			break
		}
		if ctx.EntryIndex < ctx.hdr.entryCount {
			continue
		}
		if ctx.hdr.isLayerEnd() {
			ctx.ComparisonResult = -1
			break
		}
		ctx.Page++
		ctx.EntryIndex = 0
	}
	return hits, nil
}

// HitList returns up to maxHits hits for the query described by the Book's
// primary context (spec §4.3). ExactWord/Word/EndWord searches are a
// single collectHits call; Keyword/Multi are compound queries handled by
// andCompoundHitList (andmerge.go). cursor is required for keyword
// searches over a grouped leaf and ignored otherwise.
func (b *Book) HitList(maxHits int, cursor TextCursor) ([]Hit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if maxHits <= 0 {
		return nil, nil
	}
	switch b.contexts[0].Code {
	case SearchExactWord, SearchWord, SearchEndWord:
		return b.collectHits(&b.contexts[0], maxHits, nil)
	case SearchKeyword, SearchMulti:
		return b.andCompoundHitList(maxHits, cursor)
	default:
		return nil, NewError(ErrNoPrevSearch)
	}
}

// PreSearch descends the index for ctx under the book lock, the entry
// point callers use after populating Word/CanonicalWord/Compare/Code/Page
// on a context obtained from Book.Context. It does not check whether a
// subbook is selected; the Book reads whatever PageSource it was opened
// with.
func (b *Book) PreSearch(ctx *SearchContext) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.descend(ctx)
}
