package ebidx

// andMergeHits performs the k-way AND merge over lists, all of which are
// already in ascending Text-Location order (collectHits' sorted-stream
// guarantee). It is the Go counterpart of eb_and_hit_lists: at each step
// it finds the lexicographically greatest {page, offset} among the lists'
// current heads, emits a hit only once every list's head agrees on that
// position, and otherwise advances every list whose head falls short of
// the greatest one. consumed[i] reports how far into lists[i] the merge
// read, which the caller uses to advance the real SearchContexts by
// exactly that many entries.
func andMergeHits(lists [][]Hit, maxHits int) (merged []Hit, consumed []int) {
	k := len(lists)
	consumed = make([]int, k)

	for len(merged) < maxHits {
		greatest := -1
		var greatestPage uint32
		var greatestOffset uint16
		equalCount := 0

		for i := 0; i < k; i++ {
			if consumed[i] >= len(lists[i]) {
				continue
			}
			cur := lists[i][consumed[i]].Text
			switch {
			case greatest == -1:
				greatestPage, greatestOffset, greatest = cur.Page, cur.Offset, i
				equalCount++
			case cur.Page > greatestPage, cur.Page == greatestPage && cur.Offset > greatestOffset:
				greatestPage, greatestOffset, greatest = cur.Page, cur.Offset, i
				equalCount = 1
			case cur.Page == greatestPage && cur.Offset == greatestOffset:
				equalCount++
			}
		}
		if greatest == -1 {
			break
		}

		if equalCount == k {
			merged = append(merged, lists[greatest][consumed[greatest]])
			for i := 0; i < k; i++ {
				if consumed[i] < len(lists[i]) {
					consumed[i]++
				}
			}
			continue
		}

		advanced := 0
		for i := 0; i < k; i++ {
			if consumed[i] >= len(lists[i]) {
				continue
			}
			cur := lists[i][consumed[i]].Text
			if cur.Page != greatestPage || cur.Offset != greatestOffset {
				consumed[i]++
				advanced++
			}
		}
		if advanced == 0 {
			break
		}
	}
	return merged, consumed
}

// activeCompoundContexts returns the prefix of b.contexts sharing code
// (SearchKeyword or SearchMulti), matching the original's "stop at the
// first context whose code doesn't match" scan. The limit mirrors
// MaxKeywords/MaxMultiEntries depending on code.
func (b *Book) activeCompoundContexts(code SearchKind) []*SearchContext {
	limit := MaxMultiEntries
	if code == SearchKeyword {
		limit = MaxKeywords
	}
	if limit > len(b.contexts) {
		limit = len(b.contexts)
	}
	var active []*SearchContext
	for i := 0; i < limit; i++ {
		if b.contexts[i].Code != code {
			break
		}
		active = append(active, &b.contexts[i])
	}
	return active
}

// andCompoundHitList drives a keyword or multi query to completion (spec
// §4.3.4): each round, every active sub-context explores up to tmpMaxHits
// hits from a private copy of itself (so a round that ends up producing no
// merged output hasn't corrupted the real cursor), the round's lists are
// AND-merged, and then the real sub-contexts are advanced by exactly the
// number of entries the merge consumed. A round where any sub-query comes
// back empty means no further matches exist and ends the whole query.
func (b *Book) andCompoundHitList(maxHits int, cursor TextCursor) ([]Hit, error) {
	var result []Hit
	code := b.contexts[0].Code

	for len(result) < maxHits {
		active := b.activeCompoundContexts(code)
		if len(active) == 0 {
			break
		}

		lists := make([][]Hit, len(active))
		roundEmpty := false
		for i, ctx := range active {
			scratch := *ctx
			hits, err := b.collectHits(&scratch, tmpMaxHits, cursor)
			if err != nil {
				return result, err
			}
			lists[i] = hits
			if len(hits) == 0 {
				roundEmpty = true
				break
			}
		}
		if roundEmpty {
			break
		}

		rows := 0
		for _, l := range lists {
			rows += len(l)
		}
		b.stats.recordAndMergeRows(rows)

		merged, consumed := andMergeHits(lists, maxHits-len(result))

		for i, ctx := range active {
			if consumed[i] == 0 {
				continue
			}
			if _, err := b.collectHits(ctx, consumed[i], cursor); err != nil {
				return result, err
			}
		}

		result = append(result, merged...)
	}
	return result, nil
}
