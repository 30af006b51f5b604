package ebidx

// TextCursor is the external text-stream collaborator a keyword leaf needs.
// A matching 0x80 group header seeks the cursor to the group's heading
// Location; each 0xc0 element within the group then reads back its own
// heading with TellText and steps past that heading record with
// ForwardHeading before the next element is tried. Word and
// multi leaves are entirely self-contained and never call it. Seeking,
// reading and decoding the text stream itself are out-of-scope
// collaborators (spec §6); ebidx only calls these three methods.
type TextCursor interface {
	SeekText(Location) error
	TellText() (Location, error)
	ForwardHeading() error
}

// canonicalOf returns the word a group-leaf's canonical comparison should
// use: CanonicalWord if the caller supplied one (folded/normalized search),
// otherwise Word itself (exact/literal search, where canonical and literal
// collapse to the same comparison).
func canonicalOf(ctx *SearchContext) []byte {
	if len(ctx.CanonicalWord) != 0 {
		return ctx.CanonicalWord
	}
	return ctx.Word
}

// decodeNoGroupFixedEntry reads one entry of a PAGE_ID_HAVE_GROUP_ENTRY=0,
// EB_ARRANGE_FIXED leaf (spec §4.3.3(a)). Identical across word, keyword
// and multi leaves (original_source/eb/search.c's three eb_hit_list_*
// functions share this branch byte for byte): the key occupies the first
// EntryLength bytes, followed immediately by a 12-byte {text, heading}
// Location pair with no gap between them.
func decodeNoGroupFixedEntry(ctx *SearchContext, page []byte) (Hit, bool, error) {
	n := ctx.EntryLength + 12
	if err := checkBounds(ctx.Offset, n); err != nil {
		return Hit{}, false, err
	}
	entry := page[ctx.Offset : ctx.Offset+n]

	ctx.ComparisonResult = ctx.Compare.Compare(ctx.Word, entry, ctx.EntryLength)
	var hit Hit
	matched := ctx.ComparisonResult == 0
	if matched {
		hit = Hit{
			Text:    readLocation(entry[ctx.EntryLength : ctx.EntryLength+6]),
			Heading: readLocation(entry[ctx.EntryLength+6 : ctx.EntryLength+12]),
		}
	}
	ctx.EntryIndex++
	ctx.Offset += n
	return hit, matched, nil
}

// decodeNoGroupVariableEntry reads one entry of a PAGE_ID_HAVE_GROUP_ENTRY=0,
// EB_ARRANGE_VARIABLE leaf (spec §4.3.3(b)): a 1-byte key-length prefix,
// then the key, then the same 12-byte Location pair as the Fixed layout.
func decodeNoGroupVariableEntry(ctx *SearchContext, page []byte) (Hit, bool, error) {
	if err := checkBounds(ctx.Offset, 1); err != nil {
		return Hit{}, false, err
	}
	ctx.EntryLength = int(page[ctx.Offset])

	n := ctx.EntryLength + 13
	if err := checkBounds(ctx.Offset, n); err != nil {
		return Hit{}, false, err
	}
	entry := page[ctx.Offset : ctx.Offset+n]
	key := entry[1 : 1+ctx.EntryLength]

	ctx.ComparisonResult = ctx.Compare.Compare(ctx.Word, key, ctx.EntryLength)
	var hit Hit
	matched := ctx.ComparisonResult == 0
	if matched {
		hit = Hit{
			Text:    readLocation(entry[1+ctx.EntryLength : 7+ctx.EntryLength]),
			Heading: readLocation(entry[7+ctx.EntryLength : 13+ctx.EntryLength]),
		}
	}
	ctx.EntryIndex++
	ctx.Offset += n
	return hit, matched, nil
}

// decodeGroupSingletonEntry reads a 0x00 ("no grouping needed for this key")
// group-leaf entry, the one physical layout shared unchanged by word,
// keyword and multi leaves. It carries both locations inline and requires
// agreement on both the canonical and the literal word, matching the
// original's dual compare ("comparison_result == 0 && compare(word, ...)
// == 0") rather than the canonical-only test a 0x80/0xc0 pair uses.
func decodeGroupSingletonEntry(ctx *SearchContext, page []byte) (Hit, bool, error) {
	if err := checkBounds(ctx.Offset, 2); err != nil {
		return Hit{}, false, err
	}
	ctx.EntryLength = int(page[ctx.Offset+1])

	n := ctx.EntryLength + 14
	if err := checkBounds(ctx.Offset, n); err != nil {
		return Hit{}, false, err
	}
	entry := page[ctx.Offset : ctx.Offset+n]
	key := entry[2 : 2+ctx.EntryLength]

	ctx.ComparisonResult = ctx.Compare.Compare(canonicalOf(ctx), key, ctx.EntryLength)
	matched := ctx.ComparisonResult == 0 && ctx.Compare.Compare(ctx.Word, key, ctx.EntryLength) == 0

	var hit Hit
	if matched {
		hit = Hit{
			Text:    readLocation(entry[ctx.EntryLength+2 : ctx.EntryLength+8]),
			Heading: readLocation(entry[ctx.EntryLength+8 : ctx.EntryLength+14]),
		}
	}
	ctx.InGroupEntry = false
	ctx.EntryIndex++
	ctx.Offset += n
	return hit, matched, nil
}

// decodeWordGroupEntry reads one entry of a word/exact-word/end-word leaf
// that has PAGE_ID_HAVE_GROUP_ENTRY set, dispatching on the 1-byte group-id
// tag. Grounded on eb_hit_list_word's group branch.
func decodeWordGroupEntry(ctx *SearchContext, page []byte) (Hit, bool, error) {
	if err := checkBounds(ctx.Offset, 2); err != nil {
		return Hit{}, false, err
	}
	switch page[ctx.Offset] {
	case groupSingleton:
		return decodeGroupSingletonEntry(ctx, page)

	case groupHeader:
		// 0x80: canonical-only compare, no heading stored, 4-byte header
		// before the key (2 tag/length bytes then 2 reserved).
		ctx.EntryLength = int(page[ctx.Offset+1])
		n := ctx.EntryLength + 4
		if err := checkBounds(ctx.Offset, n); err != nil {
			return Hit{}, false, err
		}
		key := page[ctx.Offset+4 : ctx.Offset+4+ctx.EntryLength]
		ctx.ComparisonResult = ctx.Compare.Compare(canonicalOf(ctx), key, ctx.EntryLength)
		ctx.InGroupEntry = true
		ctx.EntryIndex++
		ctx.Offset += n
		return Hit{}, false, nil

	case groupElement:
		// 0xc0: re-reads its own length byte (the original does the same),
		// then both locations inline, same layout as the singleton record.
		// The bound check here is widened to entry_length+14 instead of
		// the original's plain +14: search.c's eb_hit_list_word checks
		// only offset+14 before it has re-read entry_length, which would
		// under-check whenever entry_length > 0.
		ctx.EntryLength = int(page[ctx.Offset+1])
		n := ctx.EntryLength + 14
		if err := checkBounds(ctx.Offset, n); err != nil {
			return Hit{}, false, err
		}
		entry := page[ctx.Offset : ctx.Offset+n]
		var hit Hit
		matched := ctx.InGroupEntry && ctx.ComparisonResult == 0 &&
			ctx.Compare.Compare(ctx.Word, entry[2:2+ctx.EntryLength], ctx.EntryLength) == 0
		if matched {
			hit = Hit{
				Text:    readLocation(entry[ctx.EntryLength+2 : ctx.EntryLength+8]),
				Heading: readLocation(entry[ctx.EntryLength+8 : ctx.EntryLength+14]),
			}
		}
		ctx.EntryIndex++
		ctx.Offset += n
		return hit, matched, nil

	default:
		logAt(LogWarn, "unexpected group entry tag", "tag", page[ctx.Offset])
		return Hit{}, false, NewError(ErrUnexpText)
	}
}

// decodeKeywordGroupEntry reads one entry of a keyword leaf that has
// PAGE_ID_HAVE_GROUP_ENTRY set. Grounded on eb_hit_list_keyword's group
// branch: unlike word/multi, the 0x80 header here carries a (approximate)
// heading Location and, on a canonical match, seeks cursor there; each
// 0xc0 element then reads back the precise heading with TellText and
// steps the cursor forward with ForwardHeading so the next element in the
// group lands on its own heading.
func decodeKeywordGroupEntry(ctx *SearchContext, page []byte, cursor TextCursor) (Hit, bool, error) {
	if err := checkBounds(ctx.Offset, 2); err != nil {
		return Hit{}, false, err
	}
	switch page[ctx.Offset] {
	case groupSingleton:
		return decodeGroupSingletonEntry(ctx, page)

	case groupHeader:
		ctx.EntryLength = int(page[ctx.Offset+1])
		n := ctx.EntryLength + 12
		if err := checkBounds(ctx.Offset, n); err != nil {
			return Hit{}, false, err
		}
		entry := page[ctx.Offset : ctx.Offset+n]
		key := entry[6 : 6+ctx.EntryLength]
		ctx.ComparisonResult = ctx.Compare.Compare(canonicalOf(ctx), key, ctx.EntryLength)
		ctx.KeywordHeading = readLocation(entry[ctx.EntryLength+6 : ctx.EntryLength+12])
		ctx.InGroupEntry = true
		ctx.EntryIndex++
		ctx.Offset += n
		if ctx.ComparisonResult == 0 {
			if err := cursor.SeekText(ctx.KeywordHeading); err != nil {
				return Hit{}, false, err
			}
		}
		return Hit{}, false, nil

	case groupElement:
		if err := checkBounds(ctx.Offset, 7); err != nil {
			return Hit{}, false, err
		}
		entry := page[ctx.Offset : ctx.Offset+7]
		var hit Hit
		matched := ctx.InGroupEntry && ctx.ComparisonResult == 0
		if matched {
			heading, err := cursor.TellText()
			if err != nil {
				return Hit{}, false, err
			}
			hit = Hit{
				Heading: heading,
				Text:    readLocation(entry[1:7]),
			}
			if err := cursor.ForwardHeading(); err != nil {
				return Hit{}, false, err
			}
		}
		ctx.EntryIndex++
		ctx.Offset += 7
		return hit, matched, nil

	default:
		logAt(LogWarn, "unexpected group entry tag", "tag", page[ctx.Offset])
		return Hit{}, false, NewError(ErrUnexpText)
	}
}

// decodeMultiGroupEntry reads one entry of a multi leaf that has
// PAGE_ID_HAVE_GROUP_ENTRY set. Grounded on eb_hit_list_multi's group
// branch: both the header and every element are fully self-contained, no
// TextCursor involvement.
func decodeMultiGroupEntry(ctx *SearchContext, page []byte) (Hit, bool, error) {
	if err := checkBounds(ctx.Offset, 2); err != nil {
		return Hit{}, false, err
	}
	switch page[ctx.Offset] {
	case groupSingleton:
		return decodeGroupSingletonEntry(ctx, page)

	case groupHeader:
		ctx.EntryLength = int(page[ctx.Offset+1])
		n := ctx.EntryLength + 6
		if err := checkBounds(ctx.Offset, n); err != nil {
			return Hit{}, false, err
		}
		key := page[ctx.Offset+6 : ctx.Offset+6+ctx.EntryLength]
		ctx.ComparisonResult = ctx.Compare.Compare(canonicalOf(ctx), key, ctx.EntryLength)
		ctx.InGroupEntry = true
		ctx.EntryIndex++
		ctx.Offset += n
		return Hit{}, false, nil

	case groupElement:
		if err := checkBounds(ctx.Offset, 13); err != nil {
			return Hit{}, false, err
		}
		entry := page[ctx.Offset : ctx.Offset+13]
		var hit Hit
		matched := ctx.InGroupEntry && ctx.ComparisonResult == 0
		if matched {
			hit = Hit{
				Text:    readLocation(entry[1:7]),
				Heading: readLocation(entry[7:13]),
			}
		}
		ctx.EntryIndex++
		ctx.Offset += 13
		return hit, matched, nil

	default:
		logAt(LogWarn, "unexpected group entry tag", "tag", page[ctx.Offset])
		return Hit{}, false, NewError(ErrUnexpText)
	}
}
