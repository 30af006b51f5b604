package ebidx

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kanjidb/ebidx/internal/fixture"
)

func buildSearchFixture(t *testing.T) *fixture.MemoryPageSource {
	t.Helper()
	src := &fixture.MemoryPageSource{}

	leafA, err := fixture.BuildFixedLeafPage([]fixture.Entry{
		{Key: []byte("aaa"), Text: Location{Page: 100, Offset: 1}, Heading: Location{Page: 200, Offset: 1}},
		{Key: []byte("bbb"), Text: Location{Page: 100, Offset: 2}, Heading: Location{Page: 200, Offset: 2}},
	}, 3, true)
	if err != nil {
		t.Fatalf("BuildFixedLeafPage leafA: %v", err)
	}
	leafB, err := fixture.BuildFixedLeafPage([]fixture.Entry{
		{Key: []byte("ccc"), Text: Location{Page: 100, Offset: 3}, Heading: Location{Page: 200, Offset: 3}},
		{Key: []byte("zzz"), Text: Location{Page: 100, Offset: 4}, Heading: Location{Page: 200, Offset: 4}},
	}, 3, true)
	if err != nil {
		t.Fatalf("BuildFixedLeafPage leafB: %v", err)
	}

	leafAPage := src.AppendPage(leafA) // page 1
	leafBPage := src.AppendPage(leafB) // page 2

	root, err := fixture.BuildInternalPage([][]byte{[]byte("bbb"), []byte("zzz")}, []uint32{leafAPage, leafBPage}, 3, true)
	if err != nil {
		t.Fatalf("BuildInternalPage: %v", err)
	}
	src.AppendPage(root) // page 3

	return src
}

func TestDescendLandsOnCorrectLeaf(t *testing.T) {
	src := buildSearchFixture(t)
	b := OpenBook(src, BookOptions{Cache: NewPageCache()})
	defer b.Close()

	ctx := b.Context(0)
	ctx.Code = SearchExactWord
	ctx.Word = []byte("ccc")
	ctx.Compare = ExactComparator
	ctx.Page = 3 // root

	if err := b.PreSearch(ctx); err != nil {
		t.Fatalf("PreSearch: %v", err)
	}
	if ctx.Page != 2 {
		t.Fatalf("ctx.Page = %d, want 2 (leaf B)", ctx.Page)
	}
	if ctx.exhausted() {
		t.Fatal("ctx should not be exhausted after landing on a leaf")
	}
}

func TestDescendNotFoundWhenWordSortsPastEveryKey(t *testing.T) {
	src := buildSearchFixture(t)
	b := OpenBook(src, BookOptions{Cache: NewPageCache()})
	defer b.Close()

	ctx := b.Context(0)
	ctx.Code = SearchExactWord
	ctx.Word = []byte("zzzz")
	ctx.Compare = ExactComparator
	ctx.Page = 3

	if err := b.PreSearch(ctx); err != nil {
		t.Fatalf("PreSearch: %v", err)
	}
	if !ctx.exhausted() {
		t.Fatal("a word sorting after every internal-page key should leave ctx exhausted")
	}
}

func TestHitListExactWordEndToEnd(t *testing.T) {
	src := buildSearchFixture(t)
	b := OpenBook(src, BookOptions{Cache: NewPageCache()})
	defer b.Close()

	ctx := b.Context(0)
	ctx.Code = SearchExactWord
	ctx.Word = []byte("ccc")
	ctx.Compare = ExactComparator
	ctx.Page = 3

	if err := b.PreSearch(ctx); err != nil {
		t.Fatalf("PreSearch: %v", err)
	}
	hits, err := b.HitList(10, nil)
	if err != nil {
		t.Fatalf("HitList: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %v, want exactly 1", hits)
	}
	if want := (Hit{Text: Location{Page: 100, Offset: 3}, Heading: Location{Page: 200, Offset: 3}}); hits[0] != want {
		t.Fatalf("hits[0] = %+v, want %+v", hits[0], want)
	}
}

func TestHitListFollowsLayerEndAcrossLeafPages(t *testing.T) {
	src := &fixture.MemoryPageSource{}
	leaf1, err := fixture.BuildFixedLeafPage([]fixture.Entry{
		{Key: []byte("a"), Text: Location{Page: 1, Offset: 1}},
	}, 1, false) // not the layer end: collectHits must continue to the next page
	if err != nil {
		t.Fatalf("BuildFixedLeafPage leaf1: %v", err)
	}
	leaf2, err := fixture.BuildFixedLeafPage([]fixture.Entry{
		{Key: []byte("a"), Text: Location{Page: 2, Offset: 2}},
	}, 1, true)
	if err != nil {
		t.Fatalf("BuildFixedLeafPage leaf2: %v", err)
	}
	src.AppendPage(leaf1) // page 1
	src.AppendPage(leaf2) // page 2

	b := OpenBook(src, BookOptions{Cache: NewPageCache()})
	defer b.Close()

	ctx := b.Context(0)
	ctx.Code = SearchWord
	ctx.Word = []byte("a")
	ctx.Compare = PrefixComparator
	ctx.Page = 1
	ctx.ComparisonResult = 1
	ctx.Offset = pageHeaderSize

	hits, err := b.HitList(10, nil)
	if err != nil {
		t.Fatalf("HitList: %v", err)
	}
	want := []Hit{
		{Text: Location{Page: 1, Offset: 1}},
		{Text: Location{Page: 2, Offset: 2}},
	}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Fatalf("hits mismatch (-want +got):\n%s", diff)
	}
}

func TestHitListWithNoPriorSearchFails(t *testing.T) {
	src := &fixture.MemoryPageSource{}
	b := OpenBook(src, BookOptions{Cache: NewPageCache()})
	defer b.Close()

	if _, err := b.HitList(10, nil); !IsNoPrevSearch(err) {
		t.Fatalf("err = %v, want ErrNoPrevSearch", err)
	}
}

// TestDescentDepthIsMonotonic exercises the "monotonic depth" property from
// spec §8: each internal page visited strictly decreases the remaining
// budget, so a well-formed index of depth d never loops.
func TestDescentDepthIsMonotonic(t *testing.T) {
	src := buildSearchFixture(t)
	b := OpenBook(src, BookOptions{Cache: NewPageCache(), MaxDepth: 2})
	defer b.Close()

	ctx := b.Context(0)
	ctx.Code = SearchExactWord
	ctx.Word = []byte("ccc")
	ctx.Compare = ExactComparator
	ctx.Page = 3

	if err := b.PreSearch(ctx); err != nil {
		t.Fatalf("PreSearch: %v", err)
	}
	if ctx.Page != 2 {
		t.Fatalf("ctx.Page = %d, want 2", ctx.Page)
	}
}
