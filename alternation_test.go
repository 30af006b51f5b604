package ebidx

import "testing"

// buildAlternationPage lays out texts at consecutive 32-byte slots starting
// at slot 0, matching locate()'s packing for a table whose start character
// occupies row 0 col 0.
func buildAlternationPage(texts []string) [PageSize]byte {
	var page [PageSize]byte
	for i, s := range texts {
		copy(page[i*alternationSlotSize:], s)
	}
	return page
}

func TestNarrowAltCharacterTextLookupAndCache(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"alpha", "beta"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa122, 1)

	got, err := table.NarrowAltCharacterText(0xa121)
	if err != nil {
		t.Fatalf("NarrowAltCharacterText: %v", err)
	}
	if got != "alpha" {
		t.Fatalf("got %q, want %q", got, "alpha")
	}

	got, err = table.NarrowAltCharacterText(0xa122)
	if err != nil {
		t.Fatalf("NarrowAltCharacterText: %v", err)
	}
	if got != "beta" {
		t.Fatalf("got %q, want %q", got, "beta")
	}

	if src.reads != 2 {
		t.Fatalf("reads = %d, want 2 (no cache hit yet)", src.reads)
	}

	if _, err := table.NarrowAltCharacterText(0xa121); err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if src.reads != 2 {
		t.Fatalf("reads after cache hit = %d, want still 2", src.reads)
	}
}

func TestNarrowAltCharacterTextOutOfRange(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"alpha"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa121, 1)
	if _, err := table.NarrowAltCharacterText(0xa200); !IsNoSuchChar(err) {
		t.Fatalf("err = %v, want ErrNoSuchCharText", err)
	}
}

func TestHaveNarrowAltFalseWhenNoNarrowPage(t *testing.T) {
	table := NewAlternationTable(&fixedPageSource{}, CharCodeJISX0208, -1, -1, 0)
	if table.HaveNarrowAlt() {
		t.Fatal("HaveNarrowAlt should be false when narrowPage is 0")
	}
	if _, err := table.NarrowAltCharacterText(0xa121); !IsNoSuchChar(err) {
		t.Fatalf("err = %v, want ErrNoSuchCharText", err)
	}
	if _, err := table.NarrowAltStart(); !IsNoSuchChar(err) {
		t.Fatalf("NarrowAltStart err = %v, want ErrNoSuchCharText", err)
	}
}

func TestForwardBackwardNarrowAltCharacterRoundTrip(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"a", "b", "c"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa123, 1)

	next, err := table.ForwardNarrowAltCharacter(2, 0xa121)
	if err != nil {
		t.Fatalf("ForwardNarrowAltCharacter: %v", err)
	}
	if next != 0xa123 {
		t.Fatalf("next = %#x, want 0xa123", next)
	}

	back, err := table.BackwardNarrowAltCharacter(2, next)
	if err != nil {
		t.Fatalf("BackwardNarrowAltCharacter: %v", err)
	}
	if back != 0xa121 {
		t.Fatalf("back = %#x, want 0xa121", back)
	}
}

func TestForwardNarrowAltCharacterZeroIsNoOp(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"a"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa121, 1)
	c, err := table.ForwardNarrowAltCharacter(0, 0xa121)
	if err != nil || c != 0xa121 {
		t.Fatalf("ForwardNarrowAltCharacter(0, c) = (%#x, %v), want (c, nil)", c, err)
	}
}

func TestForwardNarrowAltCharacterPastEndFails(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"a"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa121, 1)
	if _, err := table.ForwardNarrowAltCharacter(1, 0xa121); !IsNoSuchChar(err) {
		t.Fatalf("err = %v, want ErrNoSuchCharText", err)
	}
}

// TestNegativeNDelegatesToTheOtherDirection exercises ForwardNarrowAlt's and
// BackwardNarrowAlt's mutual negative-n delegation.
func TestNegativeNDelegatesToTheOtherDirection(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"a", "b", "c"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa123, 1)

	viaForward, err := table.ForwardNarrowAltCharacter(-1, 0xa122)
	if err != nil {
		t.Fatalf("ForwardNarrowAltCharacter(-1, ...): %v", err)
	}
	viaBackward, err := table.BackwardNarrowAltCharacter(1, 0xa122)
	if err != nil {
		t.Fatalf("BackwardNarrowAltCharacter(1, ...): %v", err)
	}
	if viaForward != viaBackward {
		t.Fatalf("ForwardNarrowAltCharacter(-1,..)=%#x, BackwardNarrowAltCharacter(1,..)=%#x", viaForward, viaBackward)
	}
}

// TestNoNarrowFontAsymmetry pins the faithfully-preserved divergence between
// Forward's and Backward's "this subbook has no narrow font at all" error
// code.
func TestNoNarrowFontAsymmetry(t *testing.T) {
	table := NewAlternationTable(&fixedPageSource{}, CharCodeJISX0208, -1, -1, 0)

	_, fwdErr := table.ForwardNarrowAltCharacter(1, 0xa121)
	if Code(fwdErr) != ErrNoSuchCharText {
		t.Fatalf("forward code = %v, want ErrNoSuchCharText", Code(fwdErr))
	}

	_, backErr := table.BackwardNarrowAltCharacter(1, 0xa121)
	if Code(backErr) != ErrNoCurFont {
		t.Fatalf("backward code = %v, want ErrNoCurFont", Code(backErr))
	}
}

func TestAlternationStatsWiring(t *testing.T) {
	src := &fixedPageSource{pages: [][PageSize]byte{buildAlternationPage([]string{"a"})}}
	table := NewAlternationTable(src, CharCodeJISX0208, 0xa121, 0xa121, 1)
	stats := newStats()
	table.SetStats(stats)

	if _, err := table.NarrowAltCharacterText(0xa121); err != nil {
		t.Fatalf("NarrowAltCharacterText: %v", err)
	}
	if stats.altCacheMisses != 1 {
		t.Fatalf("altCacheMisses = %d, want 1", stats.altCacheMisses)
	}
	if _, err := table.NarrowAltCharacterText(0xa121); err != nil {
		t.Fatalf("NarrowAltCharacterText: %v", err)
	}
	if stats.altCacheHits != 1 {
		t.Fatalf("altCacheHits = %d, want 1", stats.altCacheHits)
	}
}

type fixedPageSource struct {
	pages [][PageSize]byte
	reads int
}

func (s *fixedPageSource) ReadPage(p uint32, buf []byte) error {
	s.reads++
	copy(buf, s.pages[p-1][:])
	return nil
}

func (s *fixedPageSource) Close() error { return nil }
