// Package fixture builds synthetic dictionaries for ebidx's tests: a
// bbolt-backed staging store for (key, text, heading) triples, a compiler
// from staged entries into the five on-disk leaf physical layouts, and a
// trivial in-memory PageSource to read them back through.
package fixture

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/kanjidb/ebidx"
)

// Entry is one staged (key, text, heading) triple destined for a leaf page.
type Entry struct {
	Key     []byte
	Text    ebidx.Location
	Heading ebidx.Location
}

// Store stages Entries in a bbolt database, sorted by key, before they are
// compiled into fixed-size leaf pages. A real dictionary build pipeline
// sorts its whole keyword list before laying out pages; bbolt's
// lexicographically-ordered bucket cursor gives the tests the same
// pre-sorted-input property for free.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// OpenStore opens (creating if needed) a bbolt database at path with one
// bucket for staged entries.
func OpenStore(path string, bucket string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("fixture: open store: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("fixture: create bucket: %w", err)
	}
	return &Store{db: db, bucket: []byte(bucket)}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stages e, keyed by e.Key.
func (s *Store) Put(e Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		val := make([]byte, 12)
		putLocation(val[0:6], e.Text)
		putLocation(val[6:12], e.Heading)
		return tx.Bucket(s.bucket).Put(e.Key, val)
	})
}

// Each iterates staged entries in ascending key order.
func (s *Store) Each(fn func(Entry) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			e := Entry{
				Key:     append([]byte(nil), k...),
				Text:    getLocation(v[0:6]),
				Heading: getLocation(v[6:12]),
			}
			if err := fn(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// All returns every staged entry in ascending key order.
func (s *Store) All() ([]Entry, error) {
	var entries []Entry
	err := s.Each(func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func putLocation(b []byte, l ebidx.Location) {
	binary.BigEndian.PutUint32(b[0:4], l.Page)
	binary.BigEndian.PutUint16(b[4:6], l.Offset)
}

func getLocation(b []byte) ebidx.Location {
	return ebidx.Location{Page: binary.BigEndian.Uint32(b[0:4]), Offset: binary.BigEndian.Uint16(b[4:6])}
}

// MemoryPageSource is an in-memory ebidx.PageSource for tests: a flat slice
// of already-built pages, 1-based like the real format (Pages[0] is page
// 1).
type MemoryPageSource struct {
	Pages [][ebidx.PageSize]byte
}

func (m *MemoryPageSource) ReadPage(p uint32, buf []byte) error {
	if p == 0 || int(p) > len(m.Pages) {
		return fmt.Errorf("fixture: page %d out of range (have %d)", p, len(m.Pages))
	}
	copy(buf, m.Pages[p-1][:])
	return nil
}

func (m *MemoryPageSource) Close() error { return nil }

// AppendPage adds page to the source and returns its 1-based page number.
func (m *MemoryPageSource) AppendPage(page [ebidx.PageSize]byte) uint32 {
	m.Pages = append(m.Pages, page)
	return uint32(len(m.Pages))
}

const (
	flagLeaf      = 0x80
	flagLayerEnd  = 0x20
	flagGroup     = 0x10
	groupSingleton = 0x00
	groupHeader    = 0x80
	groupElement   = 0xC0
)

// BuildFixedLeafPage lays out entries as a no-group, EB_ARRANGE_FIXED leaf
// page (spec §4.3.3(a)): every entry is keyLength bytes of key followed by
// a 12-byte {text, heading} Location pair. All entries must share
// len(Key) == keyLength.
func BuildFixedLeafPage(entries []Entry, keyLength int, isLast bool) ([ebidx.PageSize]byte, error) {
	var page [ebidx.PageSize]byte
	pageID := byte(flagLeaf)
	if isLast {
		pageID |= flagLayerEnd
	}
	page[0] = pageID
	if keyLength == 0 || keyLength > 255 {
		return page, fmt.Errorf("fixture: key length %d out of byte range", keyLength)
	}
	page[1] = byte(keyLength)
	binary.BigEndian.PutUint16(page[2:4], uint16(len(entries)))

	offset := 4
	for _, e := range entries {
		if len(e.Key) != keyLength {
			return page, fmt.Errorf("fixture: key %q length %d, want %d", e.Key, len(e.Key), keyLength)
		}
		n := keyLength + 12
		if offset+n > ebidx.PageSize {
			return page, fmt.Errorf("fixture: page overflow at key %q", e.Key)
		}
		copy(page[offset:offset+keyLength], e.Key)
		putLocation(page[offset+keyLength:offset+keyLength+6], e.Text)
		putLocation(page[offset+keyLength+6:offset+keyLength+12], e.Heading)
		offset += n
	}
	return page, nil
}

// BuildVariableLeafPage lays out entries as a no-group, EB_ARRANGE_VARIABLE
// leaf page (spec §4.3.3(b)): each entry is its own 1-byte key length, the
// key, then the same 12-byte Location pair.
func BuildVariableLeafPage(entries []Entry, isLast bool) ([ebidx.PageSize]byte, error) {
	var page [ebidx.PageSize]byte
	pageID := byte(flagLeaf)
	if isLast {
		pageID |= flagLayerEnd
	}
	page[0] = pageID
	page[1] = 0 // entryLengthHint == 0 signals Variable arrangement
	binary.BigEndian.PutUint16(page[2:4], uint16(len(entries)))

	offset := 4
	for _, e := range entries {
		if len(e.Key) == 0 || len(e.Key) > 255 {
			return page, fmt.Errorf("fixture: key %q length out of byte range", e.Key)
		}
		n := 1 + len(e.Key) + 12
		if offset+n > ebidx.PageSize {
			return page, fmt.Errorf("fixture: page overflow at key %q", e.Key)
		}
		page[offset] = byte(len(e.Key))
		copy(page[offset+1:offset+1+len(e.Key)], e.Key)
		base := offset + 1 + len(e.Key)
		putLocation(page[base:base+6], e.Text)
		putLocation(page[base+6:base+12], e.Heading)
		offset += n
	}
	return page, nil
}

// BuildSingletonGroupLeafPage lays out entries as a PAGE_ID_HAVE_GROUP_ENTRY
// leaf page using only 0x00 ("no grouping needed") records, the layout
// shared unchanged across word/keyword/multi leaves (spec §4.3.3(c)).
func BuildSingletonGroupLeafPage(entries []Entry, isLast bool) ([ebidx.PageSize]byte, error) {
	var page [ebidx.PageSize]byte
	pageID := byte(flagLeaf | flagGroup)
	if isLast {
		pageID |= flagLayerEnd
	}
	page[0] = pageID
	page[1] = 1 // non-zero entryLengthHint: arrangement is irrelevant once PAGE_ID_HAVE_GROUP_ENTRY is set
	binary.BigEndian.PutUint16(page[2:4], uint16(len(entries)))

	offset := 4
	for _, e := range entries {
		keyLength := len(e.Key)
		if keyLength == 0 || keyLength > 255 {
			return page, fmt.Errorf("fixture: key %q length out of byte range", e.Key)
		}
		n := keyLength + 14
		if offset+n > ebidx.PageSize {
			return page, fmt.Errorf("fixture: page overflow at key %q", e.Key)
		}
		page[offset] = groupSingleton
		page[offset+1] = byte(keyLength)
		copy(page[offset+2:offset+2+keyLength], e.Key)
		putLocation(page[offset+keyLength+2:offset+keyLength+8], e.Text)
		putLocation(page[offset+keyLength+8:offset+keyLength+14], e.Heading)
		offset += n
	}
	return page, nil
}

// BuildInternalPage lays out a non-leaf index page (spec §4.3.1): each
// entry is keyLength bytes of key followed by a 4-byte child page number.
// keys must already be in ascending order; childPages[i] is the page to
// descend to for keys <= keys[i].
func BuildInternalPage(keys [][]byte, childPages []uint32, keyLength int, isLast bool) ([ebidx.PageSize]byte, error) {
	var page [ebidx.PageSize]byte
	if len(keys) != len(childPages) {
		return page, fmt.Errorf("fixture: %d keys but %d child pages", len(keys), len(childPages))
	}
	pageID := byte(0)
	if isLast {
		pageID |= flagLayerEnd
	}
	page[0] = pageID
	if keyLength == 0 || keyLength > 255 {
		return page, fmt.Errorf("fixture: key length %d out of byte range", keyLength)
	}
	page[1] = byte(keyLength)
	binary.BigEndian.PutUint16(page[2:4], uint16(len(keys)))

	offset := 4
	for i, key := range keys {
		if len(key) != keyLength {
			return page, fmt.Errorf("fixture: key %q length %d, want %d", key, len(key), keyLength)
		}
		n := keyLength + 4
		if offset+n > ebidx.PageSize {
			return page, fmt.Errorf("fixture: page overflow at key %q", key)
		}
		copy(page[offset:offset+keyLength], key)
		binary.BigEndian.PutUint32(page[offset+keyLength:offset+keyLength+4], childPages[i])
		offset += n
	}
	return page, nil
}
