package ebidx

// Location identifies a byte position in the text stream: a 1-based page
// number and a byte offset within that page.
type Location struct {
	Page   uint32
	Offset uint16
}

// IsZero reports whether l is the zero Location (used as a "not yet set"
// sentinel for keyword group headings before their 0x80 header is read).
func (l Location) IsZero() bool {
	return l.Page == 0 && l.Offset == 0
}

// Hit is a single search result: an independent heading address and text
// address.
type Hit struct {
	Heading Location
	Text    Location
}

// compareText orders two Hits by their Text Location, the order the AND
// merge (spec §4.3.4) and the compound-query output both rely on.
func compareText(a, b Hit) int {
	if a.Text.Page != b.Text.Page {
		if a.Text.Page < b.Text.Page {
			return -1
		}
		return 1
	}
	switch {
	case a.Text.Offset < b.Text.Offset:
		return -1
	case a.Text.Offset > b.Text.Offset:
		return 1
	default:
		return 0
	}
}

func readUint16BE(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func readUint32BE(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// readLocation decodes a 6-byte {page uint32, offset uint16} pair.
func readLocation(b []byte) Location {
	return Location{Page: readUint32BE(b[0:4]), Offset: readUint16BE(b[4:6])}
}
