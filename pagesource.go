package ebidx

import (
	"io"
	"os"

	"github.com/kanjidb/ebidx/internal/mmap"
)

// PageSource is a random-access reader over one of a subbook's streams
// (text or appendix), always addressed in whole PageSize blocks. Dictionary
// decompression is an external collaborator (spec §1): a PageSource may sit
// on top of a decompressing reader, so long as it presents this interface.
type PageSource interface {
	// ReadPage reads page p (1-based) into buf[:PageSize]. Short reads are
	// errors. Errors are returned as *Error with ErrFailSeekText/
	// ErrFailReadText so callers can distinguish I/O failure from format
	// corruption.
	ReadPage(p uint32, buf []byte) error

	// Close releases the underlying file handle or mapping.
	Close() error
}

// FilePageSource reads pages from a plain os.File with positioned reads
// (ReadAt), for callers that would rather not map the whole subbook (or
// whose decompression layer only exposes an io.ReaderAt-like contract).
type FilePageSource struct {
	f *os.File
}

// OpenFilePageSource opens path for a FilePageSource.
func OpenFilePageSource(path string) (*FilePageSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FilePageSource{f: f}, nil
}

// NewFilePageSource wraps an already-open file, e.g. one a decompression
// layer has prepared.
func NewFilePageSource(f *os.File) *FilePageSource {
	return &FilePageSource{f: f}
}

func (s *FilePageSource) ReadPage(p uint32, buf []byte) error {
	if len(buf) < PageSize {
		return WrapError(ErrFailReadText, io.ErrShortBuffer)
	}
	offset := int64(p-1) * PageSize
	n, err := s.f.ReadAt(buf[:PageSize], offset)
	if err != nil && !(err == io.EOF && n == PageSize) {
		return WrapError(ErrFailReadText, err)
	}
	if n != PageSize {
		return WrapError(ErrFailReadText, io.ErrUnexpectedEOF)
	}
	return nil
}

func (s *FilePageSource) Close() error {
	return s.f.Close()
}

// MmapPageSource reads pages directly out of a read-only memory mapping of
// the whole stream, avoiding a syscall per page for the common uncompressed
// case. Built on the teacher's mmap package (golang.org/x/sys), trimmed to
// its read-only path.
type MmapPageSource struct {
	m *mmap.Map
}

// OpenMmapPageSource maps path read-only.
func OpenMmapPageSource(path string) (*MmapPageSource, error) {
	m, err := mmap.MapFile(path)
	if err != nil {
		return nil, err
	}
	_ = m.AdviseRandom()
	return &MmapPageSource{m: m}, nil
}

func (s *MmapPageSource) ReadPage(p uint32, buf []byte) error {
	data := s.m.Data()
	start := int64(p-1) * PageSize
	if start < 0 || start+PageSize > int64(len(data)) {
		return WrapError(ErrFailReadText, io.ErrUnexpectedEOF)
	}
	copy(buf[:PageSize], data[start:start+PageSize])
	return nil
}

func (s *MmapPageSource) Close() error {
	return s.m.Close()
}
