package device

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// ErrShortRead is returned when the backing medium ends before the requested range does.
var ErrShortRead = errors.New("short read")

// Source provides positioned, exact-length reads over a disk image.
type Source struct {
	reader io.ReaderAt
	closer io.Closer
	size   int64 // -1 when unknown
	path   string

	closeOnce sync.Once
	closeErr  error
}

// Open opens a raw disk image for reading. The caller owns the returned
// Source and must Close it.
func Open(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open disk image: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat disk image: %w", err)
	}

	return &Source{
		reader: file,
		closer: file,
		size:   stat.Size(),
		path:   path,
	}, nil
}

// NewSource wraps an existing reader. Pass a negative size when the length of
// the medium is not known up front.
func NewSource(r io.ReaderAt, size int64) *Source {
	s := &Source{reader: r, size: size}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Read returns exactly length bytes starting at the absolute byte offset.
// A medium shorter than offset+length is an error, never a partial result.
func (s *Source) Read(offset uint64, length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("invalid read length %d", length)
	}
	if offset > math.MaxInt64 || (length > 0 && offset > uint64(math.MaxInt64-int64(length))) {
		return nil, fmt.Errorf("read range at offset %d length %d overflows", offset, length)
	}
	if s.size >= 0 && int64(offset)+int64(length) > s.size {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, medium is %d bytes",
			ErrShortRead, length, offset, s.size)
	}

	buf := make([]byte, length)
	n, err := s.reader.ReadAt(buf, int64(offset))
	if n == length {
		// io.ReaderAt may report io.EOF alongside a full read at the end of the medium
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: read %d of %d bytes at offset %d", ErrShortRead, n, length, offset)
	}
	return nil, fmt.Errorf("read %d bytes at offset %d: %w", length, offset, err)
}

// Size returns the size of the medium in bytes, or -1 if unknown.
func (s *Source) Size() int64 {
	return s.size
}

// Path returns the image path for sources created by Open.
func (s *Source) Path() string {
	return s.path
}

// Close releases the underlying file. It is safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		if s.closer != nil {
			s.closeErr = s.closer.Close()
		}
	})
	return s.closeErr
}
