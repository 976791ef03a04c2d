package device

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReaderAt fails every read with err.
type failingReaderAt struct {
	err error
}

func (f failingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return 0, f.err
}

// trackingCloser records whether Close was called.
type trackingCloser struct {
	*bytes.Reader
	closed int
}

func (t *trackingCloser) Close() error {
	t.closed++
	return nil
}

func TestSourceRead(t *testing.T) {
	data := []byte("0123456789abcdef")

	tests := []struct {
		name    string
		size    int64
		offset  uint64
		length  int
		want    []byte
		wantErr error
	}{
		{name: "start of medium", size: int64(len(data)), offset: 0, length: 4, want: []byte("0123")},
		{name: "middle of medium", size: int64(len(data)), offset: 6, length: 3, want: []byte("678")},
		{name: "exactly to end", size: int64(len(data)), offset: 12, length: 4, want: []byte("cdef")},
		{name: "zero length", size: int64(len(data)), offset: 3, length: 0, want: []byte{}},
		{name: "past end with known size", size: int64(len(data)), offset: 14, length: 4, wantErr: ErrShortRead},
		{name: "past end with unknown size", size: -1, offset: 14, length: 4, wantErr: ErrShortRead},
		{name: "offset beyond medium", size: -1, offset: 100, length: 1, wantErr: ErrShortRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource(bytes.NewReader(data), tt.size)

			got, err := src.Read(tt.offset, tt.length)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceReadPropagatesReaderError(t *testing.T) {
	cause := errors.New("device gone")
	src := NewSource(failingReaderAt{err: cause}, -1)

	_, err := src.Read(0, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrShortRead)
}

func TestSourceReadRejectsOverflow(t *testing.T) {
	src := NewSource(bytes.NewReader(nil), -1)

	_, err := src.Read(^uint64(0), 16)
	assert.Error(t, err)

	_, err = src.Read(0, -1)
	assert.Error(t, err)
}

func TestSourceCloseIsIdempotent(t *testing.T) {
	rc := &trackingCloser{Reader: bytes.NewReader([]byte("x"))}
	src := NewSource(rc, 1)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.Equal(t, 1, rc.closed)
}

func TestOpen(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "disk.img")
		require.NoError(t, os.WriteFile(path, []byte("EFI PART"), 0o600))

		src, err := Open(path)
		require.NoError(t, err)
		defer src.Close()

		assert.Equal(t, int64(8), src.Size())
		assert.Equal(t, path, src.Path())

		got, err := src.Read(0, 8)
		require.NoError(t, err)
		assert.Equal(t, "EFI PART", string(got))

		_, err = src.Read(4, 8)
		assert.ErrorIs(t, err, ErrShortRead)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "missing.img"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

var _ io.ReaderAt = failingReaderAt{}
