// Package helpers builds synthetic GPT disk images for tests.
package helpers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

// Fixed GUID bytes written into every image, as stored on disk.
var (
	DiskGUID   = [16]byte{0xde, 0xad, 0xbe, 0xef}
	UniqueGUID = [16]byte{0x01, 0x02, 0x03, 0x04}
)

// Entry describes one occupied slot.
type Entry struct {
	Slot     int // 0-based
	TypeGUID string
	RawType  *[16]byte // overrides TypeGUID when set
	StartLBA uint64
	EndLBA   uint64
	Name     string
	RawName  []byte // overrides Name when set
}

// Image describes a disk image with a primary GPT.
type Image struct {
	SectorSize uint64
	EntryLBA   uint64
	EntryCount uint32
	EntrySize  uint32
	Signature  string
	Entries    []Entry
}

// NewImage returns a 512-byte-sector image with the usual 128 x 128-byte
// entry array at LBA 2.
func NewImage(entries ...Entry) Image {
	return Image{
		SectorSize: types.DefaultSectorSize,
		EntryLBA:   2,
		EntryCount: 128,
		EntrySize:  types.GPTEntrySize,
		Signature:  types.GPTSignature,
		Entries:    entries,
	}
}

// MixedEndianGUID converts a canonical GUID string to its on-disk byte order.
func MixedEndianGUID(s string) ([16]byte, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, err
	}
	var out [16]byte
	copy(out[:], u[:])
	out[0], out[1], out[2], out[3] = u[3], u[2], u[1], u[0]
	out[4], out[5] = u[5], u[4]
	out[6], out[7] = u[7], u[6]
	return out, nil
}

// EncodeName returns the UTF-16LE bytes of name, NUL padded to the 72-byte field.
func EncodeName(name string) []byte {
	buf := make([]byte, types.GPTNameLength*2)
	for i, u := range utf16.Encode([]rune(name)) {
		if i*2+1 >= len(buf) {
			break
		}
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

// Bytes lays the image out in memory: protective MBR sector, header at LBA 1
// and the entry array at EntryLBA.
func (img Image) Bytes() ([]byte, error) {
	tableBytes := uint64(img.EntryCount) * uint64(img.EntrySize)
	size := img.EntryLBA*img.SectorSize + tableBytes
	if minSize := 2 * img.SectorSize; size < minSize {
		size = minSize
	}
	disk := make([]byte, size)

	header := types.GPTHeader{
		Revision:                 0x00010000,
		HeaderSize:               types.GPTHeaderSize,
		MyLBA:                    types.GPTHeaderLBA,
		FirstUsableLBA:           34,
		DiskGUID:                 DiskGUID,
		PartitionEntryLBA:        img.EntryLBA,
		NumberOfPartitionEntries: img.EntryCount,
		SizeOfPartitionEntry:     img.EntrySize,
	}
	copy(header.Signature[:], img.Signature)

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	copy(disk[img.SectorSize:], buf.Bytes())

	for _, e := range img.Entries {
		var raw types.GPTPartitionEntry
		if e.RawType != nil {
			raw.PartitionTypeGUID = *e.RawType
		} else {
			guid, err := MixedEndianGUID(e.TypeGUID)
			if err != nil {
				return nil, fmt.Errorf("slot %d: %w", e.Slot, err)
			}
			raw.PartitionTypeGUID = guid
		}
		raw.UniquePartitionGUID = UniqueGUID
		raw.FirstLBA = e.StartLBA
		raw.LastLBA = e.EndLBA
		if e.RawName != nil {
			copy(raw.PartitionName[:], e.RawName)
		} else {
			copy(raw.PartitionName[:], EncodeName(e.Name))
		}

		buf.Reset()
		if err := binary.Write(buf, binary.LittleEndian, raw); err != nil {
			return nil, err
		}
		off := img.EntryLBA*img.SectorSize + uint64(e.Slot)*uint64(img.EntrySize)
		if off+uint64(buf.Len()) > uint64(len(disk)) {
			return nil, fmt.Errorf("slot %d lies outside the entry array", e.Slot)
		}
		copy(disk[off:], buf.Bytes())
	}

	return disk, nil
}

// WriteImage writes img to disk.raw in dir and returns its path.
func WriteImage(dir string, img Image) (string, error) {
	data, err := img.Bytes()
	if err != nil {
		return "", fmt.Errorf("building image: %w", err)
	}
	return WriteFile(dir, data)
}

// WriteFile writes raw bytes to disk.raw in dir and returns its path.
func WriteFile(dir string, data []byte) (string, error) {
	path := filepath.Join(dir, "disk.raw")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return path, nil
}
