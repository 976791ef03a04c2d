package gpt

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

// ByteReader is the read contract the parser needs from a disk image.
// *device.Source satisfies it.
type ByteReader interface {
	// Read returns exactly length bytes at the absolute byte offset.
	Read(offset uint64, length int) ([]byte, error)
}

// Header holds the fields of the primary GPT header.
type Header struct {
	Signature         string `json:"signature" yaml:"signature"`
	Revision          uint32 `json:"revision" yaml:"revision"`
	HeaderSize        uint32 `json:"header_size" yaml:"header_size"`
	MyLBA             uint64 `json:"my_lba" yaml:"my_lba"`
	AlternateLBA      uint64 `json:"alternate_lba" yaml:"alternate_lba"`
	FirstUsableLBA    uint64 `json:"first_usable_lba" yaml:"first_usable_lba"`
	LastUsableLBA     uint64 `json:"last_usable_lba" yaml:"last_usable_lba"`
	DiskGUID          string `json:"disk_guid" yaml:"disk_guid"`
	PartitionEntryLBA uint64 `json:"partition_entry_lba" yaml:"partition_entry_lba"`
	NumberOfEntries   uint32 `json:"entry_count" yaml:"entry_count"`
	EntrySize         uint32 `json:"entry_size" yaml:"entry_size"`
}

// TableOffset returns the absolute byte offset of the partition entry array.
func (h *Header) TableOffset(sectorSize uint64) uint64 {
	return h.PartitionEntryLBA * sectorSize
}

// TableLength returns the byte length of the partition entry array.
func (h *Header) TableLength() uint64 {
	return uint64(h.NumberOfEntries) * uint64(h.EntrySize)
}

// ReadHeader reads and validates the primary GPT header at LBA 1. The
// checksums are not verified.
func ReadHeader(src ByteReader, sectorSize uint64) (*Header, error) {
	if sectorSize < types.GPTHeaderSize || sectorSize > types.MaxSectorSize {
		return nil, fmt.Errorf("unsupported sector size %d: must be between %d and %d bytes",
			sectorSize, types.GPTHeaderSize, types.MaxSectorSize)
	}

	offset := types.GPTHeaderLBA * sectorSize
	data, err := src.Read(offset, int(sectorSize))
	if err != nil {
		return nil, &IOError{Op: "GPT header", Offset: offset, Length: int(sectorSize), Err: err}
	}

	if string(data[:len(types.GPTSignature)]) != types.GPTSignature {
		return nil, &FormatError{
			Err:    ErrNotGPT,
			Reason: fmt.Sprintf("found signature %q at offset %d", data[:len(types.GPTSignature)], offset),
		}
	}

	var raw types.GPTHeader
	if err := binary.Read(bytes.NewReader(data[:types.GPTHeaderSize]), binary.LittleEndian, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse GPT header binary data: %w", err)
	}

	// EncodeGUID cannot fail on a [16]byte
	diskGUID, _ := EncodeGUID(raw.DiskGUID[:])

	return &Header{
		Signature:         string(raw.Signature[:]),
		Revision:          raw.Revision,
		HeaderSize:        raw.HeaderSize,
		MyLBA:             raw.MyLBA,
		AlternateLBA:      raw.AlternateLBA,
		FirstUsableLBA:    raw.FirstUsableLBA,
		LastUsableLBA:     raw.LastUsableLBA,
		DiskGUID:          diskGUID,
		PartitionEntryLBA: raw.PartitionEntryLBA,
		NumberOfEntries:   raw.NumberOfPartitionEntries,
		EntrySize:         raw.SizeOfPartitionEntry,
	}, nil
}
