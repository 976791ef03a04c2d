// Package types holds the on-disk layout of the GUID Partition Table.
// Reference: UEFI Specification 2.10, Chapter 5.
package types

// GPT header and partition entry layout constants
const (
	// DefaultSectorSize is the logical block size assumed when none is configured.
	DefaultSectorSize = 512

	// MaxSectorSize bounds the sector size accepted from configuration.
	MaxSectorSize = 1 << 20

	// GPTHeaderLBA is the LBA of the primary GPT header. LBA 0 holds the protective MBR.
	GPTHeaderLBA = 1

	// GPTSignature is the ASCII tag at the start of every GPT header.
	GPTSignature = "EFI PART"

	// GPTHeaderSize is the size of the defined portion of the header (up to the entry array CRC32).
	GPTHeaderSize = 92

	// GPTEntrySize is the minimum, and usual, size of one partition entry slot.
	GPTEntrySize = 128

	// GPTNameLength is the number of UTF-16 code units reserved for a partition name.
	GPTNameLength = 36

	// GUIDSize is the size of an on-disk GUID.
	GUIDSize = 16
)

// Byte offsets of the header fields.
// Reference: UEFI Specification 2.10, Table 5-5
const (
	HeaderSignatureOffset      = 0
	HeaderRevisionOffset       = 8
	HeaderSizeOffset           = 12
	HeaderCRC32Offset          = 16
	HeaderMyLBAOffset          = 24
	HeaderAlternateLBAOffset   = 32
	HeaderFirstUsableLBAOffset = 40
	HeaderLastUsableLBAOffset  = 48
	HeaderDiskGUIDOffset       = 56
	HeaderEntryLBAOffset       = 72 // Starting LBA of the partition entry array
	HeaderEntryCountOffset     = 80 // Number of slots in the array
	HeaderEntrySizeOffset      = 84 // Size of each slot
	HeaderEntryArrayCRC32      = 88
)

// Byte offsets of the partition entry fields.
// Reference: UEFI Specification 2.10, Table 5-6
const (
	EntryTypeGUIDOffset   = 0
	EntryUniqueGUIDOffset = 16
	EntryFirstLBAOffset   = 32
	EntryLastLBAOffset    = 40
	EntryAttributesOffset = 48
	EntryNameOffset       = 56
	EntryNameEnd          = EntryNameOffset + GPTNameLength*2 // 128
)

// GPTHeader mirrors the defined portion of the GPT header as stored on disk.
// All integers are little-endian. It is used with encoding/binary, so field
// order and widths must not change.
type GPTHeader struct {
	Signature                [8]byte
	Revision                 uint32
	HeaderSize               uint32
	HeaderCRC32              uint32 // not verified
	Reserved                 uint32
	MyLBA                    uint64
	AlternateLBA             uint64
	FirstUsableLBA           uint64
	LastUsableLBA            uint64
	DiskGUID                 [16]byte
	PartitionEntryLBA        uint64
	NumberOfPartitionEntries uint32
	SizeOfPartitionEntry     uint32
	PartitionEntryArrayCRC32 uint32 // not verified
}

// GPTPartitionEntry mirrors one 128-byte partition entry as stored on disk.
type GPTPartitionEntry struct {
	PartitionTypeGUID   [16]byte
	UniquePartitionGUID [16]byte
	FirstLBA            uint64
	LastLBA             uint64
	Attributes          uint64
	PartitionName       [72]byte // UTF-16LE
}
