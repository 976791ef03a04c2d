package gpt

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-gptinfo/internal/logging"
	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

// UnnamedPartition replaces names that are empty or cannot be decoded.
const UnnamedPartition = "(Unnamed)"

const bytesPerMiB = 1024 * 1024

// Partition is one occupied, decoded partition entry.
type Partition struct {
	Number         int      `json:"number" yaml:"number"`
	TypeGUID       [16]byte `json:"-" yaml:"-"`
	TypeGUIDString string   `json:"type_guid" yaml:"type_guid"`
	TypeName       string   `json:"type_name" yaml:"type_name"`
	UniqueGUID     string   `json:"unique_guid" yaml:"unique_guid"`
	StartLBA       uint64   `json:"start_lba" yaml:"start_lba"`
	EndLBA         uint64   `json:"end_lba" yaml:"end_lba"`
	Attributes     uint64   `json:"attributes" yaml:"attributes"`
	SizeMB         uint64   `json:"size_mb" yaml:"size_mb"`
	Name           string   `json:"name" yaml:"name"`
}

// Result carries the decoded partitions together with the per-entry faults
// that were skipped over.
type Result struct {
	Header      *Header      `json:"header,omitempty" yaml:"header,omitempty"`
	Partitions  []Partition  `json:"partitions" yaml:"partitions"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// PartitionSet is a set of 1-based partition numbers. A nil set selects every
// slot; an empty non-nil set selects none.
type PartitionSet map[int]struct{}

// NewPartitionSet builds a set from the given partition numbers.
func NewPartitionSet(numbers ...int) PartitionSet {
	s := make(PartitionSet, len(numbers))
	for _, n := range numbers {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether n is selected.
func (s PartitionSet) Contains(n int) bool {
	if s == nil {
		return true
	}
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order.
func (s PartitionSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// DecodeOption configures DecodeEntries.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	workers int
	logger  logr.Logger
}

// WithWorkers decodes slots on up to n goroutines. Values below 2 decode sequentially.
func WithWorkers(n int) DecodeOption {
	return func(o *decodeOptions) {
		o.workers = n
	}
}

// WithLogger sets the logger used for debug and trace output.
func WithLogger(logger logr.Logger) DecodeOption {
	return func(o *decodeOptions) {
		o.logger = logger
	}
}

// slotResult is the outcome of decoding a single slot.
type slotResult struct {
	partition   *Partition
	diagnostics []Diagnostic
}

// DecodeEntries reads the partition entry array described by header in a
// single read and decodes the slots whose partition number is in wanted.
// Unused slots (all-zero type GUID) are skipped. Per-entry faults are
// collected in Result.Diagnostics and never abort the call.
func DecodeEntries(src ByteReader, header *Header, sectorSize uint64, wanted PartitionSet, opts ...DecodeOption) (*Result, error) {
	o := decodeOptions{workers: 1, logger: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	result := &Result{Header: header, Partitions: []Partition{}}
	if header.NumberOfEntries == 0 {
		return result, nil
	}
	if header.EntrySize < types.GPTEntrySize {
		return nil, &FormatError{
			Err:    ErrEntrySize,
			Reason: fmt.Sprintf("header declares %d bytes, need at least %d", header.EntrySize, types.GPTEntrySize),
		}
	}

	tableLength := header.TableLength()
	if tableLength > math.MaxInt32 {
		return nil, &FormatError{
			Err:    ErrEntryTable,
			Reason: fmt.Sprintf("array of %d bytes is implausibly large", tableLength),
		}
	}
	tableOffset := header.TableOffset(sectorSize)
	if header.PartitionEntryLBA != 0 && tableOffset/header.PartitionEntryLBA != sectorSize {
		return nil, &FormatError{
			Err:    ErrEntryTable,
			Reason: fmt.Sprintf("LBA %d overflows the address space", header.PartitionEntryLBA),
		}
	}

	o.logger.V(logging.LevelDebug).Info("Reading partition entry array",
		"offset", tableOffset, "length", tableLength, "entries", header.NumberOfEntries)

	table, err := src.Read(tableOffset, int(tableLength))
	if err != nil {
		return nil, &IOError{Op: "partition entry array", Offset: tableOffset, Length: int(tableLength), Err: err}
	}

	entrySize := int(header.EntrySize)
	slots := make([]slotResult, header.NumberOfEntries)
	decode := func(i int) {
		number := i + 1
		if !wanted.Contains(number) {
			return
		}
		slots[i] = decodeSlot(number, table[i*entrySize:(i+1)*entrySize], sectorSize)
		if p := slots[i].partition; p != nil {
			o.logger.V(logging.LevelTrace).Info("Decoded partition entry",
				"partition", p.Number, "type", p.TypeName, "start", p.StartLBA, "end", p.EndLBA)
		}
	}

	if o.workers > 1 {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for i := range slots {
			i := i
			g.Go(func() error {
				decode(i)
				return nil
			})
		}
		// decode never fails; Wait only joins the workers
		_ = g.Wait()
	} else {
		for i := range slots {
			decode(i)
		}
	}

	for _, s := range slots {
		result.Diagnostics = append(result.Diagnostics, s.diagnostics...)
		if s.partition != nil {
			result.Partitions = append(result.Partitions, *s.partition)
		}
	}
	for _, d := range result.Diagnostics {
		o.logger.Info("Skipped faulty partition entry field", "partition", d.Partition, "kind", string(d.Kind), "reason", d.Err)
	}

	return result, nil
}

// decodeSlot decodes one entry slot. A nil partition means the slot was
// unused or could not be decoded.
func decodeSlot(number int, entry []byte, sectorSize uint64) slotResult {
	var res slotResult

	rawType := entry[types.EntryTypeGUIDOffset : types.EntryTypeGUIDOffset+types.GUIDSize]
	typeGUID, err := EncodeGUID(rawType)
	if err != nil {
		res.diagnostics = append(res.diagnostics, newDiagnostic(number, FaultTypeGUID, err))
		return res
	}
	if IsZeroGUID(rawType) {
		return res
	}

	uniqueGUID, _ := EncodeGUID(entry[types.EntryUniqueGUIDOffset : types.EntryUniqueGUIDOffset+types.GUIDSize])
	startLBA := binary.LittleEndian.Uint64(entry[types.EntryFirstLBAOffset:])
	endLBA := binary.LittleEndian.Uint64(entry[types.EntryLastLBAOffset:])

	name, err := decodeName(entry[types.EntryNameOffset:types.EntryNameEnd])
	if err != nil {
		res.diagnostics = append(res.diagnostics, newDiagnostic(number, FaultName, err))
		name = UnnamedPartition
	}

	p := &Partition{
		Number:         number,
		TypeGUIDString: typeGUID,
		TypeName:       LookupType(typeGUID),
		UniqueGUID:     uniqueGUID,
		StartLBA:       startLBA,
		EndLBA:         endLBA,
		Attributes:     binary.LittleEndian.Uint64(entry[types.EntryAttributesOffset:]),
		SizeMB:         SizeMB(startLBA, endLBA, sectorSize),
		Name:           name,
	}
	copy(p.TypeGUID[:], rawType)
	res.partition = p
	return res
}

// SizeMB returns the size of the inclusive LBA range in whole MiB.
func SizeMB(startLBA, endLBA, sectorSize uint64) uint64 {
	return (endLBA - startLBA + 1) * sectorSize / bytesPerMiB
}

// decodeName decodes a NUL-padded UTF-16LE partition name and strips control
// characters. Empty names become UnnamedPartition.
func decodeName(b []byte) (string, error) {
	end := len(b) &^ 1
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			end = i
			break
		}
	}

	// the decoder substitutes U+FFFD for unpaired surrogates, so they are
	// detected on the raw code units
	if err := checkSurrogates(b[:end]); err != nil {
		return "", err
	}

	decoded, err := xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder().Bytes(b[:end])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	name := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, string(decoded))
	if name == "" {
		return UnnamedPartition, nil
	}
	return name, nil
}

// checkSurrogates reports an unpaired surrogate in little-endian UTF-16 code
// units. A high surrogate must be followed directly by a low one.
func checkSurrogates(b []byte) error {
	for i := 0; i+1 < len(b); i += 2 {
		u := rune(binary.LittleEndian.Uint16(b[i:]))
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u >= 0xdc00 || i+3 >= len(b) {
			return fmt.Errorf("%w: unpaired surrogate 0x%04X at code unit %d", ErrInvalidName, u, i/2)
		}
		next := rune(binary.LittleEndian.Uint16(b[i+2:]))
		if next < 0xdc00 || next > 0xdfff {
			return fmt.Errorf("%w: unpaired surrogate 0x%04X at code unit %d", ErrInvalidName, u, i/2)
		}
		i += 2
	}
	return nil
}
