package gpt

import (
	"errors"
	"fmt"
)

var (
	// ErrNotGPT is returned when LBA 1 does not carry the "EFI PART" signature.
	ErrNotGPT = errors.New("not a valid GPT disk")

	// ErrEntrySize is returned when the header declares entry slots too small to hold an entry.
	ErrEntrySize = errors.New("partition entry size too small")

	// ErrEntryTable is returned when the partition entry array cannot be located or sized.
	ErrEntryTable = errors.New("invalid partition entry array")

	// ErrGUIDLength is returned by EncodeGUID for input that is not exactly 16 bytes.
	ErrGUIDLength = errors.New("GUID must be exactly 16 bytes")

	// ErrInvalidName is reported when a partition name is not valid UTF-16LE.
	ErrInvalidName = errors.New("partition name is not valid UTF-16LE")
)

// FormatError reports a structurally invalid GPT. It is fatal for the whole parse.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IOError reports a failed or truncated read of the disk image. It is fatal
// for the whole parse.
type IOError struct {
	Op     string
	Offset uint64
	Length int
	Err    error
}

func (e *IOError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("failed to access %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to read %s (%d bytes at offset %d): %v", e.Op, e.Length, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FaultKind classifies a non-fatal, per-entry decode fault.
type FaultKind string

const (
	FaultTypeGUID FaultKind = "type_guid"
	FaultName     FaultKind = "name"
)

// Diagnostic describes a fault confined to one partition entry. Decoding
// continues with the next slot.
type Diagnostic struct {
	Partition int       `json:"partition" yaml:"partition"`
	Kind      FaultKind `json:"kind" yaml:"kind"`
	Err       error     `json:"-" yaml:"-"`
	Message   string    `json:"message" yaml:"message"`
}

func newDiagnostic(partition int, kind FaultKind, err error) Diagnostic {
	var msg string
	switch kind {
	case FaultTypeGUID:
		msg = fmt.Sprintf("Partition %d type GUID parse failed: %v", partition, err)
	case FaultName:
		msg = fmt.Sprintf("Partition %d name decode failed: %v", partition, err)
	default:
		msg = fmt.Sprintf("Partition %d: %v", partition, err)
	}
	return Diagnostic{Partition: partition, Kind: kind, Err: err, Message: msg}
}

func (d Diagnostic) String() string {
	return d.Message
}
