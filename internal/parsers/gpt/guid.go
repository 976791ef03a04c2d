package gpt

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

// ZeroGUID is the canonical form of the all-zero GUID that marks an unused slot.
const ZeroGUID = "00000000-0000-0000-0000-000000000000"

// swapGUIDEndianness converts between the GPT on-disk layout and RFC 4122 byte
// order. The first three fields are stored little-endian, the last two as-is.
// The conversion is its own inverse.
func swapGUIDEndianness(b []byte) [16]byte {
	var out [16]byte
	out[0], out[1], out[2], out[3] = b[3], b[2], b[1], b[0]
	out[4], out[5] = b[5], b[4]
	out[6], out[7] = b[7], b[6]
	copy(out[8:], b[8:16])
	return out
}

// EncodeGUID renders 16 on-disk GUID bytes in canonical uppercase
// 8-4-4-4-12 form, e.g. C12A7328-F81F-11D2-BA4B-00A0C93EC93B.
func EncodeGUID(b []byte) (string, error) {
	if len(b) != types.GUIDSize {
		return "", fmt.Errorf("%w: got %d", ErrGUIDLength, len(b))
	}
	canonical := swapGUIDEndianness(b)
	u, err := uuid.FromBytes(canonical[:])
	if err != nil {
		return "", err
	}
	return strings.ToUpper(u.String()), nil
}

// DecodeGUID parses a canonical GUID string into its 16-byte on-disk layout.
func DecodeGUID(s string) ([16]byte, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, fmt.Errorf("invalid GUID %q: %w", s, err)
	}
	return swapGUIDEndianness(u[:]), nil
}

// IsZeroGUID reports whether every byte of b is zero.
func IsZeroGUID(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
