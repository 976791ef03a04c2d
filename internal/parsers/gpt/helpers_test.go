package gpt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-gptinfo/internal/device"
	"github.com/deploymenttheory/go-gptinfo/internal/helpers"
	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

const (
	testSectorSize = 512
	espGUID        = "C12A7328-F81F-11D2-BA4B-00A0C93EC93B"
	linuxDataGUID  = "0FC63DAF-8483-4772-8E79-3D69D8477DE4"
	msBasicGUID    = "EBD0A0A2-B9E5-4433-87C0-68B6B72699C7"
	unknownGUID    = "11111111-2222-3333-4444-555555555555"
)

// testEntry describes one occupied slot in a synthetic image.
type testEntry struct {
	slot     int
	typeGUID string
	rawType  *[16]byte // overrides typeGUID when set
	start    uint64
	end      uint64
	name     string
	rawName  []byte // overrides name when set
}

// testImage describes a synthetic disk image with a primary GPT.
type testImage struct {
	sectorSize uint64
	entryLBA   uint64
	entryCount uint32
	entrySize  uint32
	signature  string
	entries    []testEntry
}

func defaultImage(entries ...testEntry) testImage {
	return testImage{
		sectorSize: testSectorSize,
		entryLBA:   2,
		entryCount: 128,
		entrySize:  types.GPTEntrySize,
		signature:  types.GPTSignature,
		entries:    entries,
	}
}

func encodeName(name string) []byte {
	return helpers.EncodeName(name)
}

// build lays the image out in memory through the shared image builder.
func (img testImage) build(t *testing.T) []byte {
	t.Helper()

	image := helpers.Image{
		SectorSize: img.sectorSize,
		EntryLBA:   img.entryLBA,
		EntryCount: img.entryCount,
		EntrySize:  img.entrySize,
		Signature:  img.signature,
	}
	for _, e := range img.entries {
		image.Entries = append(image.Entries, helpers.Entry{
			Slot:     e.slot,
			TypeGUID: e.typeGUID,
			RawType:  e.rawType,
			StartLBA: e.start,
			EndLBA:   e.end,
			Name:     e.name,
			RawName:  e.rawName,
		})
	}

	data, err := image.Bytes()
	require.NoError(t, err)
	return data
}

func (img testImage) source(t *testing.T) *device.Source {
	t.Helper()
	data := img.build(t)
	return device.NewSource(bytes.NewReader(data), int64(len(data)))
}

// writeFile writes raw image bytes to a per-test temporary directory.
func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path, err := helpers.WriteFile(t.TempDir(), data)
	require.NoError(t, err)
	return path
}
