package partitions

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-gptinfo/internal/parsers/gpt"
)

func sampleResponse() *Response {
	return &Response{
		ImagePath:  "disk.raw",
		SectorSize: 512,
		Requested:  []int{1, 2, 13},
		Partitions: []gpt.Partition{
			{
				Number:         1,
				TypeGUIDString: espGUID,
				TypeName:       "EFI System Partition",
				StartLBA:       34,
				EndLBA:         98,
				SizeMB:         0,
				Name:           "EFI",
			},
			{
				Number:         13,
				TypeGUIDString: linuxDataGUID,
				TypeName:       "Linux Filesystem Data",
				StartLBA:       4096,
				EndLBA:         8191,
				SizeMB:         2,
				Name:           gpt.UnnamedPartition,
			},
		},
		Diagnostics: []gpt.Diagnostic{
			{Partition: 2, Kind: gpt.FaultTypeGUID, Message: "Partition 2 type GUID parse failed: bad"},
			{Partition: 13, Kind: gpt.FaultName, Message: "Partition 13 name decode failed: bad"},
		},
	}
}

func TestFormatOutputText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, FormatOutput(buf, sampleResponse(), "text"))

	expected := "Partition 1\n" +
		"  Type GUID : C12A7328-F81F-11D2-BA4B-00A0C93EC93B\n" +
		"  Type Name : EFI System Partition\n" +
		"  Start LBA : 34\n" +
		"  End LBA   : 98\n" +
		"  Size      : 0 MB\n" +
		"  Name      : EFI\n" +
		"\n" +
		"Partition 2 type GUID parse failed: bad\n" +
		"Partition 13 name decode failed: bad\n" +
		"Partition 13\n" +
		"  Type GUID : 0FC63DAF-8483-4772-8E79-3D69D8477DE4\n" +
		"  Type Name : Linux Filesystem Data\n" +
		"  Start LBA : 4096\n" +
		"  End LBA   : 8191\n" +
		"  Size      : 2 MB\n" +
		"  Name      : (Unnamed)\n" +
		"\n"
	assert.Equal(t, expected, buf.String())
}

func TestFormatOutputEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, FormatOutput(buf, &Response{ImagePath: "disk.raw"}, "text"))
	assert.Empty(t, buf.String())
}

func TestFormatOutputJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, FormatOutput(buf, sampleResponse(), "json"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "disk.raw", decoded["image_path"])

	parts, ok := decoded["partitions"].([]interface{})
	require.True(t, ok)
	require.Len(t, parts, 2)
	first := parts[0].(map[string]interface{})
	assert.Equal(t, espGUID, first["type_guid"])
	assert.Equal(t, float64(98), first["end_lba"])

	diags, ok := decoded["diagnostics"].([]interface{})
	require.True(t, ok)
	assert.Len(t, diags, 2)
}

func TestFormatOutputYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, FormatOutput(buf, sampleResponse(), "yaml"))

	var decoded struct {
		SectorSize uint64 `yaml:"sector_size"`
		Partitions []struct {
			Number int    `yaml:"number"`
			Name   string `yaml:"name"`
		} `yaml:"partitions"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, uint64(512), decoded.SectorSize)
	require.Len(t, decoded.Partitions, 2)
	assert.Equal(t, 13, decoded.Partitions[1].Number)
	assert.Equal(t, "(Unnamed)", decoded.Partitions[1].Name)
}

func TestFormatOutputUnsupported(t *testing.T) {
	err := FormatOutput(&bytes.Buffer{}, sampleResponse(), "xml")
	assert.EqualError(t, err, "unsupported output format: xml")
}

func TestFormatHeader(t *testing.T) {
	resp := &HeaderResponse{
		ImagePath:  "disk.raw",
		SectorSize: 512,
		Header: &gpt.Header{
			Signature:         "EFI PART",
			Revision:          0x00010000,
			HeaderSize:        92,
			MyLBA:             1,
			DiskGUID:          "EFBEADDE-0000-0000-0000-000000000000",
			PartitionEntryLBA: 2,
			NumberOfEntries:   128,
			EntrySize:         128,
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, FormatHeader(buf, resp, "text"))
	out := buf.String()
	assert.Contains(t, out, "Signature        : EFI PART")
	assert.Contains(t, out, "Revision         : 1.0")
	assert.Contains(t, out, "Disk GUID        : EFBEADDE-0000-0000-0000-000000000000")
	assert.Contains(t, out, "Entry Count      : 128")

	buf.Reset()
	require.NoError(t, FormatHeader(buf, resp, "json"))
	assert.Contains(t, buf.String(), `"partition_entry_lba": 2`)

	assert.Error(t, FormatHeader(buf, resp, "csv"))
}

func TestFormatTypes(t *testing.T) {
	entries := []gpt.PartitionType{
		{GUID: espGUID, Name: "EFI System Partition"},
		{GUID: linuxDataGUID, Name: "Linux Filesystem Data"},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, FormatTypes(buf, entries, "text"))
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "GUID                                  NAME", string(lines[0]))
	assert.Equal(t, espGUID+"  EFI System Partition", string(lines[2]))

	buf.Reset()
	require.NoError(t, FormatTypes(buf, entries, "yaml"))
	assert.Contains(t, buf.String(), "name: Linux Filesystem Data")
}
