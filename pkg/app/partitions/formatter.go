package partitions

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-gptinfo/internal/parsers/gpt"
)

// FormatOutput writes a partition report in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "text", "":
		return formatText(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatHeader writes a header report in the requested format
func FormatHeader(w io.Writer, response *HeaderResponse, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "text", "":
		return formatHeaderText(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatTypes writes the partition type registry in the requested format
func FormatTypes(w io.Writer, entries []gpt.PartitionType, format string) error {
	switch format {
	case "json":
		return formatJSON(w, entries)
	case "yaml":
		return formatYAML(w, entries)
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "GUID\tNAME\n")
		fmt.Fprintf(tw, "----\t----\n")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.GUID, e.Name)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatText prints one block per partition in slot order. Diagnostics are
// printed inline ahead of the block for the same slot.
func formatText(w io.Writer, response *Response) error {
	diags := make(map[int][]gpt.Diagnostic)
	numbers := make([]int, 0, len(response.Partitions)+len(response.Diagnostics))
	for _, d := range response.Diagnostics {
		if _, seen := diags[d.Partition]; !seen {
			numbers = append(numbers, d.Partition)
		}
		diags[d.Partition] = append(diags[d.Partition], d)
	}

	blocks := make(map[int]gpt.Partition, len(response.Partitions))
	for _, p := range response.Partitions {
		if _, seen := diags[p.Number]; !seen {
			numbers = append(numbers, p.Number)
		}
		blocks[p.Number] = p
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		for _, d := range diags[n] {
			if _, err := fmt.Fprintln(w, d.Message); err != nil {
				return err
			}
		}
		p, ok := blocks[n]
		if !ok {
			continue
		}
		if err := writeBlock(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writeBlock(w io.Writer, p gpt.Partition) error {
	_, err := fmt.Fprintf(w, "Partition %d\n"+
		"  Type GUID : %s\n"+
		"  Type Name : %s\n"+
		"  Start LBA : %d\n"+
		"  End LBA   : %d\n"+
		"  Size      : %d MB\n"+
		"  Name      : %s\n\n",
		p.Number, p.TypeGUIDString, p.TypeName, p.StartLBA, p.EndLBA, p.SizeMB, p.Name)
	return err
}

func formatHeaderText(w io.Writer, response *HeaderResponse) error {
	h := response.Header
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Image\t: %s\n", response.ImagePath)
	fmt.Fprintf(tw, "Sector Size\t: %d\n", response.SectorSize)
	fmt.Fprintf(tw, "Signature\t: %s\n", h.Signature)
	fmt.Fprintf(tw, "Revision\t: %d.%d\n", h.Revision>>16, h.Revision&0xffff)
	fmt.Fprintf(tw, "Header Size\t: %d\n", h.HeaderSize)
	fmt.Fprintf(tw, "My LBA\t: %d\n", h.MyLBA)
	fmt.Fprintf(tw, "Alternate LBA\t: %d\n", h.AlternateLBA)
	fmt.Fprintf(tw, "First Usable LBA\t: %d\n", h.FirstUsableLBA)
	fmt.Fprintf(tw, "Last Usable LBA\t: %d\n", h.LastUsableLBA)
	fmt.Fprintf(tw, "Disk GUID\t: %s\n", h.DiskGUID)
	fmt.Fprintf(tw, "Entry Array LBA\t: %d\n", h.PartitionEntryLBA)
	fmt.Fprintf(tw, "Entry Count\t: %d\n", h.NumberOfEntries)
	fmt.Fprintf(tw, "Entry Size\t: %d\n", h.EntrySize)
	return tw.Flush()
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(v)
}
