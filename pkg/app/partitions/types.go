package partitions

import (
	"github.com/deploymenttheory/go-gptinfo/internal/parsers/gpt"
)

// Request represents a partition report request
type Request struct {
	ImagePath  string
	SectorSize uint64

	// Selection
	Partitions []int
	All        bool

	Workers int
}

// Response represents a partition report
type Response struct {
	ImagePath   string           `json:"image_path" yaml:"image_path"`
	SectorSize  uint64           `json:"sector_size" yaml:"sector_size"`
	Requested   []int            `json:"requested,omitempty" yaml:"requested,omitempty"`
	Partitions  []gpt.Partition  `json:"partitions" yaml:"partitions"`
	Diagnostics []gpt.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// HeaderRequest represents a request for the decoded GPT header
type HeaderRequest struct {
	ImagePath  string
	SectorSize uint64
}

// HeaderResponse carries the decoded GPT header
type HeaderResponse struct {
	ImagePath  string      `json:"image_path" yaml:"image_path"`
	SectorSize uint64      `json:"sector_size" yaml:"sector_size"`
	Header     *gpt.Header `json:"header" yaml:"header"`
}

// selection returns the partition filter for the request. A nil set selects
// every slot.
func (r *Request) selection() gpt.PartitionSet {
	if r.All {
		return nil
	}
	return gpt.NewPartitionSet(r.Partitions...)
}
