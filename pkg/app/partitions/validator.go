package partitions

import (
	"fmt"

	"github.com/deploymenttheory/go-gptinfo/internal/types"
	"github.com/deploymenttheory/go-gptinfo/pkg/app"
)

// Validate validates the partition report request
func (r *Request) Validate() error {
	if r.ImagePath == "" {
		return app.NewError(app.ErrCodeUsage, "disk image path is required", nil)
	}

	if err := validateSectorSize(r.SectorSize); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid sector size", err)
	}

	if r.Workers < 0 {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("workers must not be negative, got %d", r.Workers), nil)
	}

	if !r.All {
		if len(r.Partitions) == 0 {
			return app.NewError(app.ErrCodeInvalidInput, "no partition numbers selected", nil)
		}
		for _, n := range r.Partitions {
			if n < 1 {
				return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("partition numbers are 1-based, got %d", n), nil)
			}
		}
	}

	return nil
}

// Validate validates the header request
func (r *HeaderRequest) Validate() error {
	if r.ImagePath == "" {
		return app.NewError(app.ErrCodeUsage, "disk image path is required", nil)
	}
	if err := validateSectorSize(r.SectorSize); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid sector size", err)
	}
	return nil
}

// validateSectorSize accepts zero (the 512-byte default) or a power of two
// large enough to hold the header.
func validateSectorSize(size uint64) error {
	if size == 0 {
		return nil
	}
	if size < types.GPTHeaderSize || size > types.MaxSectorSize {
		return fmt.Errorf("%d out of range (%d-%d)", size, types.GPTHeaderSize, types.MaxSectorSize)
	}
	if size&(size-1) != 0 {
		return fmt.Errorf("%d is not a power of two", size)
	}
	return nil
}
