package partitions

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-gptinfo/internal/parsers/gpt"
	"github.com/deploymenttheory/go-gptinfo/internal/types"
	"github.com/deploymenttheory/go-gptinfo/pkg/app"
)

// Handle processes a partition report request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Reading partition table from: %s", req.ImagePath))
	logSelection(ctx, req)

	// 2. Parse the image
	result, err := gpt.ParseFile(ctx, req.ImagePath, gpt.Options{
		SectorSize: req.SectorSize,
		Partitions: req.selection(),
		Workers:    req.Workers,
		Logger:     ctx.Logger,
	})
	if err != nil {
		return nil, classify(err)
	}

	// 3. Build the response
	response := &Response{
		ImagePath:   req.ImagePath,
		SectorSize:  sectorSizeOrDefault(req.SectorSize),
		Partitions:  result.Partitions,
		Diagnostics: result.Diagnostics,
	}
	if !req.All {
		response.Requested = gpt.NewPartitionSet(req.Partitions...).Sorted()
	}

	ctx.Log(fmt.Sprintf("Report complete: %d partitions, %d diagnostics", len(response.Partitions), len(response.Diagnostics)))
	return response, nil
}

// HandleHeader reads the primary GPT header of the image
func HandleHeader(ctx *app.Context, req *HeaderRequest) (*HeaderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Reading GPT header from: %s", req.ImagePath))

	header, err := gpt.ReadHeaderFile(ctx, req.ImagePath, gpt.Options{
		SectorSize: req.SectorSize,
		Logger:     ctx.Logger,
	})
	if err != nil {
		return nil, classify(err)
	}

	return &HeaderResponse{
		ImagePath:  req.ImagePath,
		SectorSize: sectorSizeOrDefault(req.SectorSize),
		Header:     header,
	}, nil
}

// logSelection logs the partition filter for verbose output
func logSelection(ctx *app.Context, req *Request) {
	if !ctx.Verbose {
		return
	}
	if req.All {
		ctx.Log("Selecting all partition slots")
		return
	}
	ctx.Log("Selecting partitions", "numbers", gpt.NewPartitionSet(req.Partitions...).Sorted())
}

// classify maps parser errors onto application error codes, keeping the
// parser error as the cause.
func classify(err error) error {
	var formatErr *gpt.FormatError
	var ioErr *gpt.IOError
	switch {
	case errors.As(err, &formatErr):
		return app.NewError(app.ErrCodeFormat, "invalid partition table", err)
	case errors.As(err, &ioErr):
		return app.NewError(app.ErrCodeImageAccess, "cannot read disk image", err)
	default:
		return err
	}
}

func sectorSizeOrDefault(size uint64) uint64 {
	if size == 0 {
		return types.DefaultSectorSize
	}
	return size
}
