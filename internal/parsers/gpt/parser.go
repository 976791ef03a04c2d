package gpt

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/deploymenttheory/go-gptinfo/internal/device"
	"github.com/deploymenttheory/go-gptinfo/internal/logging"
	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

// Options controls a parse.
type Options struct {
	// SectorSize is the logical block size of the image. Zero means 512.
	SectorSize uint64
	// Partitions selects the 1-based partition numbers to decode. Nil selects all.
	Partitions PartitionSet
	// Workers bounds concurrent slot decoding. Values below 2 decode sequentially.
	Workers int
	// Logger receives debug and trace output. The zero value discards.
	Logger logr.Logger
}

func (o Options) sectorSize() uint64 {
	if o.SectorSize == 0 {
		return types.DefaultSectorSize
	}
	return o.SectorSize
}

func (o Options) logger() logr.Logger {
	if o.Logger.GetSink() == nil {
		return logr.Discard()
	}
	return o.Logger
}

// ParseFile opens the disk image at path, parses its primary GPT and closes
// the image before returning, whether or not the parse succeeded.
func ParseFile(ctx context.Context, path string, opts Options) (*Result, error) {
	var result *Result
	err := withImage(path, opts, func(src ByteReader, log logr.Logger) error {
		opts.Logger = log
		var err error
		result, err = Parse(ctx, src, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReadHeaderFile opens the disk image at path and returns its primary GPT
// header without touching the entry array.
func ReadHeaderFile(ctx context.Context, path string, opts Options) (*Header, error) {
	var header *Header
	err := withImage(path, opts, func(src ByteReader, log logr.Logger) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		header, err = ReadHeader(src, opts.sectorSize())
		if err == nil {
			log.V(logging.LevelDebug).Info("Read GPT header", "entryLBA", header.PartitionEntryLBA, "entries", header.NumberOfEntries)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

// withImage opens path, hands it to fn and closes it on every path. A close
// failure is reported only when fn succeeded.
func withImage(path string, opts Options, fn func(ByteReader, logr.Logger) error) (err error) {
	log := opts.logger().WithValues("image", path)

	src, err := device.Open(path)
	if err != nil {
		return &IOError{Op: "disk image", Err: err}
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close disk image: %w", cerr)
		}
	}()

	log.V(logging.LevelDebug).Info("Opened disk image", "size", src.Size())
	return fn(src, log)
}

// Parse reads the GPT header from src and decodes the selected entries.
func Parse(ctx context.Context, src ByteReader, opts Options) (*Result, error) {
	log := opts.logger()
	sectorSize := opts.sectorSize()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header, err := ReadHeader(src, sectorSize)
	if err != nil {
		return nil, err
	}
	log.V(logging.LevelDebug).Info("Read GPT header",
		"entryLBA", header.PartitionEntryLBA, "entries", header.NumberOfEntries, "entrySize", header.EntrySize)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return DecodeEntries(src, header, sectorSize, opts.Partitions,
		WithWorkers(opts.Workers),
		WithLogger(log),
	)
}
