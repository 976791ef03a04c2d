package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-gptinfo/pkg/app/partitions"
)

func newHeaderCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "header <image-path>",
		Short: "Print the primary GPT header of a disk image",
		Long: `Print the decoded primary GPT header: revision, usable LBA range, disk
GUID and the location and geometry of the partition entry array.

Examples:
  gptinfo header disk.img
  gptinfo header disk.img --sector-size 4096 -o yaml`,
		Args: imagePathArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.newContext(cmd)

			response, err := partitions.HandleHeader(ctx, &partitions.HeaderRequest{
				ImagePath:  args[0],
				SectorSize: opts.cfg.SectorSize,
			})
			if err != nil {
				return err
			}
			return partitions.FormatHeader(ctx.Stdout, response, ctx.OutputFormat)
		},
	}
}
