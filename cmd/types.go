package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-gptinfo/internal/parsers/gpt"
	"github.com/deploymenttheory/go-gptinfo/pkg/app/partitions"
)

func newTypesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known partition type GUIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.newContext(cmd)
			return partitions.FormatTypes(ctx.Stdout, gpt.PartitionTypes(), ctx.OutputFormat)
		},
	}
}
