package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/deploymenttheory/go-gptinfo/internal/config"
	"github.com/deploymenttheory/go-gptinfo/internal/logging"
	"github.com/deploymenttheory/go-gptinfo/pkg/app"
	"github.com/deploymenttheory/go-gptinfo/pkg/app/partitions"
)

// rootOptions carries the flag values and the resolved configuration shared
// by every command.
type rootOptions struct {
	// Global output flags
	verbose    bool
	quiet      bool
	noColor    bool
	configFile string

	v   *viper.Viper
	cfg *config.Config
}

// NewRootCommand builds the gptinfo command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "gptinfo <image-path>",
		Short: "Report GUID Partition Table entries of a raw disk image",
		Long: `gptinfo is a read-only command-line tool that reads the primary GUID
Partition Table of a raw disk image and reports the selected partition
entries: type GUID and name, first and last LBA, size in MiB and label.

By default partitions 1, 13 and 15 are reported.

Examples:
  # Report the default partitions
  gptinfo disk.img

  # Report every occupied slot of a 4K-sector image as JSON
  gptinfo disk.img --all --sector-size 4096 -o json

  # Print the decoded header
  gptinfo header disk.img`,
		Version:           "0.1.0-dev",
		Args:              imagePathArg,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args[0])
		},
	}

	// Global output control flags
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress log output")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: gptinfo-config.yaml in ., ./config, $HOME/.gptinfo, /etc/gptinfo)")
	rootCmd.PersistentFlags().Uint64("sector-size", 512, "logical sector size in bytes")

	// Partition selection
	rootCmd.Flags().IntSliceP("partitions", "p", config.DefaultPartitions, "1-based partition numbers to report")
	rootCmd.Flags().Bool("all", false, "report every occupied partition slot")
	rootCmd.Flags().Int("workers", 1, "number of entries decoded concurrently")
	rootCmd.MarkFlagsMutuallyExclusive("partitions", "all")

	bindFlags(opts.v, rootCmd)

	rootCmd.AddCommand(newHeaderCommand(opts), newTypesCommand(opts))
	return rootCmd
}

// bindFlags maps scalar command-line flags onto configuration keys. Flags win
// over environment and file values only when set explicitly. --partitions is
// applied in load.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	bindings := map[string]string{
		"sector_size": "sector-size",
		"output":      "output",
		"all":         "all",
		"workers":     "workers",
	}
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if flag != nil {
			_ = v.BindPFlag(key, flag)
		}
	}
}

// imagePathArg requires exactly one positional argument naming the disk image.
func imagePathArg(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return app.NewError(app.ErrCodeUsage, fmt.Sprintf("missing disk image path\nUsage: %s", cmd.UseLine()), nil)
	case len(args) > 1:
		return app.NewError(app.ErrCodeUsage, fmt.Sprintf("accepts 1 disk image path, received %d\nUsage: %s", len(args), cmd.UseLine()), nil)
	}
	return nil
}

// load resolves configuration once flags are parsed.
func (o *rootOptions) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.v, o.configFile)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	if cmd.Flags().Changed("partitions") {
		if cfg.Partitions, err = cmd.Flags().GetIntSlice("partitions"); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid --partitions", err)
		}
	}
	if o.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	o.cfg = cfg
	return nil
}

// newContext builds the application context for a command run.
func (o *rootOptions) newContext(cmd *cobra.Command) *app.Context {
	ctx := app.NewContext()
	if c := cmd.Context(); c != nil {
		ctx.Context = c
	}
	ctx.OutputFormat = o.cfg.Output
	ctx.Verbose = o.verbose
	ctx.Quiet = o.quiet
	ctx.Stdout = cmd.OutOrStdout()
	ctx.Stderr = cmd.ErrOrStderr()
	ctx.Logger = logging.New(ctx.Stderr, o.verbose, o.quiet, colorEnabled(ctx.Stderr, o.cfg.Color)).WithName("gptinfo")
	return ctx
}

// colorEnabled reports whether log labels written to w should be colored.
func colorEnabled(w io.Writer, want bool) bool {
	if !want {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runReport(cmd *cobra.Command, opts *rootOptions, imagePath string) error {
	ctx := opts.newContext(cmd)

	request := &partitions.Request{
		ImagePath:  imagePath,
		SectorSize: opts.cfg.SectorSize,
		Partitions: opts.cfg.Partitions,
		All:        opts.cfg.All,
		Workers:    opts.cfg.Workers,
	}

	// Handle the request through application layer
	response, err := partitions.Handle(ctx, request)
	if err != nil {
		return err
	}

	if len(response.Partitions) == 0 {
		ctx.Logger.Info("No occupied partitions matched the selection", "requested", response.Requested)
	}

	return partitions.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
}

// Execute runs the command tree. Errors are printed to stderr and end the
// process with exit status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
