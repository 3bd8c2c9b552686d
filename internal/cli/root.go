package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/lunagic/brief/brief"
	"github.com/lunagic/brief/briefservices/database"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string
}

var ValidFormats = []string{"json", "yaml"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "brief",
		Short:        "Build and run SQL statements from the shell",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default .brief.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every statement to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "json", "output format (json|yaml)")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewAllCommand(opts))
	cmd.AddCommand(NewOneCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))

	return cmd
}

func (opts *RootOptions) connect(cmd *cobra.Command) (*database.Service, error) {
	config, err := brief.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	var logger *slog.Logger
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return config.Database(cmd.Context(), logger)
}
