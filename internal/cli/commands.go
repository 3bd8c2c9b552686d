package cli

import (
	"encoding/json"
	"io"

	"github.com/lunagic/brief/briefquery"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type renderOutput struct {
	SQL       string `json:"sql" yaml:"sql"`
	Arguments []any  `json:"arguments" yaml:"arguments"`
	Debug     string `json:"debug" yaml:"debug"`
}

func NewRenderCommand(opts *RootOptions) *cobra.Command {
	flags := &QueryFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL a query compiles to without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := flags.build(nil)
			if err != nil {
				return err
			}

			statement, arguments := builder.Compile()

			return opts.write(cmd.OutOrStdout(), renderOutput{
				SQL:       statement,
				Arguments: arguments,
				Debug:     builder.DebugSQL(),
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func NewAllCommand(opts *RootOptions) *cobra.Command {
	return newRunCommand(opts, "all", "Print every matching row", func(cmd *cobra.Command, builder *briefquery.Select) (any, error) {
		return builder.FindAll(cmd.Context())
	})
}

func NewOneCommand(opts *RootOptions) *cobra.Command {
	return newRunCommand(opts, "one", "Print the first matching row", func(cmd *cobra.Command, builder *briefquery.Select) (any, error) {
		return builder.FindOne(cmd.Context())
	})
}

func NewCountCommand(opts *RootOptions) *cobra.Command {
	return newRunCommand(opts, "count", "Print the number of matching rows", func(cmd *cobra.Command, builder *briefquery.Select) (any, error) {
		return builder.FindCount(cmd.Context())
	})
}

func newRunCommand(
	opts *RootOptions,
	use string,
	short string,
	run func(cmd *cobra.Command, builder *briefquery.Select) (any, error),
) *cobra.Command {
	flags := &QueryFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = service.Close()
			}()

			builder, err := flags.build(service)
			if err != nil {
				return err
			}

			result, err := run(cmd, builder)
			if err != nil {
				return err
			}

			return opts.write(cmd.OutOrStdout(), result)
		},
	}
	flags.register(cmd)

	return cmd
}

func (opts *RootOptions) write(w io.Writer, value any) error {
	if opts.Format == "yaml" {
		encoder := yaml.NewEncoder(w)
		defer func() {
			_ = encoder.Close()
		}()

		return encoder.Encode(value)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}
