// Package cli provides the command-line interface for covertint.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/covertint/internal/colour"
	"github.com/jmylchreest/covertint/internal/config"
	"github.com/jmylchreest/covertint/internal/version"
)

// globalOptions holds persistent flags shared by every command.
type globalOptions struct {
	configFile string
	verbose    bool
	quiet      bool
	mode       colour.Mode
	disabled   bool
	output     string
	format     string
}

// NewRootCmd builds the covertint command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "covertint",
		Short: "Adaptive accent theming from cover art",
		Long: `covertint derives an accent colour from a piece of cover art, adjusts it
so it stays legible in light or dark mode, and publishes it as a small set
of CSS custom properties (--primary, --highlight, --ring, ...).

Artwork can be a local file or an HTTP(S) URL. Remote artwork is always
fetched fresh, bypassing any cached response.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.covertint.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	flags.Var(&opts.mode, "mode", "presentation mode (dark, light)")
	flags.BoolVar(&opts.disabled, "disable", false, "disable artwork theming (variables are cleared)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format (css, json, toml)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newThemeCmd(opts))
	rootCmd.AddCommand(newAdjustCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadSettings reads the config file and environment, then applies any
// flags the user set explicitly.
func loadSettings(cmd *cobra.Command, opts *globalOptions) (*viper.Viper, *config.Config, error) {
	v, err := config.New(opts.configFile)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		v.Set("mode", opts.mode.String())
	}
	if flags.Changed("disable") {
		v.Set("enabled", !opts.disabled)
	}
	if flags.Changed("output") {
		v.Set("output", opts.output)
	}
	if flags.Changed("format") {
		v.Set("format", opts.format)
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return nil, nil, err
	}
	return v, cfg, nil
}

// newLogger creates the hclog logger for a run.
// Verbose forces debug; quiet shows errors only.
func newLogger(opts *globalOptions, cfg *config.Config, out io.Writer) hclog.Logger {
	level := cfg.Level()
	switch {
	case opts.verbose:
		level = hclog.Debug
	case opts.quiet:
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "covertint",
		Output: out,
		Level:  level,
	})
}
