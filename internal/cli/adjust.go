package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/covertint/internal/colour"
	"github.com/jmylchreest/covertint/internal/style"
	"github.com/jmylchreest/covertint/internal/theme"
)

func newAdjustCmd(global *globalOptions) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "adjust <hex>",
		Short: "Adjust a colour for the current mode",
		Long: `Adjust a raw accent colour for legibility in the current mode and print the
style variables it would publish. Accepts 3 or 6 digit hex, with or
without '#'. Malformed input is rejected.

Examples:
  covertint adjust '#abc'
  covertint adjust --mode light ff0000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadSettings(cmd, global)
			if err != nil {
				return err
			}
			logger := newLogger(global, cfg, cmd.ErrOrStderr())

			palette, err := colour.AdjustHex(args[0], cfg.ModeValue())
			if err != nil {
				return fmt.Errorf("cannot adjust colour: %w", err)
			}
			logger.Debug("adjusted colour",
				"input", args[0],
				"mode", palette.Mode.String(),
				"accent", palette.Accent.Hex(),
				"brightness", palette.Brightness,
				"contrast_vs_foreground", colour.ContrastRatio(colour.RGBToColor(palette.Accent), colour.RGBToColor(palette.Foreground)),
			)

			sheet := style.NewSheet()
			sheet.SetSource(args[0])
			theme.NewThemeState(sheet).Apply(palette)

			if err := writeSheet(sheet, cfg, cmd.OutOrStdout()); err != nil {
				return err
			}
			if preview {
				return writePreview(cmd.OutOrStdout(), sheet)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "show colour swatches in terminal")

	return cmd
}
