package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/covertint/internal/config"
	"github.com/jmylchreest/covertint/internal/image"
	"github.com/jmylchreest/covertint/internal/style"
	"github.com/jmylchreest/covertint/internal/theme"
)

// themeOptions holds flags for the theme command.
type themeOptions struct {
	preview bool
}

func newThemeCmd(global *globalOptions) *cobra.Command {
	opts := &themeOptions{}

	cmd := &cobra.Command{
		Use:   "theme <artwork>...",
		Short: "Derive accent variables from cover art",
		Long: `Derive accent style variables from one or more pieces of cover art.

Each artwork is requested in order, as a viewer navigating between pages
would. Requests overlap; the last one wins and earlier results that arrive
late are discarded. Artwork that yields no usable colour clears the
variables.

Examples:
  # Print CSS variables for a remote cover
  covertint theme https://resources.example/images/ab/cd/80x80.jpg

  # Light mode, written to a file
  covertint theme --mode light -o theme.css cover.png

  # JSON output with swatch preview
  covertint theme -f json --preview cover.webp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadSettings(cmd, global)
			if err != nil {
				return err
			}
			logger := newLogger(global, cfg, cmd.ErrOrStderr())

			s := newSession(cfg, logger, nil, nil)
			return runTheme(cmd.Context(), s, args, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches in terminal")

	return cmd
}

// runTheme applies each artwork in turn, waits for every request to settle
// and writes the resulting sheet.
func runTheme(ctx context.Context, s *session, artworks []string, out io.Writer, opts *themeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for _, artwork := range artworks {
		if artwork != "" && !image.IsRemote(artwork) {
			if _, err := os.Stat(artwork); err != nil {
				s.logger.Warn("artwork not accessible", "path", artwork, "error", err)
			}
		}
	}

	pending := make([]<-chan struct{}, 0, len(artworks))
	for _, artwork := range artworks {
		pending = append(pending, s.apply(ctx, artwork))
	}
	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if _, ok := s.sheet.Get(theme.VarPrimary); !ok {
		s.logger.Info("no accent derived; variables cleared", "artwork", s.engine.Current())
	}

	if err := writeSheet(s.sheet, s.config(), out); err != nil {
		return err
	}

	if opts.preview {
		if err := writePreview(out, s.sheet); err != nil {
			return err
		}
	}

	return nil
}

// writeSheet renders the sheet to the configured output file or out.
func writeSheet(sheet *style.Sheet, cfg *config.Config, out io.Writer) error {
	format := style.Format(cfg.Format)

	path, err := cfg.OutputPath()
	if err != nil {
		return err
	}
	if path != "" {
		if err := sheet.WriteFile(path, format); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	data, err := sheet.Render(format)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = out.Write(data)
	return err
}
