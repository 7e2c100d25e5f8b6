package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/covertint/internal/config"
)

func newWatchCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [artwork]...",
		Short: "Keep accent variables in sync with artwork and settings",
		Long: `Apply artwork and keep the published variables current.

Artwork given as arguments is applied first; afterwards each line read from
stdin is treated as navigation to a new piece of artwork (an empty line
clears the theme). Changes to the config file, such as switching mode or
disabling theming, re-derive the current palette without refetching.

The sheet is rewritten after every change, to --output if set or stdout.

Examples:
  # Follow now-playing artwork from another process
  player --print-cover | covertint watch -o ~/.cache/covertint/theme.css`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, cfg, err := loadSettings(cmd, global)
			if err != nil {
				return err
			}
			logger := newLogger(global, cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := newSession(cfg, logger, nil, nil)
			return runWatch(ctx, v, s, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

// runWatch applies artwork from args then in, re-deriving on config changes,
// until ctx is done or in is exhausted with no config file to watch.
func runWatch(ctx context.Context, v *viper.Viper, s *session, artworks []string, in io.Reader, out io.Writer) error {
	var (
		writeMu sync.Mutex
		pending sync.WaitGroup
	)
	flush := func() {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := writeSheet(s.sheet, s.config(), out); err != nil {
			s.logger.Error("failed to write sheet", "error", err)
		}
	}
	request := func(artwork string) {
		done := s.apply(ctx, artwork)
		pending.Add(1)
		go func() {
			defer pending.Done()
			select {
			case <-done:
				flush()
			case <-ctx.Done():
			}
		}()
	}

	watching := v.ConfigFileUsed() != ""
	if watching {
		v.OnConfigChange(func(e fsnotify.Event) {
			cfg, err := config.Decode(v)
			if err != nil {
				s.logger.Error("ignoring invalid config change", "file", e.Name, "error", err)
				return
			}
			select {
			case <-s.update(ctx, cfg):
				flush()
			case <-ctx.Done():
			}
		})
		v.WatchConfig()
		s.logger.Debug("watching config", "file", v.ConfigFileUsed())
	}

	for _, artwork := range artworks {
		request(artwork)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Warn("stopped reading artwork", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			pending.Wait()
			return nil
		case artwork, ok := <-lines:
			if !ok {
				lines = nil
				if !watching {
					pending.Wait()
					return nil
				}
				continue
			}
			s.logger.Debug("navigated", "artwork", artwork)
			request(artwork)
		}
	}
}
