package colour

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Mode is the active presentation mode an accent must remain legible against.
type Mode int

const (
	// ModeDark means a dark background; accents are brightened.
	ModeDark Mode = iota

	// ModeLight means a light background; accents are darkened.
	ModeLight
)

var _ pflag.Value = (*Mode)(nil)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLight:
		return "light"
	case ModeDark:
		return "dark"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Set parses a mode name, satisfying pflag.Value.
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type satisfies pflag.Value.
func (m *Mode) Type() string {
	return "mode"
}

// ParseMode parses "light" or "dark" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ModeLight, nil
	case "dark":
		return ModeDark, nil
	default:
		return ModeDark, fmt.Errorf("invalid mode: %s (valid: dark, light)", s)
	}
}
