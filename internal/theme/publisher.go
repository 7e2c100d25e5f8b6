package theme

import "github.com/jmylchreest/covertint/internal/colour"

// Style variable names written by ThemeState.
const (
	VarPrimary           = "primary"
	VarPrimaryForeground = "primary-foreground"
	VarHighlight         = "highlight"
	VarHighlightRGB      = "highlight-rgb"
	VarActiveHighlight   = "active-highlight"
	VarRing              = "ring"
	VarTrackHoverBg      = "track-hover-bg"
)

// Variables lists every style variable ThemeState owns, in publish order.
var Variables = []string{
	VarPrimary,
	VarPrimaryForeground,
	VarHighlight,
	VarHighlightRGB,
	VarActiveHighlight,
	VarRing,
	VarTrackHoverBg,
}

// StylePublisher is the rendering surface that style variables are written to.
type StylePublisher interface {
	SetVariable(name, value string)
	ClearVariable(name string)
}

// ThemeState applies and clears the accent palette on a StylePublisher.
type ThemeState struct {
	publisher StylePublisher
}

// NewThemeState creates a ThemeState writing to publisher.
func NewThemeState(publisher StylePublisher) *ThemeState {
	return &ThemeState{publisher: publisher}
}

// Apply publishes a palette.
func (s *ThemeState) Apply(p colour.Palette) {
	accent := p.Accent.Hex()

	s.publisher.SetVariable(VarPrimary, accent)
	s.publisher.SetVariable(VarPrimaryForeground, p.Foreground.Hex())
	s.publisher.SetVariable(VarHighlight, accent)
	s.publisher.SetVariable(VarHighlightRGB, p.Accent.Channels())
	s.publisher.SetVariable(VarActiveHighlight, accent)
	s.publisher.SetVariable(VarRing, accent)
	s.publisher.SetVariable(VarTrackHoverBg, p.Hover.String())
}

// Clear removes every variable, restoring inherited styling.
func (s *ThemeState) Clear() {
	for _, name := range Variables {
		s.publisher.ClearVariable(name)
	}
}
