package ui

import "github.com/dgnsrekt/svgaplay/internal/player"

// Config contains TUI-specific configuration.
type Config struct {
	// Sources are played in order; n and p move through them.
	Sources []string

	Player player.Config `envPrefix:"SVGAPLAY_"`

	// Advance to the next source when a source finishes all its loops.
	AutoAdvance bool

	EnableMouse bool

	// For debugging the UI
	ShowDebug    bool `env:"SVGAPLAY_SHOW_DEBUG"    envDefault:"false"`
	SpriteRows   int  `env:"SVGAPLAY_SPRITE_ROWS"   envDefault:"6"`
	EventHistory int  `env:"SVGAPLAY_EVENT_HISTORY" envDefault:"4"`
}
