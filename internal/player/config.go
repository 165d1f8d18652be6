package player

import (
	"fmt"
	"time"
)

// Config holds the behavioral switches of a Player.
type Config struct {
	// Fade the surface in and out around source changes and stops.
	Animated bool `yaml:"animated" mapstructure:"animated" env:"ANIMATED" envDefault:"false"`

	// Hide the surface while idle, loading or stopped.
	HidesWhenStopped bool `yaml:"hides_when_stopped" mapstructure:"hides_when_stopped" env:"HIDES_WHEN_STOPPED" envDefault:"false"`

	// Park on the trailing frame instead of the leading frame when stopped.
	StepToTrailingWhenStopped bool `yaml:"step_to_trailing_when_stopped" mapstructure:"step_to_trailing_when_stopped" env:"STEP_TO_TRAILING_WHEN_STOPPED" envDefault:"false"`

	// Reset the loop counter on stops that keep the entity.
	ResetLoopCountWhenStopped bool `yaml:"reset_loop_count_when_stopped" mapstructure:"reset_loop_count_when_stopped" env:"RESET_LOOP_COUNT_WHEN_STOPPED" envDefault:"true"`

	// Let the decoder reuse previously decoded entities.
	MemoryCache bool `yaml:"memory_cache" mapstructure:"memory_cache" env:"MEMORY_CACHE" envDefault:"false"`

	// Log every transition at debug level.
	Debug bool `yaml:"debug" mapstructure:"debug" env:"DEBUG" envDefault:"false"`

	FadeDuration time.Duration `yaml:"fade_duration" mapstructure:"fade_duration" env:"FADE_DURATION" envDefault:"200ms"`

	// Loop budget handed to the renderer; 0 loops forever.
	Loops int `yaml:"loops" mapstructure:"loops" env:"LOOPS" envDefault:"0"`

	// Frame sub-range; EndFrame -1 means the last frame.
	StartFrame int `yaml:"start_frame" mapstructure:"start_frame" env:"START_FRAME" envDefault:"0"`
	EndFrame   int `yaml:"end_frame" mapstructure:"end_frame" env:"END_FRAME" envDefault:"-1"`
}

// DefaultConfig returns the default player configuration.
func DefaultConfig() Config {
	return Config{
		ResetLoopCountWhenStopped: true,
		FadeDuration:              200 * time.Millisecond,
		EndFrame:                  -1,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.FadeDuration < 0 || c.FadeDuration > 10*time.Second {
		return fmt.Errorf("fade duration must be between 0 and 10s, got %v", c.FadeDuration)
	}
	if c.Loops < 0 {
		return fmt.Errorf("loops must not be negative, got %d", c.Loops)
	}
	if c.StartFrame < 0 {
		return fmt.Errorf("start frame must not be negative, got %d", c.StartFrame)
	}
	if c.EndFrame < -1 {
		return fmt.Errorf("end frame must be -1 or a frame index, got %d", c.EndFrame)
	}
	if c.EndFrame >= 0 && c.EndFrame < c.StartFrame {
		return fmt.Errorf("end frame %d must not precede start frame %d", c.EndFrame, c.StartFrame)
	}
	return nil
}
