package player

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SVGAPLAY_"

// LoadConfigFromViper loads player configuration from Viper, starting from
// the defaults and overriding only keys that are set.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("player.animated") {
		cfg.Animated = viper.GetBool("player.animated")
	}
	if viper.IsSet("player.hides_when_stopped") {
		cfg.HidesWhenStopped = viper.GetBool("player.hides_when_stopped")
	}
	if viper.IsSet("player.step_to_trailing_when_stopped") {
		cfg.StepToTrailingWhenStopped = viper.GetBool("player.step_to_trailing_when_stopped")
	}
	if viper.IsSet("player.reset_loop_count_when_stopped") {
		cfg.ResetLoopCountWhenStopped = viper.GetBool("player.reset_loop_count_when_stopped")
	}
	if viper.IsSet("player.memory_cache") {
		cfg.MemoryCache = viper.GetBool("player.memory_cache")
	}
	if viper.IsSet("player.debug") {
		cfg.Debug = viper.GetBool("player.debug")
	}
	if viper.IsSet("player.fade_duration") {
		cfg.FadeDuration = viper.GetDuration("player.fade_duration")
	}
	if viper.IsSet("player.loops") {
		cfg.Loops = viper.GetInt("player.loops")
	}
	if viper.IsSet("player.start_frame") {
		cfg.StartFrame = viper.GetInt("player.start_frame")
	}
	if viper.IsSet("player.end_frame") {
		cfg.EndFrame = viper.GetInt("player.end_frame")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid player configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromEnv reads the configuration from SVGAPLAY_* variables,
// falling back to the envDefault tags.
func LoadConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid player configuration: %w", err)
	}
	return cfg, nil
}

// SetDefaults registers the player defaults with Viper.
func SetDefaults() {
	d := DefaultConfig()
	viper.SetDefault("player.animated", d.Animated)
	viper.SetDefault("player.hides_when_stopped", d.HidesWhenStopped)
	viper.SetDefault("player.step_to_trailing_when_stopped", d.StepToTrailingWhenStopped)
	viper.SetDefault("player.reset_loop_count_when_stopped", d.ResetLoopCountWhenStopped)
	viper.SetDefault("player.memory_cache", d.MemoryCache)
	viper.SetDefault("player.debug", d.Debug)
	viper.SetDefault("player.fade_duration", d.FadeDuration)
	viper.SetDefault("player.loops", d.Loops)
	viper.SetDefault("player.start_frame", d.StartFrame)
	viper.SetDefault("player.end_frame", d.EndFrame)
}
