package player

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative fade",
			modify:  func(c *Config) { c.FadeDuration = -time.Millisecond },
			wantErr: true,
			errMsg:  "fade duration must be between",
		},
		{
			name:    "fade too long",
			modify:  func(c *Config) { c.FadeDuration = time.Minute },
			wantErr: true,
			errMsg:  "fade duration must be between",
		},
		{
			name:    "negative loops",
			modify:  func(c *Config) { c.Loops = -1 },
			wantErr: true,
			errMsg:  "loops must not be negative",
		},
		{
			name:    "negative start",
			modify:  func(c *Config) { c.StartFrame = -2 },
			wantErr: true,
			errMsg:  "start frame must not be negative",
		},
		{
			name:    "end below sentinel",
			modify:  func(c *Config) { c.EndFrame = -5 },
			wantErr: true,
			errMsg:  "end frame must be -1",
		},
		{
			name:    "end before start",
			modify:  func(c *Config) { c.StartFrame, c.EndFrame = 10, 5 },
			wantErr: true,
			errMsg:  "must not precede start frame",
		},
		{
			name:    "open range with start",
			modify:  func(c *Config) { c.StartFrame = 10 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}

	viper.Set("player.animated", true)
	viper.Set("player.loops", 3)
	viper.Set("player.fade_duration", "350ms")
	viper.Set("player.reset_loop_count_when_stopped", false)

	cfg, err = LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}
	if !cfg.Animated || cfg.Loops != 3 || cfg.FadeDuration != 350*time.Millisecond || cfg.ResetLoopCountWhenStopped {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	viper.Set("player.loops", -4)
	if _, err := LoadConfigFromViper(); err == nil || !strings.Contains(err.Error(), "invalid player configuration") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SVGAPLAY_HIDES_WHEN_STOPPED", "true")
	t.Setenv("SVGAPLAY_END_FRAME", "12")
	t.Setenv("SVGAPLAY_FADE_DURATION", "1s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}
	if !cfg.HidesWhenStopped || cfg.EndFrame != 12 || cfg.FadeDuration != time.Second {
		t.Errorf("env not applied: %+v", cfg)
	}
	if !cfg.ResetLoopCountWhenStopped {
		t.Error("envDefault should keep loop count reset on")
	}

	t.Setenv("SVGAPLAY_LOOPS", "-1")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Error("expected validation error for negative loops")
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	if viper.GetInt("player.end_frame") != -1 {
		t.Errorf("end_frame default = %d, want -1", viper.GetInt("player.end_frame"))
	}
	if !viper.GetBool("player.reset_loop_count_when_stopped") {
		t.Error("reset_loop_count_when_stopped default should be true")
	}
}
