package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# player behavior
player:
  # fade the canvas in and out around source changes and stops
  animated: false
  # hide the canvas while idle, loading or stopped
  hides_when_stopped: false
  # park on the last frame instead of the first when stopped
  step_to_trailing_when_stopped: false
  reset_loop_count_when_stopped: true
  # reuse decoded animations
  memory_cache: true
  fade_duration: 200ms
  # 0 loops forever
  loops: 0
  start_frame: 0
  # -1 means the last frame
  end_frame: -1

# remote downloads
fetch:
  timeout: 30s
  requests_per_minute: 120
  user_agent: "svgaplay"
  max_bytes: 67108864

# download cache
cache:
  enabled: true
  # empty uses the user cache directory
  dir: ""
  memory_mb: 64
  disk_mb: 512
  # zstd level, 0 stores files uncompressed
  compression_level: 3
  ttl: 168h
  # identity, md5 or sha256
  key: "md5"

# bundled animations, addressed by name
assets:
  dir: "."
  # drop cached animations when their files change
  watch: false

tui:
  # play the next source when one finishes all its loops
  auto_advance: true
  mouse: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the svgaplay config file",
	Long:    paragraph(fmt.Sprintf("\n%s the svgaplay config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("svgaplay config\nsvgaplay config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("svgaplay", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reflector := new(jsonschema.Reflector)
		reflector.FieldNameTag = "yaml"
		reflector.Anonymous = true

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reflector.Reflect(&fileConfig{})); err != nil {
			return fmt.Errorf("unable to write schema: %w", err)
		}
		return nil
	},
}
