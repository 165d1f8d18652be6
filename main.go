// Package main provides the entry point for the svgaplay CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/svgaplay/internal/assets"
	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
	"github.com/dgnsrekt/svgaplay/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	headless   bool
	debug      bool
	noCache    bool
	loops      int
	animated   bool

	rootCmd = &cobra.Command{
		Use:   "svgaplay [SOURCE...]",
		Short: "Play SVGA animations in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nPlay SVGA animations from files, URLs or an asset directory, %s.", keyword("right in your terminal")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"svga"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	debug = viper.GetBool("debug")
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if loops < 0 {
		return fmt.Errorf("loops must not be negative, got %d", loops)
	}
	if noCache {
		viper.Set("cache.enabled", false)
	}

	// The TUI needs a terminal; fall back to headless playback otherwise.
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Debug("stdout is not a terminal, playing headless")
		headless = true
	}
	return nil
}

// playerConfig loads the player section and applies the flags that
// override it.
func playerConfig(cmd *cobra.Command) (player.Config, error) {
	cfg, err := player.LoadConfigFromViper()
	if err != nil {
		return cfg, err //nolint:wrapcheck
	}
	if cmd.Flags().Changed("loops") {
		cfg.Loops = loops
	}
	if cmd.Flags().Changed("animated") {
		cfg.Animated = animated
	}
	cfg.Debug = cfg.Debug || debug
	return cfg, nil
}

// sourcesFromArgs returns the arguments, or every bundled animation when
// none are given.
func sourcesFromArgs(fsys afero.Fs, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	dir := assetsDir()
	names, err := assets.NewBundle(fsys, dir).Names()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no sources given and no animations in %s", dir)
	}
	return names, nil
}

func execute(cmd *cobra.Command, args []string) error {
	cfg, err := playerConfig(cmd)
	if err != nil {
		return err
	}
	sources, err := sourcesFromArgs(afero.NewOsFs(), args)
	if err != nil {
		return err
	}

	if headless {
		return runHeadless(cmd.Context(), sources, cfg)
	}
	return runTUI(cmd, sources, cfg)
}

func runTUI(cmd *cobra.Command, sources []string, playerCfg player.Config) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Sources = sources
	cfg.Player = playerCfg
	cfg.AutoAdvance = viper.GetBool("tui.auto_advance")
	cfg.EnableMouse = viper.GetBool("tui.mouse")
	cfg.ShowDebug = cfg.ShowDebug || debug

	loop := runloop.New(256)
	s, err := newStack(cmd.Context(), afero.NewOsFs(), loop.Dispatch())
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cmd.Context(), cfg, loop, s.decoder, s.hooks).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output")
	rootCmd.PersistentFlags().String("assets", "", "directory of bundled animations")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "skip the download cache")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "play without the terminal UI, logging events")
	rootCmd.Flags().IntVarP(&loops, "loops", "l", 0, "loops per source (0 loops forever)")
	rootCmd.Flags().BoolVarP(&animated, "animated", "a", false, "fade between sources")
	rootCmd.Flags().Bool("watch", false, "reload bundled animations when they change")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("assets.dir", rootCmd.PersistentFlags().Lookup("assets"))
	_ = viper.BindPFlag("assets.watch", rootCmd.Flags().Lookup("watch"))

	setDefaults()

	configCmd.AddCommand(configSchemaCmd)
	rootCmd.AddCommand(configCmd, manCmd, probeCmd, assetsCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "svgaplay")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "svgaplay")}, dirs...)
	}

	if c := os.Getenv("SVGAPLAY_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("svgaplay")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("svgaplay")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "svgaplay.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
