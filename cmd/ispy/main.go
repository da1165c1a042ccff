// Package main provides the CLI entrypoint for ispy.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/bee-mcc/ispy/internal/log"
	"github.com/bee-mcc/ispy/pkg/config"
	"github.com/bee-mcc/ispy/pkg/game"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
)

var (
	playLevels    string
	playLogLevel  string
	playDBPath    string
	playWidth     int
	playHeight    int
	playZoom      float64
	playPenaltyMs int
	playMaxScores int
	playDev       bool
	playMute      bool
	playSeed      int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	d := config.Defaults()
	rootCmd := &cobra.Command{
		Use:           "ispy",
		Short:         "Timed I-Spy picture game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&playLevels, "levels", d.LevelsDir, "directory containing levels.toml or levels.json")
	rootCmd.PersistentFlags().StringVar(&playDBPath, "db", d.DBPath, "leaderboard database path")
	rootCmd.PersistentFlags().IntVar(&playMaxScores, "max-scores", d.MaxScores, "number of scores kept on the leaderboard")
	rootCmd.Flags().StringVar(&playLogLevel, "log-level", d.LogLevel, "log level: debug, info, warn, error, none")
	rootCmd.Flags().IntVar(&playWidth, "width", d.WindowWidth, "window width")
	rootCmd.Flags().IntVar(&playHeight, "height", d.WindowHeight, "window height")
	rootCmd.Flags().Float64Var(&playZoom, "zoom", d.DefaultZoom, "desktop zoom for levels that do not set one")
	rootCmd.Flags().IntVar(&playPenaltyMs, "penalty-ms", d.PenaltyMs, "time added per wrong click")
	rootCmd.Flags().BoolVar(&playDev, "dev", false, "start with the level-authoring overlay on")
	rootCmd.Flags().BoolVar(&playMute, "mute", false, "start muted")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed for starting pans (0 picks one)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newLevelsCmd())

	return rootCmd
}

// resolveSettings layers defaults, the config file and explicitly set flags.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Defaults()
	fileCfg, err := loadFileConfig()
	if err != nil {
		return s, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Apply(&s)

	applyStringFlag(cmd, "levels", &s.LevelsDir, playLevels)
	applyStringFlag(cmd, "db", &s.DBPath, playDBPath)
	applyIntFlag(cmd, "max-scores", &s.MaxScores, playMaxScores)
	applyStringFlag(cmd, "log-level", &s.LogLevel, playLogLevel)
	applyIntFlag(cmd, "width", &s.WindowWidth, playWidth)
	applyIntFlag(cmd, "height", &s.WindowHeight, playHeight)
	applyFloatFlag(cmd, "zoom", &s.DefaultZoom, playZoom)
	applyIntFlag(cmd, "penalty-ms", &s.PenaltyMs, playPenaltyMs)

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, log.LevelFromString(settings.LogLevel))

	plat, err := openPlatform(context.Background(), settings, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := plat.Close(); cerr != nil {
			logErrf("failed to close leaderboard: %v\n", cerr)
		}
	}()

	seed := playSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debugf("seed %d", seed)

	g, err := game.New(game.Options{
		Levels: plat.Levels,
		Config: settings.SessionConfig(),
		Source: plat.Source,
		Board:  leaderboard.New(plat.Store, settings.MaxScores),
		Logger: logger,
		Rand:   rand.New(rand.NewSource(seed)),
		Dev:    playDev,
		Muted:  playMute,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(settings.WindowWidth, settings.WindowHeight)
	ebiten.SetWindowTitle("I Spy")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Infof("starting with %d levels", len(plat.Levels))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		_ = err
	}
}
