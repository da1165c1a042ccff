//go:build !js || !wasm

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/config"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/levelpack"
	"github.com/bee-mcc/ispy/pkg/store"
)

func loadFileConfig() (config.FileConfig, error) {
	return config.LoadConfig(config.DefaultConfigPath())
}

func openLevels(_ context.Context, s config.Settings) (*levelpack.Pack, assets.Source, string, error) {
	fsys := os.DirFS(s.LevelsDir)
	pack, name, err := levelpack.Find(fsys)
	if err != nil {
		return nil, nil, "", fmt.Errorf("levels in %s: %w", s.LevelsDir, err)
	}
	return pack, assets.FSSource{FS: fsys}, filepath.Join(s.LevelsDir, name), nil
}

func openStore(s config.Settings) (leaderboard.Store, func() error, error) {
	db, err := store.OpenSQLite(s.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return db, db.Close, nil
}
