package main

import (
	"context"

	"github.com/bee-mcc/ispy/internal/log"
	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/config"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/level"
)

// platform is where levels, pictures and scores come from on this build.
type platform struct {
	Levels []level.Definition
	Source assets.Source
	Store  leaderboard.Store
	close  func() error
}

func (p *platform) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

func openPlatform(ctx context.Context, s config.Settings, logger *log.Logger) (*platform, error) {
	pack, src, where, err := openLevels(ctx, s)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %d levels from %s", len(pack.Levels), where)

	st, closeStore, err := openStore(s)
	if err != nil {
		return nil, err
	}
	return &platform{
		Levels: pack.Resolved(),
		Source: src,
		Store:  st,
		close:  closeStore,
	}, nil
}
