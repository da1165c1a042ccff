//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"syscall/js"

	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/config"
	"github.com/bee-mcc/ispy/pkg/leaderboard"
	"github.com/bee-mcc/ispy/pkg/levelpack"
	"github.com/bee-mcc/ispy/pkg/store"
)

// There is no config file in the browser.
func loadFileConfig() (config.FileConfig, error) {
	return config.FileConfig{}, nil
}

// levelsBase resolves dir against the page URL; fetch needs an absolute URL.
func levelsBase(dir string) (string, error) {
	page, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(dir + "/")
	if err != nil {
		return "", err
	}
	return page.ResolveReference(ref).String(), nil
}

func fetchPack(ctx context.Context, src assets.Source) (*levelpack.Pack, error) {
	for _, name := range levelpack.DefaultNames {
		rc, err := src.Open(ctx, name)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &levelpack.ConfigError{Reason: "read " + name, Err: err}
		}
		format, err := levelpack.FormatFor(name)
		if err != nil {
			return nil, err
		}
		return levelpack.Parse(data, format)
	}
	return nil, &levelpack.ConfigError{Reason: "no level pack found", Err: levelpack.ErrNoLevels}
}

func openLevels(ctx context.Context, s config.Settings) (*levelpack.Pack, assets.Source, string, error) {
	base, err := levelsBase(s.LevelsDir)
	if err != nil {
		return nil, nil, "", fmt.Errorf("levels url: %w", err)
	}
	src := assets.HTTPSource{Base: base}
	pack, err := fetchPack(ctx, src)
	if err != nil {
		return nil, nil, "", fmt.Errorf("levels at %s: %w", base, err)
	}
	return pack, src, base, nil
}

func openStore(config.Settings) (leaderboard.Store, func() error, error) {
	return store.NewLocalStorage(store.DefaultStorageKey), func() error { return nil }, nil
}
