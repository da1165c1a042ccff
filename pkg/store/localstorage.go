//go:build js && wasm

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/bee-mcc/ispy/pkg/leaderboard"
)

const DefaultStorageKey = "ispySmokey_leaderboard"

// LocalStorage keeps the list as JSON under one window.localStorage key.
type LocalStorage struct {
	Key string
}

func NewLocalStorage(key string) *LocalStorage {
	if key == "" {
		key = DefaultStorageKey
	}
	return &LocalStorage{Key: key}
}

func storage() (js.Value, error) {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return js.Value{}, errors.New("localStorage not available")
	}
	return ls, nil
}

func (s *LocalStorage) Load(context.Context) ([]leaderboard.Entry, error) {
	ls, err := storage()
	if err != nil {
		return nil, err
	}
	raw := ls.Call("getItem", s.Key)
	if raw.IsNull() || raw.IsUndefined() {
		return nil, nil
	}
	var entries []leaderboard.Entry
	if err := json.Unmarshal([]byte(raw.String()), &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Key, err)
	}
	return entries, nil
}

func (s *LocalStorage) Save(_ context.Context, entries []leaderboard.Entry) error {
	ls, err := storage()
	if err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	ls.Call("setItem", s.Key, string(data))
	return nil
}
