package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	configFile       = "config.json"
	reservationsFile = "reservations.json"
)

// Files keeps the display config and the reservations in two JSON files under
// one directory. The whole state is cached in memory and written through on
// every change.
type Files struct {
	mu   sync.Mutex
	dir  string
	cfg  DisplayConfig
	list []Reservation
}

// OpenFiles loads (or creates) both files under dir.
func OpenFiles(dir string) (*Files, error) {
	f := &Files{dir: dir, list: []Reservation{}}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := f.load(configFile, &f.cfg); err != nil {
		return nil, err
	}
	if err := f.load(reservationsFile, &f.list); err != nil {
		return nil, err
	}
	if f.list == nil { // file held "null"
		f.list = []Reservation{}
	}
	return f, nil
}

func (f *Files) load(name string, out any) error {
	path := filepath.Join(f.dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// create an empty file so the layout is visible on disk
			return f.save(name, out)
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (f *Files) save(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

func (f *Files) List(ctx context.Context) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Reservation, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *Files) ByUser(ctx context.Context, userID string) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.list {
		if r.UserID == userID {
			return r, nil
		}
	}
	return Reservation{}, ErrNotFound
}

func (f *Files) BySlot(ctx context.Context, slot string) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.list {
		if r.Slot == slot {
			return r, nil
		}
	}
	return Reservation{}, ErrNotFound
}

func (f *Files) Insert(ctx context.Context, r Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.list {
		if cur.UserID == r.UserID {
			return ErrUserReserved
		}
		if cur.Slot == r.Slot {
			return ErrSlotTaken
		}
	}
	next := append(f.list[:len(f.list):len(f.list)], r)
	if err := f.save(reservationsFile, next); err != nil {
		return err
	}
	f.list = next
	return nil
}

func (f *Files) DeleteByUser(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make([]Reservation, 0, len(f.list))
	for _, r := range f.list {
		if r.UserID != userID {
			next = append(next, r)
		}
	}
	n := len(f.list) - len(next)
	if n == 0 {
		return 0, nil
	}
	if err := f.save(reservationsFile, next); err != nil {
		return 0, err
	}
	f.list = next
	return n, nil
}

func (f *Files) DeleteAll(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.list)
	if err := f.save(reservationsFile, []Reservation{}); err != nil {
		return 0, err
	}
	f.list = []Reservation{}
	return n, nil
}

func (f *Files) Display(ctx context.Context) (DisplayConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, nil
}

func (f *Files) SaveDisplay(ctx context.Context, cfg DisplayConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.cfg.merge(cfg)
	if err := f.save(configFile, next); err != nil {
		return err
	}
	f.cfg = next
	return nil
}

func (f *Files) Close(ctx context.Context) error { return nil }
