package bot

import (
	"errors"

	"go.uber.org/zap"

	"github.com/EgorLis/slotbot/internal/catalog"
	"github.com/EgorLis/slotbot/internal/chat"
	"github.com/EgorLis/slotbot/internal/lock"
	"github.com/EgorLis/slotbot/internal/storage"
	"github.com/EgorLis/slotbot/internal/summary"
)

const (
	DefaultPrefix       = "!"
	DefaultCleanupLimit = 100
)

// Options is everything New needs. Transport, Store and Catalog are required.
type Options struct {
	Transport chat.Transport
	Store     storage.Provider
	Catalog   *catalog.Catalog

	// Locker serializes mutations; an in-process lock when nil.
	Locker lock.Locker
	Logger *zap.Logger

	Prefix       string // DefaultPrefix when empty
	SummaryLimit int    // summary.DefaultLimit when zero
	CleanupLimit int    // DefaultCleanupLimit when zero, capped at chat.MaxHistory
}

func (o Options) withDefaults() (Options, error) {
	if o.Transport == nil {
		return o, errors.New("bot: transport is required")
	}
	if o.Store == nil {
		return o, errors.New("bot: store is required")
	}
	if o.Catalog == nil {
		return o, errors.New("bot: catalog is required")
	}
	if o.Locker == nil {
		o.Locker = lock.NewLocal()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.SummaryLimit <= 0 {
		o.SummaryLimit = summary.DefaultLimit
	}
	if o.CleanupLimit <= 0 {
		o.CleanupLimit = DefaultCleanupLimit
	}
	if o.CleanupLimit > chat.MaxHistory {
		o.CleanupLimit = chat.MaxHistory
	}
	return o, nil
}
