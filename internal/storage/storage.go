package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUserReserved = errors.New("user already holds a reservation")
	ErrSlotTaken    = errors.New("slot already reserved")
)

// Reservation binds one user to one catalog slot.
type Reservation struct {
	UserID string `json:"user_id"`
	Slot   string `json:"slot"`
}

// DisplayConfig tracks where the summary lives. Empty fields mean "not set".
type DisplayConfig struct {
	ChannelID string `json:"channel_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// Ready reports whether both the channel and the summary message are known.
func (c DisplayConfig) Ready() bool {
	return c.ChannelID != "" && c.MessageID != ""
}

// merge overlays the non-empty fields of upd onto c.
func (c DisplayConfig) merge(upd DisplayConfig) DisplayConfig {
	if upd.ChannelID != "" {
		c.ChannelID = upd.ChannelID
	}
	if upd.MessageID != "" {
		c.MessageID = upd.MessageID
	}
	return c
}

type Reservations interface {
	// List returns every reservation. Order is backend-defined.
	List(ctx context.Context) ([]Reservation, error)
	ByUser(ctx context.Context, userID string) (Reservation, error)
	BySlot(ctx context.Context, slot string) (Reservation, error)
	// Insert stores r unless the user or the slot is already taken, in which
	// case it returns ErrUserReserved or ErrSlotTaken.
	Insert(ctx context.Context, r Reservation) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

type Settings interface {
	Display(ctx context.Context) (DisplayConfig, error)
	// SaveDisplay upserts the non-empty fields of cfg.
	SaveDisplay(ctx context.Context, cfg DisplayConfig) error
}

// Provider is one persistence backend. All backends share the same semantics.
type Provider interface {
	Reservations
	Settings
	Close(ctx context.Context) error
}
