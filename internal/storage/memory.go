package storage

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps everything in process memory.
type Memory struct {
	mu     sync.RWMutex
	byUser map[string]string // user -> slot
	bySlot map[string]string // slot -> user
	cfg    DisplayConfig
}

func NewMemory() *Memory {
	return &Memory{byUser: make(map[string]string), bySlot: make(map[string]string)}
}

func (m *Memory) List(ctx context.Context) ([]Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Reservation, 0, len(m.byUser))
	for u, s := range m.byUser {
		out = append(out, Reservation{UserID: u, Slot: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *Memory) ByUser(ctx context.Context, userID string) (Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byUser[userID]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return Reservation{UserID: userID, Slot: s}, nil
}

func (m *Memory) BySlot(ctx context.Context, slot string) (Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.bySlot[slot]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return Reservation{UserID: u, Slot: slot}, nil
}

func (m *Memory) Insert(ctx context.Context, r Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[r.UserID]; ok {
		return ErrUserReserved
	}
	if _, ok := m.bySlot[r.Slot]; ok {
		return ErrSlotTaken
	}
	m.byUser[r.UserID] = r.Slot
	m.bySlot[r.Slot] = r.UserID
	return nil
}

func (m *Memory) DeleteByUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byUser[userID]
	if !ok {
		return 0, nil
	}
	delete(m.byUser, userID)
	delete(m.bySlot, s)
	return 1, nil
}

func (m *Memory) DeleteAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.byUser)
	m.byUser = make(map[string]string)
	m.bySlot = make(map[string]string)
	return n, nil
}

func (m *Memory) Display(ctx context.Context) (DisplayConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg, nil
}

func (m *Memory) SaveDisplay(ctx context.Context, cfg DisplayConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = m.cfg.merge(cfg)
	return nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }
