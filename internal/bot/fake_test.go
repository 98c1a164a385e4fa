package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/EgorLis/slotbot/internal/chat"
)

// fakeTransport records what the bot does to the chat.
type fakeTransport struct {
	mu       sync.Mutex
	next     int
	messages map[string]chat.Message
	sent     []chat.Message
	edits    []string
	deleted  []string

	admins     map[string]bool
	history    []chat.Message
	failDelete map[string]bool
	failFetch  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		messages:   make(map[string]chat.Message),
		admins:     make(map[string]bool),
		failDelete: make(map[string]bool),
	}
}

func (f *fakeTransport) Send(ctx context.Context, channelID, text string) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	m := chat.Message{ID: fmt.Sprintf("bot-%d", f.next), ChannelID: channelID, AuthorID: "bot", AuthorBot: true, Content: text}
	f.messages[m.ID] = m
	f.sent = append(f.sent, m)
	return m, nil
}

func (f *fakeTransport) Fetch(ctx context.Context, channelID, messageID string) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if f.failFetch || !ok || m.ChannelID != channelID {
		return chat.Message{}, chat.ErrNotFound
	}
	return m, nil
}

func (f *fakeTransport) Edit(ctx context.Context, channelID, messageID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return chat.ErrNotFound
	}
	m.Content = text
	f.messages[messageID] = m
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeTransport) Delete(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[messageID] {
		return errors.New("missing permissions")
	}
	delete(f.messages, messageID)
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) History(ctx context.Context, channelID, afterID string, limit int) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]chat.Message(nil), f.history...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransport) IsAdmin(ctx context.Context, userID, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admins[userID], nil
}

// replies returns the texts the bot sent, summaries included.
func (f *fakeTransport) replies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Content)
	}
	return out
}

func (f *fakeTransport) lastReply() string {
	r := f.replies()
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1]
}

func (f *fakeTransport) content(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[id].Content
}

func (f *fakeTransport) wasDeleted(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.deleted {
		if d == id {
			return true
		}
	}
	return false
}
