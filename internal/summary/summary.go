// Package summary renders the reservation sheet posted in the reservation
// channel.
package summary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/EgorLis/slotbot/internal/catalog"
	"github.com/EgorLis/slotbot/internal/storage"
)

// DefaultLimit is Discord's message length cap, in characters.
const DefaultLimit = 2000

type Renderer struct {
	Catalog *catalog.Catalog
	Limit   int // characters; DefaultLimit when zero
}

// Render lays out every catalog slot, section by section, marking each one
// as claimed or available. The result never exceeds the limit.
func (r Renderer) Render(reservations []storage.Reservation) string {
	claims := make(map[string]string, len(reservations))
	for _, res := range reservations {
		claims[res.Slot] = res.UserID
	}

	var b strings.Builder
	b.WriteString(r.Catalog.Header)
	for _, s := range r.Catalog.Sections {
		fmt.Fprintf(&b, "\n**%s:**\n", s.Title)
		for _, name := range s.Slots {
			b.WriteString(Line(name, claims[name]))
			b.WriteByte('\n')
		}
	}

	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Truncate(b.String(), limit)
}

// Line is one slot's row on the sheet. An empty userID means the slot is free.
func Line(slot, userID string) string {
	if userID == "" {
		return slot + " – available"
	}
	return fmt.Sprintf("%s – <@%s>", slot, userID)
}

// Truncate returns text unchanged when it fits in limit characters.
// Otherwise it keeps whole lines, each with its newline, for as long as they
// fit, and drops the rest.
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	var b strings.Builder
	n := 0
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		size := utf8.RuneCountInString(line) + 1
		if n+size > limit {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
		n += size
	}
	return b.String()
}
