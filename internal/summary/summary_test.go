package summary

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/EgorLis/slotbot/internal/catalog"
	"github.com/EgorLis/slotbot/internal/storage"
)

func TestRenderDefaultCatalog(t *testing.T) {
	r := Renderer{Catalog: catalog.Default()}

	text := r.Render([]storage.Reservation{
		{UserID: "42", Slot: "🇫🇷 France"},
		{UserID: "7", Slot: "🇩🇪 Germany"},
	})

	require.True(t, strings.HasPrefix(text, "# SATURDAY HISTO RESERVATION SHEET\n📋\n"))
	require.Contains(t, text, "(coops included)\n\n**AXIS MAJORS:**\n🇩🇪 Germany – <@7>\n🇩🇪 Germany (coop) – available\n")
	require.Contains(t, text, "\n**ALLIED MAJORS:**\n")
	require.Contains(t, text, "🇫🇷 France – <@42>\n")
	require.True(t, strings.HasSuffix(text, "**FILLER:**\nFiller 1 – available\nFiller 2 – available\nFiller 3 – available\nFiller 4 – available\nFiller 5 – available\n"))
	require.LessOrEqual(t, utf8.RuneCountInString(text), DefaultLimit)

	// section order follows the catalog
	iAxis := strings.Index(text, "**AXIS MINORS:**")
	iAllied := strings.Index(text, "**ALLIED MINORS:**")
	require.Less(t, iAxis, iAllied)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := Renderer{Catalog: catalog.Default()}
	a := r.Render([]storage.Reservation{{UserID: "1", Slot: "🇬🇧 UK"}, {UserID: "2", Slot: "🇺🇸 USA"}})
	b := r.Render([]storage.Reservation{{UserID: "2", Slot: "🇺🇸 USA"}, {UserID: "1", Slot: "🇬🇧 UK"}})
	require.Equal(t, a, b)

	// reservations for slots outside the catalog are not shown
	c := r.Render([]storage.Reservation{{UserID: "2", Slot: "🇺🇸 USA"}, {UserID: "1", Slot: "🇬🇧 UK"}, {UserID: "9", Slot: "Atlantis"}})
	require.Equal(t, a, c)
	require.NotContains(t, c, "Atlantis")
}

func TestRenderTruncatesAtLineBoundary(t *testing.T) {
	r := Renderer{Catalog: catalog.Default(), Limit: 400}
	full := Renderer{Catalog: catalog.Default()}.Render(nil)

	text := r.Render(nil)
	require.LessOrEqual(t, utf8.RuneCountInString(text), 400)
	require.True(t, strings.HasSuffix(text, "\n"))
	require.True(t, strings.HasPrefix(full, text))

	// the next line of the full text would not have fitted
	rest := strings.TrimPrefix(full, text)
	next := strings.SplitN(rest, "\n", 2)[0]
	require.Greater(t, utf8.RuneCountInString(text)+utf8.RuneCountInString(next)+1, 400)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc\ndef\n", Truncate("abc\ndef\n", 8))
	require.Equal(t, "abc\n", Truncate("abc\ndef\nghi\n", 7))
	require.Equal(t, "", Truncate("abcdef\n", 3))
	// counted in characters, not bytes
	require.Equal(t, "ñññ\n", Truncate("ñññ\nñññ\n", 5))

	long := strings.Repeat("🇫🇷 France – available\n", 200)
	out := Truncate(long, DefaultLimit)
	require.LessOrEqual(t, utf8.RuneCountInString(out), DefaultLimit)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		require.Equal(t, "🇫🇷 France – available", line)
	}
}

func TestLine(t *testing.T) {
	require.Equal(t, "🇫🇷 France – available", Line("🇫🇷 France", ""))
	require.Equal(t, "🇫🇷 France – <@42>", Line("🇫🇷 France", "42"))
}
