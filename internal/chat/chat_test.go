package chat

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestMentions(t *testing.T) {
	require.Equal(t, "<@42>", UserMention("42"))
	require.Equal(t, "<#7>", ChannelMention("7"))
}

func TestFromDiscord(t *testing.T) {
	m := fromDiscord(&discordgo.Message{
		ID: "1", ChannelID: "2", GuildID: "3", Content: "!r france",
		Author: &discordgo.User{ID: "4", Bot: true},
	})
	require.Equal(t, Message{ID: "1", ChannelID: "2", GuildID: "3", AuthorID: "4", AuthorBot: true, Content: "!r france"}, m)

	// system messages may come without an author
	m = fromDiscord(&discordgo.Message{ID: "5"})
	require.Equal(t, Message{ID: "5"}, m)
}

func TestWrapNotFound(t *testing.T) {
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	require.ErrorIs(t, wrapNotFound("fetch message", notFound), ErrNotFound)

	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	err := wrapNotFound("edit message", forbidden)
	require.False(t, errors.Is(err, ErrNotFound))
	require.ErrorAs(t, err, &forbidden)
}

func TestNewDiscordNeedsToken(t *testing.T) {
	_, err := NewDiscord("")
	require.Error(t, err)

	d, err := NewDiscord("token")
	require.NoError(t, err)
	require.False(t, d.IsConnected())
}
