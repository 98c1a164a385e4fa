package chat

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("message not found")

// Message is the part of a chat message the bot looks at.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// Transport is everything the bot needs from the chat service.
type Transport interface {
	Send(ctx context.Context, channelID, text string) (Message, error)
	Fetch(ctx context.Context, channelID, messageID string) (Message, error)
	Edit(ctx context.Context, channelID, messageID, text string) error
	Delete(ctx context.Context, channelID, messageID string) error
	// History lists up to limit messages posted after afterID.
	History(ctx context.Context, channelID, afterID string, limit int) ([]Message, error)
	IsAdmin(ctx context.Context, userID, channelID string) (bool, error)
}

func UserMention(id string) string    { return "<@" + id + ">" }
func ChannelMention(id string) string { return "<#" + id + ">" }
