package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// MaxHistory is the largest page Discord returns for a history request.
const MaxHistory = 100

type Discord struct {
	session   *discordgo.Session
	connected atomic.Bool

	OnConnecting   func()
	OnConnected    func()
	OnDisconnected func()
	OnError        func(error)
	OnMessage      func(Message)
}

// NewDiscord prepares a bot session. Nothing is dialled until Connect.
func NewDiscord(token string) (*Discord, error) {
	if token == "" {
		return nil, errors.New("discord token is empty")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	d := &Discord{session: s}

	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) {
		d.connected.Store(true)
		if d.OnConnected != nil {
			d.OnConnected()
		}
	})
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
		d.connected.Store(true)
		if d.OnConnected != nil {
			d.OnConnected()
		}
	})
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		d.connected.Store(false)
		if d.OnDisconnected != nil {
			d.OnDisconnected()
		}
	})
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if d.OnMessage != nil && m.Message != nil {
			d.OnMessage(fromDiscord(m.Message))
		}
	})
	return d, nil
}

// Connect opens the gateway. ctx only bounds the initial handshake; the
// session stays open until Disconnect.
func (d *Discord) Connect(ctx context.Context) error {
	if d.OnConnecting != nil {
		d.OnConnecting()
	}
	done := make(chan error, 1)
	go func() { done <- d.session.Open() }()

	select {
	case err := <-done:
		if err != nil {
			d.reportError(err)
			return fmt.Errorf("open discord gateway: %w", err)
		}
		return nil
	case <-ctx.Done():
		_ = d.session.Close()
		return ctx.Err()
	}
}

func (d *Discord) Disconnect() {
	if err := d.session.Close(); err != nil {
		d.reportError(err)
	}
	d.connected.Store(false)
}

func (d *Discord) IsConnected() bool {
	return d.connected.Load()
}

func (d *Discord) Send(ctx context.Context, channelID, text string) (Message, error) {
	m, err := d.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return Message{}, fmt.Errorf("send message: %w", err)
	}
	return fromDiscord(m), nil
}

func (d *Discord) Fetch(ctx context.Context, channelID, messageID string) (Message, error) {
	m, err := d.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return Message{}, wrapNotFound("fetch message", err)
	}
	return fromDiscord(m), nil
}

func (d *Discord) Edit(ctx context.Context, channelID, messageID, text string) error {
	if _, err := d.session.ChannelMessageEdit(channelID, messageID, text, discordgo.WithContext(ctx)); err != nil {
		return wrapNotFound("edit message", err)
	}
	return nil
}

func (d *Discord) Delete(ctx context.Context, channelID, messageID string) error {
	if err := d.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return wrapNotFound("delete message", err)
	}
	return nil
}

func (d *Discord) History(ctx context.Context, channelID, afterID string, limit int) ([]Message, error) {
	if limit <= 0 || limit > MaxHistory {
		limit = MaxHistory
	}
	msgs, err := d.session.ChannelMessages(channelID, limit, "", afterID, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("channel history: %w", err)
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, fromDiscord(m))
	}
	return out, nil
}

func (d *Discord) IsAdmin(ctx context.Context, userID, channelID string) (bool, error) {
	perms, err := d.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("resolve permissions: %w", err)
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}

func (d *Discord) reportError(err error) {
	if d.OnError != nil {
		d.OnError(err)
	}
}

func fromDiscord(m *discordgo.Message) Message {
	out := Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
		out.AuthorBot = m.Author.Bot
	}
	return out
}

func wrapNotFound(op string, err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrNotFound, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
