package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/EgorLis/slotbot/internal/chat"
	"github.com/EgorLis/slotbot/internal/storage"
)

const (
	replyChannelSet      = "✅ Reservation channel set to %s"
	replyNotConfigured   = "❌ This isn't the configured reservation channel. Use `%ssetchannel` to set it."
	replyListStarted     = "✅ Reservation list started."
	replyWrongChannel    = "❌ Please use this command in the reservation channel."
	replyAlreadyReserved = "%s, you already reserved: %s"
	replyNotRecognized   = "❌ Country not recognized. Please try again."
	replySlotTaken       = "%s is already reserved."
	replyReserved        = "%s has reserved %s ✅"
	replyNothingToCancel = "You have no reservation to cancel."
	replyCancelled       = "%s's reservation has been cancelled ❌"
	replyCleared         = "All reservations cleared 🧹"
	replyNotListChannel  = "❌ This isn't the reservation channel."
	replyNoSummary       = "❌ Reservation message not found."
	replyCleaned         = "🧹 Deleted %d messages below the reservation list."
	replyNotAdmin        = "❌ You need administrator permission to use this command."
	replyReserveUsage    = "❌ Usage: %sreserve <country>"
	replyFailure         = "❌ Something went wrong, please try again later."
)

// rejection is a refusal the user sees verbatim.
type rejection string

func (r rejection) Error() string { return string(r) }

func reject(format string, args ...any) error {
	return rejection(fmt.Sprintf(format, args...))
}

// HandleCommand runs the command in m. Rejections come back as errors whose
// text is the reply; any other error is a store or transport failure.
// Messages without the prefix and unknown commands are ignored.
func (bot *Bot) HandleCommand(ctx context.Context, m chat.Message) error {
	cmd, arg, ok := parseCommand(m.Content, bot.prefix)
	if !ok {
		return nil
	}

	say := func(s string) { bot.say(ctx, m.ChannelID, s) }

	switch cmd {

	case "help":
		p := bot.prefix
		say(strings.Join([]string{
			p + "reserve <country> (or " + p + "r) - claim a slot",
			p + "cancel - drop your reservation",
			p + "startlist - post the reservation sheet here",
			p + "setchannel - make this the reservation channel (admin)",
			p + "clear - remove every reservation (admin)",
			p + "cleanbelow - delete user messages below the sheet (admin)",
		}, "\n"))
		return nil

	// ---------- channel & sheet ----------
	case "setchannel":
		if err := bot.requireAdmin(ctx, m); err != nil {
			return err
		}
		return bot.mutate(ctx, func() error {
			if err := bot.store.SaveDisplay(ctx, storage.DisplayConfig{ChannelID: m.ChannelID}); err != nil {
				return fmt.Errorf("save display config: %w", err)
			}
			say(fmt.Sprintf(replyChannelSet, chat.ChannelMention(m.ChannelID)))
			return nil
		})

	case "startlist":
		if err := bot.requireChannel(ctx, m, fmt.Sprintf(replyNotConfigured, bot.prefix)); err != nil {
			return err
		}
		return bot.mutate(ctx, func() error {
			text, err := bot.renderSummary(ctx)
			if err != nil {
				return err
			}
			sent, err := bot.tr.Send(ctx, m.ChannelID, text)
			if err != nil {
				return fmt.Errorf("publish summary: %w", err)
			}
			cfg := storage.DisplayConfig{ChannelID: m.ChannelID, MessageID: sent.ID}
			if err := bot.store.SaveDisplay(ctx, cfg); err != nil {
				return fmt.Errorf("save display config: %w", err)
			}
			say(replyListStarted)
			return nil
		})

	// ---------- reservations ----------
	case "reserve", "r":
		if err := bot.requireChannel(ctx, m, replyWrongChannel); err != nil {
			return err
		}
		if arg == "" {
			return reject(replyReserveUsage, bot.prefix)
		}
		return bot.mutate(ctx, func() error { return bot.reserve(ctx, m, arg) })

	case "cancel":
		if err := bot.requireChannel(ctx, m, replyWrongChannel); err != nil {
			return err
		}
		return bot.mutate(ctx, func() error {
			n, err := bot.store.DeleteByUser(ctx, m.AuthorID)
			if err != nil {
				return fmt.Errorf("delete reservation: %w", err)
			}
			if n == 0 {
				return rejection(replyNothingToCancel)
			}
			say(fmt.Sprintf(replyCancelled, chat.UserMention(m.AuthorID)))
			bot.RefreshSummary(ctx)
			return nil
		})

	// ---------- admin ----------
	case "clear":
		if err := bot.requireAdmin(ctx, m); err != nil {
			return err
		}
		if err := bot.requireChannel(ctx, m, replyWrongChannel); err != nil {
			return err
		}
		return bot.mutate(ctx, func() error {
			if _, err := bot.store.DeleteAll(ctx); err != nil {
				return fmt.Errorf("delete reservations: %w", err)
			}
			say(replyCleared)
			bot.RefreshSummary(ctx)
			return nil
		})

	case "cleanbelow":
		if err := bot.requireAdmin(ctx, m); err != nil {
			return err
		}
		cfg, err := bot.store.Display(ctx)
		if err != nil {
			return fmt.Errorf("read display config: %w", err)
		}
		if cfg.ChannelID != m.ChannelID {
			return rejection(replyNotListChannel)
		}
		if cfg.MessageID == "" {
			return rejection(replyNoSummary)
		}
		say(fmt.Sprintf(replyCleaned, bot.cleanBelow(ctx, m.ChannelID, cfg.MessageID)))
		return nil

	default:
		bot.log.Debug("unknown command", zap.String("command", cmd))
		return nil
	}
}

func (bot *Bot) reserve(ctx context.Context, m chat.Message, input string) error {
	user := chat.UserMention(m.AuthorID)

	held, err := bot.store.ByUser(ctx, m.AuthorID)
	switch {
	case err == nil:
		return reject(replyAlreadyReserved, user, held.Slot)
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("look up reservation: %w", err)
	}

	slot, ok := bot.matcher.Match(input)
	if !ok {
		return rejection(replyNotRecognized)
	}

	switch _, err := bot.store.BySlot(ctx, slot); {
	case err == nil:
		return reject(replySlotTaken, slot)
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("look up slot: %w", err)
	}

	err = bot.store.Insert(ctx, storage.Reservation{UserID: m.AuthorID, Slot: slot})
	switch {
	case errors.Is(err, storage.ErrUserReserved):
		// claimed by another process between the check and the insert
		if held, lerr := bot.store.ByUser(ctx, m.AuthorID); lerr == nil {
			return reject(replyAlreadyReserved, user, held.Slot)
		}
		return fmt.Errorf("insert reservation: %w", err)
	case errors.Is(err, storage.ErrSlotTaken):
		return reject(replySlotTaken, slot)
	case err != nil:
		return fmt.Errorf("insert reservation: %w", err)
	}

	bot.say(ctx, m.ChannelID, fmt.Sprintf(replyReserved, user, slot))
	bot.RefreshSummary(ctx)
	return nil
}

// cleanBelow deletes user messages posted after the summary and returns how
// many went away.
func (bot *Bot) cleanBelow(ctx context.Context, channelID, summaryID string) int {
	msgs, err := bot.tr.History(ctx, channelID, summaryID, bot.cleanupLimit)
	if err != nil {
		bot.log.Warn("cleanbelow: channel history", zap.String("channel_id", channelID), zap.Error(err))
		return 0
	}
	deleted := 0
	for _, msg := range msgs {
		if msg.AuthorBot {
			continue
		}
		if err := bot.tr.Delete(ctx, channelID, msg.ID); err != nil {
			bot.log.Debug("cleanbelow: delete message", zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted
}

// mutate runs fn while holding the mutation lock.
func (bot *Bot) mutate(ctx context.Context, fn func() error) error {
	unlock, err := bot.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (bot *Bot) requireAdmin(ctx context.Context, m chat.Message) error {
	ok, err := bot.tr.IsAdmin(ctx, m.AuthorID, m.ChannelID)
	if err != nil {
		return fmt.Errorf("check permissions: %w", err)
	}
	if !ok {
		return rejection(replyNotAdmin)
	}
	return nil
}

// requireChannel rejects with reply unless m was posted in the reservation
// channel.
func (bot *Bot) requireChannel(ctx context.Context, m chat.Message, reply string) error {
	cfg, err := bot.store.Display(ctx)
	if err != nil {
		return fmt.Errorf("read display config: %w", err)
	}
	if cfg.ChannelID == "" || cfg.ChannelID != m.ChannelID {
		return rejection(reply)
	}
	return nil
}

// parseCommand splits "!reserve  south africa" into ("reserve", "south africa").
// The command name is case-insensitive; the argument is kept as typed.
func parseCommand(text, prefix string) (cmd, arg string, ok bool) {
	text = strings.TrimSpace(text)
	body, found := strings.CutPrefix(text, prefix)
	if !found || body == "" {
		return "", "", false
	}
	end := strings.IndexFunc(body, unicode.IsSpace)
	if end == 0 {
		return "", "", false
	}
	if end < 0 {
		return strings.ToLower(body), "", true
	}
	return strings.ToLower(body[:end]), strings.TrimSpace(body[end:]), true
}
