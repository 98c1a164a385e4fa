package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EgorLis/slotbot/internal/chat"
	"github.com/EgorLis/slotbot/internal/lock"
	"github.com/EgorLis/slotbot/internal/match"
	"github.com/EgorLis/slotbot/internal/storage"
	"github.com/EgorLis/slotbot/internal/summary"
)

// resyncInterval collapses bursts of reconnects into a single refresh.
const resyncInterval = 2 * time.Second

type Bot struct {
	tr       chat.Transport
	store    storage.Provider
	locker   lock.Locker
	matcher  *match.Matcher
	renderer summary.Renderer
	log      *zap.Logger

	prefix       string
	cleanupLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	resyncMu   sync.Mutex
	lastResync time.Time
}

func New(opts Options) (*Bot, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	m, err := opts.Catalog.Matcher()
	if err != nil {
		return nil, err
	}
	return &Bot{
		tr:           opts.Transport,
		store:        opts.Store,
		locker:       opts.Locker,
		matcher:      m,
		renderer:     summary.Renderer{Catalog: opts.Catalog, Limit: opts.SummaryLimit},
		log:          opts.Logger,
		prefix:       opts.Prefix,
		cleanupLimit: opts.CleanupLimit,
	}, nil
}

// Start makes the bot accept messages from Dispatch. Handlers run with a
// context derived from ctx.
func (bot *Bot) Start(ctx context.Context) error {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	if bot.cancel != nil {
		return errors.New("bot already started")
	}
	bot.ctx, bot.cancel = context.WithCancel(ctx)
	return nil
}

// Stop rejects further messages and waits for the running handlers.
// Calling it twice is harmless.
func (bot *Bot) Stop() {
	bot.mu.Lock()
	cancel := bot.cancel
	bot.cancel = nil
	bot.mu.Unlock()

	if cancel != nil {
		cancel()
		bot.wg.Wait()
	}
}

// Dispatch handles m on the caller's goroutine. Messages arriving before
// Start or after Stop are dropped.
func (bot *Bot) Dispatch(m chat.Message) {
	bot.mu.Lock()
	if bot.cancel == nil {
		bot.mu.Unlock()
		return
	}
	ctx := bot.ctx
	bot.wg.Add(1)
	bot.mu.Unlock()

	defer bot.wg.Done()
	bot.HandleMessage(ctx, m)
}

// Resync re-renders the summary, e.g. after the gateway reconnects and
// reservations may have changed meanwhile from another process.
func (bot *Bot) Resync() {
	bot.resyncMu.Lock()
	if time.Since(bot.lastResync) < resyncInterval {
		bot.resyncMu.Unlock()
		return
	}
	bot.lastResync = time.Now()
	bot.resyncMu.Unlock()

	bot.mu.Lock()
	if bot.cancel == nil {
		bot.mu.Unlock()
		return
	}
	ctx := bot.ctx
	bot.wg.Add(1)
	bot.mu.Unlock()
	defer bot.wg.Done()

	unlock, err := bot.locker.Lock(ctx)
	if err != nil {
		bot.log.Warn("resync: lock", zap.Error(err))
		return
	}
	defer unlock()
	bot.RefreshSummary(ctx)
}

// HandleMessage runs the command in m, if any, and then keeps the
// reservation channel clean.
func (bot *Bot) HandleMessage(ctx context.Context, m chat.Message) {
	if !m.AuthorBot {
		bot.runCommand(ctx, m)
	}
	bot.guardChannel(ctx, m)
}

func (bot *Bot) runCommand(ctx context.Context, m chat.Message) {
	err := bot.HandleCommand(ctx, m)
	if err == nil {
		return
	}
	log := bot.log.With(
		zap.String("channel_id", m.ChannelID),
		zap.String("user_id", m.AuthorID),
		zap.String("command", m.Content),
	)
	var rej rejection
	if errors.As(err, &rej) {
		log.Debug("command rejected", zap.String("reply", string(rej)))
		bot.say(ctx, m.ChannelID, string(rej))
		return
	}
	log.Error("command failed", zap.Error(err))
	bot.say(ctx, m.ChannelID, replyFailure)
}

// guardChannel deletes user posts in the reservation channel once the
// summary has been published.
func (bot *Bot) guardChannel(ctx context.Context, m chat.Message) {
	if m.AuthorBot {
		return
	}
	cfg, err := bot.store.Display(ctx)
	if err != nil {
		bot.log.Warn("guard: read display config", zap.Error(err))
		return
	}
	if m.ChannelID != cfg.ChannelID || cfg.MessageID == "" || m.ID == cfg.MessageID {
		return
	}
	if err := bot.tr.Delete(ctx, m.ChannelID, m.ID); err != nil {
		bot.log.Debug("guard: delete message",
			zap.String("channel_id", m.ChannelID),
			zap.String("message_id", m.ID),
			zap.Error(err))
	}
}

func (bot *Bot) say(ctx context.Context, channelID, text string) {
	if _, err := bot.tr.Send(ctx, channelID, text); err != nil {
		bot.log.Warn("send reply", zap.String("channel_id", channelID), zap.Error(err))
	}
}
