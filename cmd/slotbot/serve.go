package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/EgorLis/slotbot/internal/bot"
	"github.com/EgorLis/slotbot/internal/chat"
	"github.com/EgorLis/slotbot/internal/config"
	"github.com/EgorLis/slotbot/internal/lock"
	"github.com/EgorLis/slotbot/internal/storage"
)

type ServeCmd struct{}

func (c *ServeCmd) Run(app *App) error {
	if app.Config.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := app.Log
	store, err := openStore(ctx, app)
	if err != nil {
		log.Fatal("open store", zap.String("backend", app.Config.StoreBackend), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	locker, closeLocker, err := newLocker(ctx, app.Config, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	discord, err := chat.NewDiscord(app.Config.DiscordToken)
	if err != nil {
		return err
	}

	b, err := bot.New(bot.Options{
		Transport:    discord,
		Store:        store,
		Catalog:      app.Catalog,
		Locker:       locker,
		Logger:       log.Named("bot"),
		Prefix:       app.Config.CommandPrefix,
		SummaryLimit: app.Config.SummaryLimit,
		CleanupLimit: app.Config.CleanupScanLimit,
	})
	if err != nil {
		return err
	}

	discord.OnConnecting = func() { log.Info("connecting to discord") }
	// every (re)connect may have missed changes made meanwhile
	discord.OnConnected = func() {
		log.Info("connected to discord")
		go b.Resync()
	}
	discord.OnDisconnected = func() { log.Warn("disconnected from discord") }
	discord.OnError = func(err error) { log.Error("discord", zap.Error(err)) }
	discord.OnMessage = b.Dispatch

	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Stop()

	if err := discord.Connect(ctx); err != nil {
		return err
	}
	defer discord.Disconnect()

	log.Info("running, press Ctrl+C to stop",
		zap.String("store", app.Config.StoreBackend),
		zap.String("lock", app.Config.LockBackend),
		zap.String("prefix", app.Config.CommandPrefix))

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

func openStore(ctx context.Context, app *App) (storage.Provider, error) {
	return storage.Open(ctx, app.Config.Storage())
}

// newLocker picks the mutation lock. The returned func releases its client.
func newLocker(ctx context.Context, cfg config.Config, log *zap.Logger) (lock.Locker, func(), error) {
	if cfg.LockBackend != "redis" {
		return lock.NewLocal(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}

	l := lock.NewRedis(client, lock.DefaultKey, cfg.LockTTL)
	l.OnReleaseError = func(err error) { log.Warn("release redis lock", zap.Error(err)) }
	return l, func() { _ = client.Close() }, nil
}
