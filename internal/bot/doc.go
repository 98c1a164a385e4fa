// Package bot is the glue between the chat transport, the reservation store
// and the catalog. The bot:
//   - listens to every message and runs prefixed commands (setchannel,
//     startlist, reserve/r, cancel, clear, cleanbelow, help);
//   - keeps one summary message in the reservation channel up to date;
//   - deletes anything users post in the reservation channel once a summary
//     exists, so the channel only holds the sheet and the bot's replies.
//
// Every command that changes state runs under the configured lock.Locker,
// since the transport delivers messages concurrently.
//
// Lifecycle:
//   - Build the bot with New(Options{...}).
//   - Start(ctx), then feed messages with Dispatch (usually from
//     chat.Discord.OnMessage) and call Resync after each (re)connect.
//   - Stop() waits for in-flight handlers.
//
// Example:
//
//	b, err := bot.New(bot.Options{
//		Transport: discord,
//		Store:     store,
//		Catalog:   catalog.Default(),
//		Logger:    logger,
//	})
//	if err != nil { log.Fatal(err) }
//
//	b.Start(ctx)
//	discord.OnMessage = b.Dispatch
//	discord.OnConnected = func() { go b.Resync() }
//	defer b.Stop()
//
// Reservations are fuzzy-matched against the catalog (see package match), so
// "!r gremany" claims "🇩🇪 Germany".
package bot
