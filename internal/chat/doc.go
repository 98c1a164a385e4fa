// Package chat is the bot's view of the chat service: a small Transport
// interface and its Discord implementation.
//
// Discord wraps a discordgo session. Gateway events are surfaced through
// callback fields, set before Connect:
//
//   - OnConnecting, OnConnected, OnDisconnected, OnError, OnMessage.
//
// The gateway reconnects on its own; OnConnected fires again after every
// successful (re)connect.
//
// Example:
//
//	d, err := chat.NewDiscord(token)
//	if err != nil { log.Fatal(err) }
//	d.OnMessage = func(m chat.Message) { fmt.Println(m.Content) }
//	if err := d.Connect(ctx); err != nil { log.Fatal(err) }
//	defer d.Disconnect()
//
//	_, _ = d.Send(ctx, channelID, "hello")
package chat
