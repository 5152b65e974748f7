// Package transport carries encoded dictionaries between the display client
// and its weather companion over a WebSocket connection.
//
// A Link holds two bounded buffers. Send encodes a dictionary and offers it
// to the outbox without blocking, failing with ErrOutboxFull or
// ErrNotConnected when it cannot be queued. Inbound binary messages are
// decoded and queued on the inbox; when the inbox is full the newest message
// is dropped and logged. A single dispatcher goroutine drains the inbox and
// calls the Handler, so handlers never run concurrently.
//
// Run dials the companion and redials with exponential backoff
// (github.com/cenkalti/backoff) whenever the connection is lost. Every
// successful connect is reported through Handler.OnConnect.
//
// # Usage
//
//	link := transport.New(transport.Options{
//	    URL:     "ws://192.168.1.40:8080/ws",
//	    Handler: handler,
//	})
//	if err := link.Run(ctx); !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
package transport
