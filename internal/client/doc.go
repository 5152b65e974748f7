// Package client implements the display side of the weather link: the
// protocol state machine that turns inbound dictionaries into display
// signals.
//
// # States
//
//	Idle -> AwaitingResponse -> ShowingCurrent | ShowingForecast |
//	                            LocationDisabled | RequestFailed
//
// Ready (display loaded) and a reconnect message both send the
// current-weather request and move to AwaitingResponse, from any state.
// Responses move to the matching terminal state. Forecast responses are
// handled whenever they arrive; the client never asks for one on its own.
//
// # Sending
//
// Requests are fire-and-forget. When the Sender reports no buffer slot the
// request is dropped: no queue, no retry, no error to the caller.
//
// # Concurrency
//
// A Client is not synchronized. All methods must be called from a single
// goroutine; transport.Link guarantees this by invoking its handler from one
// dispatcher goroutine.
package client
