// Package display is the boundary between the protocol client and whatever
// draws the weather.
//
// The client emits Signals to a Sink. Panel is the stock Sink state: it turns
// signals into the text and icon a renderer shows, and it owns the derived
// resources. Icons come from an IconSet of embedded art; each loaded Icon is
// counted until released so tests can assert nothing leaks.
//
// Resource order on every update is acquire-new, install, release-old. The
// "Enable Location" and "Request Failed" states release any held icon, and
// Teardown releases everything.
package display
