package client

import "fmt"

// State is the display-facing protocol state.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
	StateShowingCurrent
	StateShowingForecast
	StateLocationDisabled
	StateRequestFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateShowingCurrent:
		return "showing_current"
	case StateShowingForecast:
		return "showing_forecast"
	case StateLocationDisabled:
		return "location_disabled"
	case StateRequestFailed:
		return "request_failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether s is one of the response-derived states.
func (s State) Terminal() bool {
	switch s {
	case StateShowingCurrent, StateShowingForecast, StateLocationDisabled, StateRequestFailed:
		return true
	default:
		return false
	}
}
