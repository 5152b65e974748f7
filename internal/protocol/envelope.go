package protocol

import (
	"errors"
	"fmt"
)

// ErrShortPayload is returned when a response payload cannot hold its record.
var ErrShortPayload = errors.New("protocol: response payload too short")

// Envelope is the [count][record] wrapper of both response payloads.
//
// Count is a presence flag, not a repetition count: zero means location
// services are disabled on the companion, any other value means exactly one
// record follows.
type Envelope struct {
	Count  uint8
	Record []byte // nil when Count == 0
}

// LocationDisabled reports whether the companion signalled disabled location.
func (e Envelope) LocationDisabled() bool {
	return e.Count == 0
}

// ParseEnvelope splits a response payload. Bytes after a zero count are
// ignored, as are bytes past recordSize.
func ParseEnvelope(payload []byte, recordSize int) (Envelope, error) {
	if len(payload) < 1 {
		return Envelope{}, fmt.Errorf("%w: missing count byte", ErrShortPayload)
	}

	env := Envelope{Count: payload[0]}
	if env.LocationDisabled() {
		return env, nil
	}

	body := payload[1:]
	if len(body) < recordSize {
		return Envelope{}, fmt.Errorf("%w: record is %d bytes (need %d)", ErrShortPayload, len(body), recordSize)
	}
	env.Record = body[:recordSize]

	return env, nil
}

// BuildEnvelope prefixes a record with a count of 1, or returns a lone zero
// count when record is nil.
func BuildEnvelope(record []byte) []byte {
	if record == nil {
		return []byte{0}
	}
	payload := make([]byte, 1+len(record))
	payload[0] = 1
	copy(payload[1:], record)
	return payload
}
