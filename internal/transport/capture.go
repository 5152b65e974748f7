package transport

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/protocol"
	"go.uber.org/zap"
)

// CaptureRecord is one captured WebSocket message.
type CaptureRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Seq          int       `json:"seq"`
	URL          string    `json:"url"`
	Direction    string    `json:"direction"` // "sent" or "received"
	Tags         []string  `json:"tags,omitempty"`
	PayloadLen   int       `json:"payload_length"`
	PayloadHex   string    `json:"payload_hex"`
	PayloadASCII string    `json:"payload_ascii"`
	DecodeError  string    `json:"decode_error,omitempty"`
}

// Capture appends every message crossing a Link to a JSON Lines stream.
// It is safe for concurrent use.
type Capture struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	seq    int
	now    func() time.Time
}

// NewCapture writes records to w.
func NewCapture(w io.Writer) *Capture {
	return &Capture{w: w, now: time.Now}
}

// OpenCapture appends records to the file at path, creating it if needed.
func OpenCapture(path string) (*Capture, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	c := NewCapture(f)
	c.closer = f
	return c, nil
}

// Record writes one message. Write failures are logged, never returned.
func (c *Capture) Record(url, direction string, data []byte) {
	if c == nil {
		return
	}

	rec := CaptureRecord{
		URL:          url,
		Direction:    direction,
		PayloadLen:   len(data),
		PayloadHex:   hex.EncodeToString(data),
		PayloadASCII: toASCII(data),
	}
	if d, err := protocol.DecodeDictionary(data); err != nil {
		rec.DecodeError = err.Error()
	} else {
		for _, key := range d.Keys() {
			rec.Tags = append(rec.Tags, protocol.TagName(key))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	rec.Seq = c.seq
	rec.Timestamp = c.now()

	line, err := json.Marshal(rec)
	if err != nil {
		logging.Error("Failed to marshal capture record", zap.Error(err))
		return
	}
	if _, err := c.w.Write(append(line, '\n')); err != nil {
		logging.Error("Failed to write capture record", zap.Error(err))
	}
}

// Close closes the underlying file, if Capture opened one.
func (c *Capture) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// ReadCapture parses a JSON Lines capture. Blank lines are skipped.
func ReadCapture(r io.Reader) ([]CaptureRecord, error) {
	var records []CaptureRecord
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec CaptureRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("capture line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return records, nil
}

// toASCII converts bytes to ASCII, non-printable bytes become '.'
func toASCII(data []byte) string {
	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}
