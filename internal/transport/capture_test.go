package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/muurk/weathersync/internal/protocol"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func TestCapture_Record(t *testing.T) {
	var buf bytes.Buffer
	c := NewCapture(&buf)
	fixed := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	request, err := protocol.EncodeDictionary(protocol.BuildCurrentWeatherRequest())
	if err != nil {
		t.Fatalf("EncodeDictionary() error = %v", err)
	}
	c.Record("ws://x/ws", "sent", request)
	c.Record("ws://x/ws", "received", []byte{0x01, 0x02})

	var records []CaptureRecord
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec CaptureRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	tests := []struct {
		name   string
		rec    CaptureRecord
		verify func(t *testing.T, rec CaptureRecord)
	}{
		{
			name: "request",
			rec:  records[0],
			verify: func(t *testing.T, rec CaptureRecord) {
				if rec.Seq != 1 || rec.Direction != "sent" || !rec.Timestamp.Equal(fixed) {
					t.Errorf("record = %+v", rec)
				}
				if len(rec.Tags) != 1 || rec.Tags[0] != "RequestCurrentWeather" {
					t.Errorf("Tags = %v", rec.Tags)
				}
				if rec.PayloadLen != len(request) || rec.DecodeError != "" {
					t.Errorf("PayloadLen = %d, DecodeError = %q", rec.PayloadLen, rec.DecodeError)
				}
			},
		},
		{
			name: "undecodable",
			rec:  records[1],
			verify: func(t *testing.T, rec CaptureRecord) {
				if rec.Seq != 2 || rec.PayloadHex != "0102" || rec.PayloadASCII != ".." {
					t.Errorf("record = %+v", rec)
				}
				if rec.DecodeError == "" {
					t.Error("DecodeError empty for a truncated dictionary")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, tt.rec)
		})
	}
}

func TestReadCapture(t *testing.T) {
	var buf bytes.Buffer
	c := NewCapture(&buf)
	c.Record("ws://x/ws", "sent", []byte{0})
	buf.WriteString("\n")
	c.Record("ws://x/ws", "received", []byte{1})

	records, err := ReadCapture(&buf)
	if err != nil {
		t.Fatalf("ReadCapture() error = %v", err)
	}
	if len(records) != 2 || records[1].Direction != "received" || records[1].PayloadHex != "01" {
		t.Errorf("ReadCapture() = %+v", records)
	}

	if _, err := ReadCapture(bytes.NewBufferString("{not json}\n")); err == nil {
		t.Error("ReadCapture() accepted a broken line")
	}
}

func TestCapture_NilIsNoop(t *testing.T) {
	var c *Capture
	c.Record("ws://x/ws", "sent", []byte{0})
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenCapture_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")

	for i := 0; i < 2; i++ {
		c, err := OpenCapture(path)
		if err != nil {
			t.Fatalf("OpenCapture() error = %v", err)
		}
		c.Record("ws://x/ws", "received", []byte{0})
		if err := c.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if n := bytes.Count(data, []byte("\n")); n != 2 {
		t.Errorf("capture has %d lines, want 2", n)
	}
}

func TestLink_CapturesTraffic(t *testing.T) {
	comp := newCompanion(t, nil)
	var buf syncBuffer
	rec := &recorder{}
	l := New(Options{URL: comp.url(), Handler: rec, Capture: NewCapture(&buf)})
	rec.onConn = func() {
		_ = l.Send(protocol.BuildCurrentWeatherRequest())
	}
	runLink(t, l)

	select {
	case <-comp.inbound:
	case <-time.After(5 * time.Second):
		t.Fatal("companion never received the request")
	}
	eventually(t, "capture line", func() bool {
		return bytes.Contains(buf.Bytes(), []byte(`"direction":"sent"`))
	})
}
