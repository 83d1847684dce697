package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"odidscan/internal/odid"
	"odidscan/internal/store"
	"odidscan/internal/wifi"
)

// Sink receives every frame that carried a Remote ID element
type Sink interface {
	Write(ctx context.Context, frame odid.DecodedFrame) error
}

// TextSink writes human-readable frames, one header line and one line per message
type TextSink struct {
	w       io.Writer
	hexdump bool
	mu      sync.Mutex
}

// NewTextSink creates a text sink; hexdump adds the raw frame bytes
func NewTextSink(w io.Writer, hexdump bool) *TextSink {
	return &TextSink{w: w, hexdump: hexdump}
}

// Write renders the frame as one block so concurrent frames do not interleave
func (s *TextSink) Write(ctx context.Context, frame odid.DecodedFrame) error {
	var b strings.Builder
	b.WriteString(FormatFrameHeader(frame.Frame))
	b.WriteByte('\n')
	if s.hexdump {
		b.WriteString(FormatHexDump(frame.Frame))
	}
	for _, msg := range frame.Messages {
		b.WriteString("  ")
		b.WriteString(FormatMessage(msg))
		b.WriteByte('\n')
	}
	if frame.Truncated() {
		fmt.Fprintf(&b, "  (pack truncated: %d of %d messages)\n", len(frame.Pack.Slots), frame.Pack.Count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, b.String())
	return err
}

// RecordSink writes one JSON record per decoded message
type RecordSink struct {
	records *logrus.Logger
}

// NewRecordSink creates a sink that logs records as JSON lines to w
func NewRecordSink(w io.Writer) *RecordSink {
	records := logrus.New()
	records.SetOutput(w)
	records.SetFormatter(&logrus.JSONFormatter{})
	records.SetLevel(logrus.InfoLevel)
	return &RecordSink{records: records}
}

// Write logs every message of the frame
func (s *RecordSink) Write(ctx context.Context, frame odid.DecodedFrame) error {
	base := s.records.WithFields(logrus.Fields{
		"transmitter": frame.Frame.Transmitter.String(),
		"rssi":        frame.Frame.RSSI,
		"channel":     wifi.Channel(frame.Frame.Frequency),
		"band":        wifi.BandOf(frame.Frame.Frequency).String(),
		"counter":     frame.Pack.Counter,
	})
	if !frame.Frame.Timestamp.IsZero() {
		base = base.WithTime(frame.Frame.Timestamp)
	}

	for _, msg := range frame.Messages {
		base.WithFields(MessageFields(msg)).Info("remote id")
	}
	return nil
}

// StoreSink saves frames to the SQLite store
type StoreSink struct {
	db *store.DB
}

// NewStoreSink creates a sink backed by db
func NewStoreSink(db *store.DB) *StoreSink {
	return &StoreSink{db: db}
}

// Write saves the frame
func (s *StoreSink) Write(ctx context.Context, frame odid.DecodedFrame) error {
	_, err := s.db.Save(ctx, frame)
	return err
}
