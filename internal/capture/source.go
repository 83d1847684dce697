// Package capture feeds 802.11 management frames to the Remote ID decoder,
// either replayed from a capture file or read live from a monitor-mode
// interface.
package capture

import (
	"context"
	"errors"
	"time"

	"odidscan/internal/odid"
)

// Source is a radio collaborator. Each call to Scan performs one scan pass,
// writing every captured management frame to out; returning signals that
// the pass is complete.
type Source interface {
	Scan(ctx context.Context, out chan<- odid.RawFrame) error
	Close() error
}

var (
	// ErrLiveUnsupported is returned when live capture was not compiled in
	ErrLiveUnsupported = errors.New("live capture not enabled: rebuild with -tags=pcap")

	// ErrUnsupportedLinkType is returned for captures that are not 802.11
	ErrUnsupportedLinkType = errors.New("unsupported link type")
)

// Default capture parameters
const (
	DefaultSnapLen      = 4096
	DefaultScanDuration = 2 * time.Second
	DefaultReadTimeout  = 100 * time.Millisecond
)

// LiveConfig configures a live monitor-mode capture
type LiveConfig struct {
	Interface    string
	Frequency    int // MHz, used when RadioTap carries no channel
	Monitor      bool
	SnapLen      int
	ScanDuration time.Duration
}

// send delivers a frame unless the context is cancelled first
func send(ctx context.Context, out chan<- odid.RawFrame, frame odid.RawFrame) error {
	select {
	case out <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
