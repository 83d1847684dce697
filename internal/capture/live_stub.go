//go:build !pcap

package capture

import (
	"context"

	"github.com/sirupsen/logrus"

	"odidscan/internal/odid"
)

// LiveSource is a stub used when libpcap support is not compiled in
type LiveSource struct{}

// NewLiveSource returns ErrLiveUnsupported
func NewLiveSource(config LiveConfig, logger *logrus.Logger) (*LiveSource, error) {
	return nil, ErrLiveUnsupported
}

// Scan returns ErrLiveUnsupported
func (s *LiveSource) Scan(ctx context.Context, out chan<- odid.RawFrame) error {
	return ErrLiveUnsupported
}

// Close returns nil
func (s *LiveSource) Close() error {
	return nil
}
