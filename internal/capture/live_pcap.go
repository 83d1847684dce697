//go:build pcap

package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
	"github.com/sirupsen/logrus"

	"odidscan/internal/odid"
)

// managementFilter restricts the capture to 802.11 management frames
const managementFilter = "type mgt"

// LiveSource reads management frames from a monitor-mode interface
type LiveSource struct {
	config LiveConfig
	handle *pcap.Handle
	logger *logrus.Logger
}

// NewLiveSource opens the interface and installs the management-frame filter
func NewLiveSource(config LiveConfig, logger *logrus.Logger) (*LiveSource, error) {
	if config.SnapLen <= 0 {
		config.SnapLen = DefaultSnapLen
	}
	if config.ScanDuration <= 0 {
		config.ScanDuration = DefaultScanDuration
	}

	inactive, err := pcap.NewInactiveHandle(config.Interface)
	if err != nil {
		return nil, fmt.Errorf("failed to create handle for %s: %w", config.Interface, err)
	}
	defer inactive.CleanUp()

	if config.Monitor {
		if err := inactive.SetRFMon(true); err != nil {
			return nil, fmt.Errorf("failed to enable monitor mode: %w", err)
		}
	}
	if err := inactive.SetSnapLen(config.SnapLen); err != nil {
		return nil, fmt.Errorf("failed to set snap length: %w", err)
	}
	if err := inactive.SetTimeout(DefaultReadTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	handle, err := inactive.Activate()
	if err != nil {
		return nil, fmt.Errorf("failed to activate %s: %w", config.Interface, err)
	}

	if err := handle.SetBPFFilter(managementFilter); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to set BPF filter '%s': %w", managementFilter, err)
	}

	logger.WithFields(logrus.Fields{
		"interface": config.Interface,
		"link_type": handle.LinkType().String(),
		"monitor":   config.Monitor,
		"duration":  config.ScanDuration,
	}).Info("Live capture opened")

	return &LiveSource{
		config: config,
		handle: handle,
		logger: logger,
	}, nil
}

// Scan captures frames for one scan duration
func (s *LiveSource) Scan(ctx context.Context, out chan<- odid.RawFrame) error {
	deadline := time.Now().Add(s.config.ScanDuration)
	linkType := s.handle.LinkType()
	frames := 0

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ci, err := s.handle.ReadPacketData()
		if err != nil {
			if errors.Is(err, pcap.NextErrorTimeoutExpired) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read packet: %w", err)
		}

		packet := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		packet.Metadata().CaptureInfo = ci

		frame, ok := FrameFromPacket(packet, s.config.Frequency)
		if !ok {
			continue
		}
		if err := send(ctx, out, frame); err != nil {
			return err
		}
		frames++
	}

	s.logger.WithField("frames", frames).Debug("Live scan pass complete")
	return nil
}

// Close closes the capture handle
func (s *LiveSource) Close() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
		s.logger.Info("Live capture closed")
	}
	return nil
}
