package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/sirupsen/logrus"

	"odidscan/internal/odid"
)

// pcapngMagic is the section header block type that opens every pcapng file
var pcapngMagic = []byte{0x0A, 0x0D, 0x0D, 0x0A}

// FileConfig configures a capture file replay
type FileConfig struct {
	Path      string
	Frequency int // MHz, used when RadioTap carries no channel

	// SpeedMultiplier paces the replay against the capture timestamps
	// (1.0 = real time, 2.0 = twice as fast). Zero replays without delay.
	SpeedMultiplier float64
}

// FileStats counts what a replay has seen
type FileStats struct {
	Packets   uint64
	Forwarded uint64
	Ignored   uint64
}

// FileSource replays 802.11 frames from a pcap or pcapng file
type FileSource struct {
	config FileConfig
	logger *logrus.Logger

	packets   atomic.Uint64
	forwarded atomic.Uint64
	ignored   atomic.Uint64
}

// packetReader is implemented by both pcapgo readers
type packetReader interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// NewFileSource creates a new capture file source
func NewFileSource(config FileConfig, logger *logrus.Logger) *FileSource {
	return &FileSource{
		config: config,
		logger: logger,
	}
}

// Scan replays the whole file once
func (s *FileSource) Scan(ctx context.Context, out chan<- odid.RawFrame) error {
	f, err := os.Open(s.config.Path)
	if err != nil {
		return fmt.Errorf("failed to open capture file %s: %w", s.config.Path, err)
	}
	defer f.Close()

	reader, err := openReader(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("failed to read capture file %s: %w", s.config.Path, err)
	}

	linkType := reader.LinkType()
	if linkType != layers.LinkTypeIEEE80211Radio && linkType != layers.LinkTypeIEEE802_11 {
		return fmt.Errorf("%w: %s", ErrUnsupportedLinkType, linkType)
	}

	s.logger.WithFields(logrus.Fields{
		"file":      s.config.Path,
		"link_type": linkType.String(),
		"speed":     s.config.SpeedMultiplier,
	}).Info("Replaying capture file")

	var lastCapture time.Time
	startTime := time.Now()
	count := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ci, err := reader.ReadPacketData()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.WithFields(logrus.Fields{
					"packets": count,
					"elapsed": time.Since(startTime),
				}).Info("Capture file replay complete")
				return nil
			}
			return fmt.Errorf("failed to read packet: %w", err)
		}
		count++
		s.packets.Add(1)

		if s.config.SpeedMultiplier > 0 {
			if !lastCapture.IsZero() {
				delay := time.Duration(float64(ci.Timestamp.Sub(lastCapture)) / s.config.SpeedMultiplier)
				if delay > 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(delay):
					}
				}
			}
			lastCapture = ci.Timestamp
		}

		packet := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		packet.Metadata().CaptureInfo = ci

		frame, ok := FrameFromPacket(packet, s.config.Frequency)
		if !ok {
			s.ignored.Add(1)
			continue
		}

		if err := send(ctx, out, frame); err != nil {
			return err
		}
		s.forwarded.Add(1)
	}
}

// Stats returns the replay counters
func (s *FileSource) Stats() FileStats {
	return FileStats{
		Packets:   s.packets.Load(),
		Forwarded: s.forwarded.Load(),
		Ignored:   s.ignored.Load(),
	}
}

// Close releases the source. The file is opened per scan, so nothing is held.
func (s *FileSource) Close() error {
	return nil
}

// openReader picks the pcap or pcapng reader from the file magic
func openReader(r *bufio.Reader) (packetReader, error) {
	magic, err := r.Peek(len(pcapngMagic))
	if err != nil {
		return nil, err
	}

	if bytes.Equal(magic, pcapngMagic) {
		return pcapgo.NewNgReader(r, pcapgo.DefaultNgReaderOptions)
	}
	return pcapgo.NewReader(r)
}
