package odid

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Stats is a snapshot of the decoder counters
type Stats struct {
	Frames        uint64
	Matches       uint64
	Truncated     uint64
	Unrecognized  uint64
	Messages      uint64
	MessageByType [MessageTypeOperatorID + 1]uint64
}

// Decoder runs the locate-and-decode pipeline over raw frames.
// It keeps no per-frame state and is safe for concurrent use.
type Decoder struct {
	logger *logrus.Logger

	frames       atomic.Uint64
	matches      atomic.Uint64
	truncated    atomic.Uint64
	unrecognized atomic.Uint64
	messages     atomic.Uint64
	byType       [MessageTypeOperatorID + 1]atomic.Uint64
}

// NewDecoder creates a new Remote ID decoder
func NewDecoder(logger *logrus.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// DecodeFrame locates the Remote ID element in a frame and decodes every
// message slot that fits. It never fails: malformed input only yields
// fewer messages.
func (d *Decoder) DecodeFrame(frame RawFrame) DecodedFrame {
	d.frames.Add(1)

	result := DecodedFrame{Frame: frame, Offset: -1}
	buf := frame.Bytes()

	offset, ok := Locate(buf, Signature)
	if !ok {
		return result
	}
	result.Offset = offset
	d.matches.Add(1)

	pack, err := ParsePack(buf, offset)
	result.Pack = pack
	result.PackErr = err
	if err != nil {
		d.truncated.Add(1)
		d.logger.WithFields(logrus.Fields{
			"offset":      offset,
			"declared":    pack.Count,
			"available":   len(pack.Slots),
			"frame_bytes": len(buf),
		}).WithError(err).Debug("Message pack truncated")
	}

	for i, slot := range pack.Slots {
		msg, err := DecodeMessage(slot)
		if err != nil {
			if errors.Is(err, ErrUnrecognizedType) {
				result.Skipped++
				d.unrecognized.Add(1)
			}
			d.logger.WithFields(logrus.Fields{
				"slot":   i,
				"header": fmt.Sprintf("0x%02X", slot.Header()),
			}).WithError(err).Debug("Skipping message slot")
			continue
		}

		result.Messages = append(result.Messages, msg)
		d.messages.Add(1)
		d.byType[msg.Type()].Add(1)
	}

	d.logger.WithFields(logrus.Fields{
		"offset":   offset,
		"counter":  pack.Counter,
		"declared": pack.Count,
		"decoded":  len(result.Messages),
		"skipped":  result.Skipped,
	}).Debug("Decoded Remote ID message pack")

	return result
}

// Stats returns a snapshot of the decoder counters
func (d *Decoder) Stats() Stats {
	s := Stats{
		Frames:       d.frames.Load(),
		Matches:      d.matches.Load(),
		Truncated:    d.truncated.Load(),
		Unrecognized: d.unrecognized.Load(),
		Messages:     d.messages.Load(),
	}
	for i := range d.byType {
		s.MessageByType[i] = d.byType[i].Load()
	}
	return s
}
