package odid

import (
	"errors"
	"net"
	"time"
)

// RawFrame is one captured 802.11 management frame handed over by the radio layer
type RawFrame struct {
	Data        []byte
	Length      int // declared frame length, <= 0 means len(Data)
	RSSI        int // dBm
	Frequency   int // MHz
	Transmitter net.HardwareAddr
	Timestamp   time.Time
}

// Bytes returns the frame data clipped to the declared length
func (f RawFrame) Bytes() []byte {
	n := len(f.Data)
	if f.Length > 0 && f.Length < n {
		n = f.Length
	}
	if n > MaxFrameLength {
		n = MaxFrameLength
	}
	return f.Data[:n]
}

// DecodedFrame is the result of decoding one RawFrame
type DecodedFrame struct {
	Frame    RawFrame
	Offset   int // signature offset, -1 when absent
	Pack     Pack
	PackErr  error // set when the message pack was cut short
	Messages []Message
	Skipped  int // unrecognized slots
}

// Found reports whether the frame carried a Remote ID element
func (d DecodedFrame) Found() bool {
	return d.Offset >= 0
}

// Truncated reports whether the message pack was cut short
func (d DecodedFrame) Truncated() bool {
	return d.Found() && errors.Is(d.PackErr, ErrTruncatedPack)
}

// ByType returns the decoded messages of type t in transmission order
func (d DecodedFrame) ByType(t MessageType) []Message {
	var out []Message
	for _, m := range d.Messages {
		if m.Type() == t {
			out = append(out, m)
		}
	}
	return out
}
