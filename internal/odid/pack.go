package odid

import "fmt"

// Pack is the message pack following the vendor signature
type Pack struct {
	Offset      int
	Counter     uint8
	Header      uint8
	MessageSize uint8
	Count       int    // declared message count
	Slots       []Slot // slots that fully fit inside the buffer, in transmission order
}

// Truncated reports whether fewer slots fit than were declared
func (p Pack) Truncated() bool {
	return len(p.Slots) < p.Count
}

// ParsePack reads the message pack at the given signature offset.
// Slots that would extend past buf are dropped; in that case the returned
// error wraps ErrTruncatedPack and the pack still carries the complete slots.
func ParsePack(buf []byte, offset int) (Pack, error) {
	pack := Pack{Offset: offset}

	if offset < 0 || offset+CountOffset >= len(buf) {
		return pack, fmt.Errorf("%w: no message count at offset %d (buffer %d bytes)",
			ErrTruncatedPack, offset, len(buf))
	}

	pack.Counter = buf[offset+CounterOffset]
	pack.Header = buf[offset+PackHeaderOffset]
	pack.MessageSize = buf[offset+MessageSizeOffset]
	pack.Count = int(buf[offset+CountOffset])

	available := (len(buf) - (offset + SlotsOffset)) / SlotSize
	n := pack.Count
	if n > available {
		n = available
	}

	pack.Slots = make([]Slot, 0, n)
	for i := 0; i < n; i++ {
		start := offset + SlotsOffset + i*SlotSize
		pack.Slots = append(pack.Slots, NewSlot(buf[start:start+SlotSize]))
	}

	if pack.Truncated() {
		return pack, fmt.Errorf("%w: declared %d messages, %d fit", ErrTruncatedPack, pack.Count, n)
	}

	return pack, nil
}
