package odid

// Slot is a single 25-byte Remote ID message, copied out of the frame.
// All accessors take slot-relative indexes and never read past the slot.
type Slot [SlotSize]byte

// NewSlot copies up to SlotSize bytes of data into a Slot
func NewSlot(data []byte) Slot {
	var s Slot
	copy(s[:], data)
	return s
}

// Byte returns byte i, or 0 when i is outside the slot
func (s Slot) Byte(i int) byte {
	if i < 0 || i >= SlotSize {
		return 0
	}
	return s[i]
}

// HighNibble returns byte i / 16
func (s Slot) HighNibble(i int) uint8 {
	return s.Byte(i) / 16
}

// LowNibble returns byte i % 16
func (s Slot) LowNibble(i int) uint8 {
	return s.Byte(i) % 16
}

// Bit returns bit n (0 = least significant) of byte i
func (s Slot) Bit(i int, n uint) uint8 {
	return (s.Byte(i) >> n) & 0x01
}

// Uint16LE reassembles bytes i, i+1 as a little-endian unsigned value
func (s Slot) Uint16LE(i int) uint16 {
	return uint16(s.Byte(i)) + uint16(s.Byte(i+1))*256
}

// Uint32LE reassembles bytes i..i+3 as a little-endian unsigned value
func (s Slot) Uint32LE(i int) uint32 {
	var v uint32
	for k := 3; k >= 0; k-- {
		v = v*256 + uint32(s.Byte(i+k))
	}
	return v
}

// Int32LE reassembles bytes i..i+3 as a little-endian two's complement value
func (s Slot) Int32LE(i int) int32 {
	return int32(s.Uint32LE(i))
}

// bytes returns the sub-slice [from, from+n) clipped to the slot
func (s *Slot) bytes(from, n int) []byte {
	if from < 0 {
		from = 0
	}
	if from > SlotSize {
		from = SlotSize
	}
	end := from + n
	if n < 0 || end > SlotSize {
		end = SlotSize
	}
	return s[from:end]
}

// ASCII decodes n bytes starting at from through ASCIITable
func (s Slot) ASCII(from, n int) string {
	return ASCIIString(s.bytes(from, n))
}

// Hex renders n bytes starting at from through HexTable
func (s Slot) Hex(from, n int) string {
	return HexString(s.bytes(from, n))
}

// Header returns the message header byte
func (s Slot) Header() byte {
	return s[0]
}

// Type returns the message type encoded in the header byte
func (s Slot) Type() MessageType {
	return MessageTypeOf(s[0])
}

// ProtocolVersion returns the low nibble of the header byte
func (s Slot) ProtocolVersion() uint8 {
	return s.LowNibble(0)
}
