package odid

import (
	"encoding/binary"
	"io"

	"github.com/sirupsen/logrus"
)

// testLogger returns a logger that discards output
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// header builds a slot header byte for a message type, protocol version 2
func header(t MessageType) byte {
	return byte(t)<<4 | 0x02
}

// basicIDSlot builds a Basic ID slot with the given id bytes
func basicIDSlot(idType IDType, uaType UAType, id []byte) Slot {
	var s Slot
	s[0] = header(MessageTypeBasicID)
	s[1] = byte(idType)<<4 | byte(uaType)
	copy(s[2:2+IDLength], id)
	return s
}

// locationSlot holds the raw fields of a Location/Vector slot
type locationSlot struct {
	status     uint8
	heightType uint8
	ewDir      uint8
	speedMult  uint8
	direction  uint8
	speed      uint8
	vertSpeed  int8
	lat, lon   int32
	pressAlt   uint16
	geoAlt     uint16
	height     uint16
	vertAcc    uint8
	horizAcc   uint8
	baroAcc    uint8
	speedAcc   uint8
	timestamp  uint16
	tsAcc      uint8
}

// build encodes the fields into a slot
func (l locationSlot) build() Slot {
	var s Slot
	s[0] = header(MessageTypeLocation)
	s[1] = l.status<<4 | l.heightType<<2 | l.ewDir<<1 | l.speedMult
	s[2] = l.direction
	s[3] = l.speed
	s[4] = byte(l.vertSpeed)
	binary.LittleEndian.PutUint32(s[5:9], uint32(l.lat))
	binary.LittleEndian.PutUint32(s[9:13], uint32(l.lon))
	binary.LittleEndian.PutUint16(s[13:15], l.pressAlt)
	binary.LittleEndian.PutUint16(s[15:17], l.geoAlt)
	binary.LittleEndian.PutUint16(s[17:19], l.height)
	s[19] = l.vertAcc<<4 | l.horizAcc
	s[20] = l.baroAcc<<4 | l.speedAcc
	binary.LittleEndian.PutUint16(s[21:23], l.timestamp)
	s[23] = l.tsAcc
	return s
}

// textSlot builds a slot with a type byte at 1 and text from byte 2
func textSlot(t MessageType, kind byte, text string) Slot {
	var s Slot
	s[0] = header(t)
	s[1] = kind
	copy(s[2:], text)
	return s
}

// buildFrame places a message pack with the given slots after prefix.
// count overrides the declared message count when >= 0.
func buildFrame(prefix []byte, count int, slots ...Slot) []byte {
	buf := append([]byte{}, prefix...)
	buf = append(buf, Signature...)
	if count < 0 {
		count = len(slots)
	}
	buf = append(buf, 0x01, 0xF2, SlotSize, byte(count))
	for _, s := range slots {
		buf = append(buf, s[:]...)
	}
	return buf
}
