package app

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"odidscan/internal/odid"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testMAC = net.HardwareAddr{0x60, 0x60, 0x1F, 0x12, 0x34, 0x56}

// serialSlot builds a Basic ID slot carrying a serial number
func serialSlot(serial string) odid.Slot {
	var s odid.Slot
	s[0] = 0x02
	s[1] = byte(odid.IDTypeSerialNumber)<<4 | byte(odid.UATypeHelicopterMultirotor)
	copy(s[2:22], serial)
	return s
}

// locationSlot builds a Location/Vector slot: airborne, 10 m/s, 50 m pressure altitude
func locationSlot(lat, lon int32) odid.Slot {
	var s odid.Slot
	s[0] = 0x12
	s[1] = 0x20
	s[3] = 40
	binary.LittleEndian.PutUint32(s[5:9], uint32(lat))
	binary.LittleEndian.PutUint32(s[9:13], uint32(lon))
	binary.LittleEndian.PutUint16(s[13:15], 2100)
	binary.LittleEndian.PutUint16(s[15:17], 2100)
	return s
}

// beaconFrame builds an 802.11 beacon with a Remote ID vendor element
func beaconFrame(slots ...odid.Slot) []byte {
	frame := []byte{0x80, 0x00, 0x00, 0x00}
	frame = append(frame, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	frame = append(frame, testMAC...)
	frame = append(frame, testMAC...)
	frame = append(frame, 0x00, 0x00)
	frame = append(frame, make([]byte, 12)...)

	element := append([]byte{}, odid.Signature...)
	element = append(element, 0x01, 0xF2, odid.SlotSize, byte(len(slots)))
	for _, s := range slots {
		element = append(element, s[:]...)
	}
	frame = append(frame, 0xDD, byte(len(element)))
	return append(frame, element...)
}

// radioTap prefixes a frame with channel and antenna signal fields
func radioTap(frame []byte, mhz uint16, dbm int8) []byte {
	hdr := make([]byte, 15)
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(hdr)))
	binary.LittleEndian.PutUint32(hdr[4:8], 1<<1|1<<3|1<<5)
	binary.LittleEndian.PutUint16(hdr[10:12], mhz)
	hdr[14] = byte(dbm)
	return append(hdr, frame...)
}

// writeCapture writes RadioTap packets into a pcap file
func writeCapture(t *testing.T, packets ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "odid.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeIEEE80211Radio))
	for i, p := range packets {
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Date(2024, 5, 1, 12, 0, i, 0, time.UTC),
			CaptureLength: len(p),
			Length:        len(p),
		}
		require.NoError(t, w.WritePacket(ci, p))
	}
	return path
}

// fakeSource is a scripted capture source
type fakeSource struct {
	mu     sync.Mutex
	frames []odid.RawFrame
	errs   []error
	calls  int
	closed bool
	block  bool
}

func (f *fakeSource) Scan(ctx context.Context, out chan<- odid.RawFrame) error {
	f.mu.Lock()
	call := f.calls
	f.calls++
	block := f.block
	f.mu.Unlock()

	for _, frame := range f.frames {
		select {
		case out <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if block {
		<-ctx.Done()
		return ctx.Err()
	}

	if call < len(f.errs) {
		return f.errs[call]
	}
	return nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
