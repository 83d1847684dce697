package capture

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"odidscan/internal/odid"
)

// testLogger returns a logger that discards output
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testTransmitter is Address2 of every synthetic frame
var testTransmitter = []byte{0x60, 0x60, 0x1F, 0xAA, 0xBB, 0xCC}

// beacon builds an 802.11 beacon carrying a Remote ID vendor element
// with one Basic ID message
func beacon(serial string) []byte {
	frame := []byte{0x80, 0x00, 0x00, 0x00}                   // frame control, duration
	frame = append(frame, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF) // addr1
	frame = append(frame, testTransmitter...)                 // addr2
	frame = append(frame, testTransmitter...)                 // addr3
	frame = append(frame, 0x10, 0x00)                         // sequence

	frame = append(frame, make([]byte, 8)...) // timestamp
	frame = append(frame, 0x64, 0x00)         // beacon interval
	frame = append(frame, 0x01, 0x00)         // capability
	frame = append(frame, 0x00, 0x00)         // hidden SSID

	var slot odid.Slot
	slot[0] = 0x02
	slot[1] = byte(odid.IDTypeSerialNumber)<<4 | byte(odid.UATypeHelicopterMultirotor)
	copy(slot[2:22], serial)

	element := append([]byte{}, odid.Signature...)
	element = append(element, 0x07, 0xF2, odid.SlotSize, 0x01)
	element = append(element, slot[:]...)

	frame = append(frame, 0xDD, byte(len(element)))
	return append(frame, element...)
}

// dataFrame builds a minimal 802.11 data frame
func dataFrame() []byte {
	frame := []byte{0x08, 0x01, 0x00, 0x00}
	frame = append(frame, make([]byte, 18)...)
	frame = append(frame, 0x00, 0x00)
	return append(frame, 0xAA, 0xAA, 0x03, 0x00, 0x00, 0x00, 0x08, 0x00)
}

// radioTap prefixes frame with a RadioTap header carrying channel and signal
func radioTap(frame []byte, mhz uint16, dbm int8) []byte {
	hdr := make([]byte, 15)
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(hdr)))
	binary.LittleEndian.PutUint32(hdr[4:8], 1<<1|1<<3|1<<5) // flags, channel, antenna signal
	hdr[8] = 0x00                                           // no FCS
	binary.LittleEndian.PutUint16(hdr[10:12], mhz)
	binary.LittleEndian.PutUint16(hdr[12:14], 0x00A0)
	hdr[14] = byte(dbm)
	return append(hdr, frame...)
}

// withFCS appends a placeholder frame check sequence
func withFCS(frame []byte) []byte {
	return append(append([]byte{}, frame...), 0x00, 0x00, 0x00, 0x00)
}

// writePcap writes packets into a pcap file and returns its path
func writePcap(t *testing.T, linkType layers.LinkType, packets ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, linkType))

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, p := range packets {
		ci := gopacket.CaptureInfo{
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(p),
			Length:        len(p),
		}
		require.NoError(t, w.WritePacket(ci, p))
	}

	return path
}

// writePcapng writes packets into a pcapng file and returns its path
func writePcapng(t *testing.T, linkType layers.LinkType, packets ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.pcapng")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pcapgo.NewNgWriter(f, linkType)
	require.NoError(t, err)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range packets {
		ci := gopacket.CaptureInfo{
			Timestamp:      ts,
			CaptureLength:  len(p),
			Length:         len(p),
			InterfaceIndex: 0,
		}
		require.NoError(t, w.WritePacket(ci, p))
	}
	require.NoError(t, w.Flush())

	return path
}
