package capture

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"odidscan/internal/odid"
)

// transmitterOffset is where Address2 sits in a management frame header
const transmitterOffset = 10

// FrameFromPacket converts a decoded 802.11 packet into a RawFrame.
// Only management frames are accepted. Data holds the 802.11 header and
// body with the FCS removed. RSSI and frequency come from RadioTap when
// present; fallbackFreq is used otherwise.
func FrameFromPacket(packet gopacket.Packet, fallbackFreq int) (odid.RawFrame, bool) {
	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return odid.RawFrame{}, false
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok || dot11.Type.MainType() != layers.Dot11TypeMgmt {
		return odid.RawFrame{}, false
	}

	data := make([]byte, 0, len(dot11.Contents)+len(dot11.Payload))
	data = append(data, dot11.Contents...)
	data = append(data, dot11.Payload...)
	if len(data) > odid.MaxFrameLength {
		data = data[:odid.MaxFrameLength]
	}

	frame := odid.RawFrame{
		Data:        data,
		Length:      len(data),
		Frequency:   fallbackFreq,
		Transmitter: transmitter(dot11, data),
		Timestamp:   packet.Metadata().Timestamp,
	}

	if rtLayer := packet.Layer(layers.LayerTypeRadioTap); rtLayer != nil {
		if rt, ok := rtLayer.(*layers.RadioTap); ok {
			if rt.Present.DBMAntennaSignal() {
				frame.RSSI = int(rt.DBMAntennaSignal)
			}
			if rt.Present.Channel() && rt.ChannelFrequency != 0 {
				frame.Frequency = int(rt.ChannelFrequency)
			}
		}
	}

	return frame, true
}

// transmitter returns Address2, falling back to the raw header bytes
func transmitter(dot11 *layers.Dot11, data []byte) net.HardwareAddr {
	if len(dot11.Address2) == 6 {
		return append(net.HardwareAddr{}, dot11.Address2...)
	}
	if len(data) >= transmitterOffset+6 {
		return append(net.HardwareAddr{}, data[transmitterOffset:transmitterOffset+6]...)
	}
	return nil
}
