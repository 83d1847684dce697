package app

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"odidscan/internal/odid"
	"odidscan/internal/wifi"
)

// FormatFrameHeader renders the per-frame summary line:
// channel (band) | RSSI | transmitter | frame length
func FormatFrameHeader(frame odid.RawFrame) string {
	mac := "-"
	if len(frame.Transmitter) > 0 {
		mac = frame.Transmitter.String()
	}

	length := frame.Length
	if length <= 0 {
		length = len(frame.Data)
	}

	return fmt.Sprintf("%-4d (%-6s) | %-4d | %-17s | %-4d",
		wifi.Channel(frame.Frequency),
		wifi.BandOf(frame.Frequency),
		frame.RSSI,
		mac,
		length)
}

// FormatHexDump renders the frame bytes the decoder sees
func FormatHexDump(frame odid.RawFrame) string {
	return hex.Dump(frame.Bytes())
}

// FormatMessage renders one decoded message as a single line
func FormatMessage(msg odid.Message) string {
	switch m := msg.(type) {
	case odid.BasicID:
		return fmt.Sprintf("%s id_type=%s ua_type=%s id=%s",
			m.Type(), m.IDType, m.UAType, m.IDValue)

	case odid.LocationVector:
		return fmt.Sprintf("%s status=%s lat=%.7f lon=%.7f alt_geo=%.1fm alt_baro=%.1fm height=%.1fm(%s) "+
			"dir=%.0f speed=%.2fm/s vspeed=%.1fm/s h_acc=%q v_acc=%q baro_acc=%q speed_acc=%q ts=%.1fs",
			m.Type(), m.Status, m.Latitude, m.Longitude, m.AltitudeGeodetic, m.AltitudePressure,
			m.Height, m.HeightType, m.Direction, m.SpeedHorizontal, m.SpeedVertical,
			m.HorizontalAccuracy.String(), m.VerticalAccuracy.String(), m.BaroAccuracy.String(),
			m.SpeedAccuracy.String(), m.TimestampSeconds())

	case odid.Authentication:
		return fmt.Sprintf("%s (not decoded)", m.Type())

	case odid.SelfID:
		return fmt.Sprintf("%s desc_type=%d desc=%s", m.Type(), m.DescriptionType, m.Description)

	case odid.System:
		var b strings.Builder
		fmt.Fprintf(&b, "%s operator_location=%s lat=%.7f lon=%.7f alt=%.1fm area_count=%d area_radius=%.0fm "+
			"ceiling=%.1fm floor=%.1fm classification=%s category=%s",
			m.Type(), m.OperatorLocationType, m.OperatorLatitude, m.OperatorLongitude, m.OperatorAltitude,
			m.AreaCount, m.AreaRadius, m.AreaCeiling, m.AreaFloor, m.ClassificationType, m.Category)
		if m.ClassValid() {
			fmt.Fprintf(&b, " class=%s", m.Class)
		}
		if t := m.Time(); !t.IsZero() {
			fmt.Fprintf(&b, " time=%s", t.Format(time.RFC3339))
		}
		return b.String()

	case odid.OperatorID:
		return fmt.Sprintf("%s id_type=%d id=%s", m.Type(), m.OperatorIDType, m.OperatorID)

	default:
		return fmt.Sprintf("%T", msg)
	}
}

// MessageFields returns the structured log fields of a decoded message
func MessageFields(msg odid.Message) logrus.Fields {
	fields := logrus.Fields{"type": msg.Type().String()}

	switch m := msg.(type) {
	case odid.BasicID:
		fields["id_type"] = m.IDType.String()
		fields["ua_type"] = m.UAType.String()
		fields["id"] = m.IDValue
		if m.IDType == odid.IDTypeUTMUUID {
			fields["uuid"] = m.UUID.String()
		}

	case odid.LocationVector:
		fields["status"] = m.Status.String()
		fields["lat"] = m.Latitude
		fields["lon"] = m.Longitude
		fields["alt_geo"] = m.AltitudeGeodetic
		fields["alt_baro"] = m.AltitudePressure
		fields["height"] = m.Height
		fields["height_type"] = m.HeightType.String()
		fields["direction"] = m.Direction
		fields["speed"] = m.SpeedHorizontal
		fields["vspeed"] = m.SpeedVertical
		fields["h_acc"] = m.HorizontalAccuracy.String()
		fields["v_acc"] = m.VerticalAccuracy.String()
		fields["ts"] = m.TimestampSeconds()

	case odid.SelfID:
		fields["desc_type"] = m.DescriptionType
		fields["desc"] = m.Description

	case odid.System:
		fields["operator_location"] = m.OperatorLocationType.String()
		fields["lat"] = m.OperatorLatitude
		fields["lon"] = m.OperatorLongitude
		fields["alt"] = m.OperatorAltitude
		fields["area_count"] = m.AreaCount
		fields["area_radius"] = m.AreaRadius
		fields["category"] = m.Category.String()
		if m.ClassValid() {
			fields["class"] = m.Class.String()
		}

	case odid.OperatorID:
		fields["id_type"] = m.OperatorIDType
		fields["id"] = m.OperatorID
	}

	return fields
}
