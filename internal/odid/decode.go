package odid

import (
	"fmt"

	"github.com/google/uuid"
)

// DecodeMessage decodes a single slot. Every message type is decoded by its
// own function from the slot alone, so slots can be decoded in any order.
func DecodeMessage(s Slot) (Message, error) {
	switch s.Type() {
	case MessageTypeBasicID:
		return decodeBasicID(s), nil
	case MessageTypeLocation:
		return decodeLocationVector(s), nil
	case MessageTypeAuthentication:
		return Authentication{ProtocolVersion: s.ProtocolVersion()}, nil
	case MessageTypeSelfID:
		return decodeSelfID(s), nil
	case MessageTypeSystem:
		return decodeSystem(s), nil
	case MessageTypeOperatorID:
		return decodeOperatorID(s), nil
	default:
		return nil, fmt.Errorf("%w: header 0x%02X", ErrUnrecognizedType, s.Header())
	}
}

// altitude converts an encoded altitude to meters
func altitude(raw uint16) float64 {
	return float64(raw)*AltitudeMultiplier + AltitudeOffset
}

// latLon converts an encoded coordinate to degrees
func latLon(raw int32) float64 {
	return float64(raw) * LatLonMultiplier
}

// groundSpeed converts an encoded speed byte to m/s
func groundSpeed(raw uint8, mult SpeedMultiplier) float64 {
	if mult == SpeedX075 {
		return float64(raw)*SpeedMultiplierHigh + SpeedHighOffset
	}
	return float64(raw) * SpeedMultiplierLow
}

// decodeBasicID decodes a Basic ID message
func decodeBasicID(s Slot) BasicID {
	msg := BasicID{
		ProtocolVersion: s.ProtocolVersion(),
		IDType:          IDType(s.HighNibble(1)),
		UAType:          UAType(s.LowNibble(1)),
	}

	switch msg.IDType {
	case IDTypeNone:
		msg.IDValue = ASCIIString(make([]byte, IDLength))
	case IDTypeSerialNumber, IDTypeCAARegistration:
		msg.IDValue = s.ASCII(2, IDLength)
	case IDTypeUTMUUID:
		msg.IDValue = s.Hex(2, UUIDLength)
		// FromBytes only fails on a length mismatch, which a fixed slot rules out
		msg.UUID, _ = uuid.FromBytes(s[2 : 2+UUIDLength])
	case IDTypeSpecificSessionID:
		msg.SessionType = s.Byte(2)
		msg.IDValue = fmt.Sprintf("%d:%s", msg.SessionType, s.ASCII(3, SessionIDLength))
	default:
		// Reserved ID types keep the raw bytes
		msg.IDValue = s.Hex(2, IDLength)
	}

	return msg
}

// decodeLocationVector decodes a Location/Vector message
func decodeLocationVector(s Slot) LocationVector {
	msg := LocationVector{
		ProtocolVersion: s.ProtocolVersion(),
		Status:          OperationalStatus(s.HighNibble(1)),
		HeightType:      HeightType(s.Bit(1, 2)),
		EWDirection:     EWDirection(s.Bit(1, 1)),
		SpeedMultiplier: SpeedMultiplier(s.Bit(1, 0)),
	}

	msg.Direction = float64(s.Byte(2))
	if msg.EWDirection == DirectionAtOrAbove180 {
		msg.Direction += DirectionOffset
	}

	msg.SpeedHorizontal = groundSpeed(s.Byte(3), msg.SpeedMultiplier)
	msg.SpeedVertical = float64(int8(s.Byte(4))) * VerticalSpeedScale

	msg.Latitude = latLon(s.Int32LE(5))
	msg.Longitude = latLon(s.Int32LE(9))

	msg.AltitudePressure = altitude(s.Uint16LE(13))
	msg.AltitudeGeodetic = altitude(s.Uint16LE(15))
	msg.Height = altitude(s.Uint16LE(17))

	msg.VerticalAccuracy = VerticalAccuracy(s.HighNibble(19))
	msg.HorizontalAccuracy = HorizontalAccuracy(s.LowNibble(19))
	msg.BaroAccuracy = VerticalAccuracy(s.HighNibble(20))
	msg.SpeedAccuracy = SpeedAccuracy(s.LowNibble(20))

	msg.Timestamp = s.Uint16LE(21)
	msg.TimestampAccuracy = float64(s.LowNibble(23)) * TimestampAccScale

	return msg
}

// decodeSelfID decodes a Self-ID message
func decodeSelfID(s Slot) SelfID {
	return SelfID{
		ProtocolVersion: s.ProtocolVersion(),
		DescriptionType: s.Byte(1),
		Description:     s.ASCII(2, DescriptionLength),
	}
}

// decodeSystem decodes a System message
func decodeSystem(s Slot) System {
	flags := s.Byte(1)

	return System{
		ProtocolVersion:      s.ProtocolVersion(),
		OperatorLocationType: OperatorLocationType(flags % 4),
		ClassificationType:   ClassificationType((flags / 4) % 8),
		OperatorLatitude:     latLon(s.Int32LE(2)),
		OperatorLongitude:    latLon(s.Int32LE(6)),
		AreaCount:            s.Uint16LE(10),
		AreaRadius:           float64(s.Byte(12)) * AreaRadiusScale,
		AreaCeiling:          altitude(s.Uint16LE(13)),
		AreaFloor:            altitude(s.Uint16LE(15)),
		Category:             UACategory(s.HighNibble(17)),
		Class:                UAClass(s.LowNibble(17)),
		OperatorAltitude:     altitude(s.Uint16LE(18)),
		Timestamp:            s.Uint32LE(20),
	}
}

// decodeOperatorID decodes an Operator ID message
func decodeOperatorID(s Slot) OperatorID {
	return OperatorID{
		ProtocolVersion: s.ProtocolVersion(),
		OperatorIDType:  s.Byte(1),
		OperatorID:      s.ASCII(2, OperatorIDLength),
	}
}
