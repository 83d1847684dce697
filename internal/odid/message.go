package odid

import (
	"time"

	"github.com/google/uuid"
)

// Message is one decoded Remote ID message
type Message interface {
	Type() MessageType
}

// BasicID identifies the aircraft
type BasicID struct {
	ProtocolVersion uint8
	IDType          IDType
	UAType          UAType
	IDValue         string

	// Set only for IDTypeUTMUUID
	UUID uuid.UUID

	// Set only for IDTypeSpecificSessionID
	SessionType uint8
}

// Type implements Message
func (BasicID) Type() MessageType { return MessageTypeBasicID }

// LocationVector carries position, velocity and their accuracies
type LocationVector struct {
	ProtocolVersion uint8
	Status          OperationalStatus
	HeightType      HeightType
	EWDirection     EWDirection
	SpeedMultiplier SpeedMultiplier

	Direction       float64 // degrees clockwise from true north
	SpeedHorizontal float64 // m/s
	SpeedVertical   float64 // m/s, positive up

	Latitude  float64 // degrees
	Longitude float64 // degrees

	AltitudePressure float64 // m
	AltitudeGeodetic float64 // m
	Height           float64 // m, reference given by HeightType

	HorizontalAccuracy HorizontalAccuracy
	VerticalAccuracy   VerticalAccuracy
	BaroAccuracy       VerticalAccuracy
	SpeedAccuracy      SpeedAccuracy

	Timestamp         uint16  // tenths of a second since the last full UTC hour
	TimestampAccuracy float64 // seconds, 0 = unknown
}

// Type implements Message
func (LocationVector) Type() MessageType { return MessageTypeLocation }

// TimestampSeconds returns Timestamp in seconds since the last full UTC hour
func (l LocationVector) TimestampSeconds() float64 {
	return float64(l.Timestamp) / 10
}

// Authentication is recognized but its content is not decoded
type Authentication struct {
	ProtocolVersion uint8
}

// Type implements Message
func (Authentication) Type() MessageType { return MessageTypeAuthentication }

// SelfID is the operator's free-text description of the flight
type SelfID struct {
	ProtocolVersion uint8
	DescriptionType uint8
	Description     string
}

// Type implements Message
func (SelfID) Type() MessageType { return MessageTypeSelfID }

// systemEpoch is the reference of the System message timestamp
var systemEpoch = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// System carries operator location, operating area and classification
type System struct {
	ProtocolVersion      uint8
	OperatorLocationType OperatorLocationType
	ClassificationType   ClassificationType

	OperatorLatitude  float64 // degrees
	OperatorLongitude float64 // degrees

	AreaCount   uint16
	AreaRadius  float64 // m
	AreaCeiling float64 // m
	AreaFloor   float64 // m

	Category UACategory
	Class    UAClass

	OperatorAltitude float64 // m

	Timestamp uint32 // seconds since 2019-01-01T00:00:00Z
}

// Type implements Message
func (System) Type() MessageType { return MessageTypeSystem }

// ClassValid reports whether Class carries meaning (Open category only)
func (s System) ClassValid() bool {
	return s.Category == CategoryOpen
}

// Time converts Timestamp to an absolute UTC time, zero when unset
func (s System) Time() time.Time {
	if s.Timestamp == 0 {
		return time.Time{}
	}
	return systemEpoch.Add(time.Duration(s.Timestamp) * time.Second)
}

// OperatorID is the operator or CAA license identifier
type OperatorID struct {
	ProtocolVersion uint8
	OperatorIDType  uint8
	OperatorID      string
}

// Type implements Message
func (OperatorID) Type() MessageType { return MessageTypeOperatorID }
