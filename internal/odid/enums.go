package odid

import "fmt"

// MessageType identifies the content of a 25-byte message slot
type MessageType int

const (
	MessageTypeBasicID        MessageType = 0
	MessageTypeLocation       MessageType = 1
	MessageTypeAuthentication MessageType = 2
	MessageTypeSelfID         MessageType = 3
	MessageTypeSystem         MessageType = 4
	MessageTypeOperatorID     MessageType = 5

	// MessageTypeUnrecognized marks any header that does not map to the types above
	MessageTypeUnrecognized MessageType = -1
)

// MessageTypeOf derives the message type from a slot header byte as
// (b - 2) / 16 with integer division truncating toward zero, so headers
// 0x00 and 0x01 are Basic ID (protocol versions 0 and 1). Headers above
// the operator ID range are unrecognized.
func MessageTypeOf(b byte) MessageType {
	t := MessageType((int(b) - 2) / 16)
	if !t.Valid() {
		return MessageTypeUnrecognized
	}
	return t
}

// Valid reports whether t is one of the six defined message types
func (t MessageType) Valid() bool {
	return t >= MessageTypeBasicID && t <= MessageTypeOperatorID
}

// String returns the display name of a MessageType
func (t MessageType) String() string {
	switch t {
	case MessageTypeBasicID:
		return "BASIC_ID"
	case MessageTypeLocation:
		return "LOCATION_VECTOR"
	case MessageTypeAuthentication:
		return "AUTHENTICATION"
	case MessageTypeSelfID:
		return "SELF_ID"
	case MessageTypeSystem:
		return "SYSTEM"
	case MessageTypeOperatorID:
		return "OPERATOR_ID"
	default:
		return "UNRECOGNIZED"
	}
}

// UAType is the aircraft category carried in the Basic ID message
type UAType uint8

const (
	UATypeNone UAType = iota
	UATypeAeroplane
	UATypeHelicopterMultirotor
	UATypeGyroplane
	UATypeHybridLift
	UATypeOrnithopter
	UATypeGlider
	UATypeKite
	UATypeFreeBalloon
	UATypeCaptiveBalloon
	UATypeAirship
	UATypeFreeFallParachute
	UATypeRocket
	UATypeTetheredPoweredAircraft
	UATypeGroundObstacle
	UATypeOther
)

// Valid reports whether t is a defined UA type
func (t UAType) Valid() bool {
	return t <= UATypeOther
}

// String returns the display name of a UAType
func (t UAType) String() string {
	switch t {
	case UATypeNone:
		return "UA_NONE"
	case UATypeAeroplane:
		return "AEROPLANE"
	case UATypeHelicopterMultirotor:
		return "HELICOPTER_MULTIROTOR"
	case UATypeGyroplane:
		return "GYROPLANE"
	case UATypeHybridLift:
		return "HYBRID_LIFT"
	case UATypeOrnithopter:
		return "ORNITHOPTER"
	case UATypeGlider:
		return "GLIDER"
	case UATypeKite:
		return "KITE"
	case UATypeFreeBalloon:
		return "FREE_BALLOON"
	case UATypeCaptiveBalloon:
		return "CAPTIVE_BALLOON"
	case UATypeAirship:
		return "AIRSHIP"
	case UATypeFreeFallParachute:
		return "FREE_FALL_PARACHUTE"
	case UATypeRocket:
		return "ROCKET"
	case UATypeTetheredPoweredAircraft:
		return "TETHERED_POWERED_AIRCRAFT"
	case UATypeGroundObstacle:
		return "GROUND_OBSTACLE"
	case UATypeOther:
		return "OTHER"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// IDType describes how the Basic ID value is encoded
type IDType uint8

const (
	IDTypeNone IDType = iota
	IDTypeSerialNumber
	IDTypeCAARegistration
	IDTypeUTMUUID
	IDTypeSpecificSessionID
)

// Valid reports whether t is a defined ID type
func (t IDType) Valid() bool {
	return t <= IDTypeSpecificSessionID
}

// String returns the display name of an IDType
func (t IDType) String() string {
	switch t {
	case IDTypeNone:
		return "ID_NONE"
	case IDTypeSerialNumber:
		return "SERIAL_NUMBER_ANSI_CTA_2063_A"
	case IDTypeCAARegistration:
		return "CAA_ASSIGNED_REGISTRATION_ID"
	case IDTypeUTMUUID:
		return "UTM_ASSIGNED_UUID"
	case IDTypeSpecificSessionID:
		return "SPECIFIC_SESSION_ID"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(t))
	}
}

// OperationalStatus is the flight state reported in the Location/Vector message
type OperationalStatus uint8

const (
	StatusUndeclared OperationalStatus = iota
	StatusGround
	StatusAirborne
	StatusEmergency
	StatusRemoteIDSystemFailure
)

// Valid reports whether s is a defined status
func (s OperationalStatus) Valid() bool {
	return s <= StatusRemoteIDSystemFailure
}

// String returns the display name of an OperationalStatus
func (s OperationalStatus) String() string {
	switch s {
	case StatusUndeclared:
		return "UNDECLARED"
	case StatusGround:
		return "GROUND"
	case StatusAirborne:
		return "AIRBORNE"
	case StatusEmergency:
		return "EMERGENCY"
	case StatusRemoteIDSystemFailure:
		return "REMOTE_ID_SYSTEM_FAILURE"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(s))
	}
}

// HeightType is the reference of the Location/Vector height field
type HeightType uint8

const (
	HeightAboveTakeoff HeightType = iota
	HeightAGL
)

// Valid reports whether h is a defined height reference
func (h HeightType) Valid() bool {
	return h <= HeightAGL
}

// String returns the display name of a HeightType
func (h HeightType) String() string {
	switch h {
	case HeightAboveTakeoff:
		return "ABOVE_TAKEOFF"
	case HeightAGL:
		return "AGL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(h))
	}
}

// EWDirection selects the half of the compass the direction byte refers to
type EWDirection uint8

const (
	DirectionBelow180 EWDirection = iota
	DirectionAtOrAbove180
)

// Valid reports whether d is a defined direction segment
func (d EWDirection) Valid() bool {
	return d <= DirectionAtOrAbove180
}

// String returns the display name of an EWDirection
func (d EWDirection) String() string {
	switch d {
	case DirectionBelow180:
		return "<180"
	case DirectionAtOrAbove180:
		return ">=180"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(d))
	}
}

// SpeedMultiplier selects the ground speed encoding range
type SpeedMultiplier uint8

const (
	SpeedX025 SpeedMultiplier = iota
	SpeedX075
)

// Valid reports whether m is a defined multiplier
func (m SpeedMultiplier) Valid() bool {
	return m <= SpeedX075
}

// String returns the display name of a SpeedMultiplier
func (m SpeedMultiplier) String() string {
	switch m {
	case SpeedX025:
		return "0.25"
	case SpeedX075:
		return "0.75"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
	}
}

// HorizontalAccuracy is the 95% horizontal position accuracy class
type HorizontalAccuracy uint8

const (
	HorizontalUnknown HorizontalAccuracy = iota
	Horizontal10NM
	Horizontal4NM
	Horizontal2NM
	Horizontal1NM
	Horizontal05NM
	Horizontal03NM
	Horizontal01NM
	Horizontal005NM
	Horizontal30m
	Horizontal10m
	Horizontal3m
	Horizontal1m
)

// Valid reports whether a is a defined horizontal accuracy
func (a HorizontalAccuracy) Valid() bool {
	return a <= Horizontal1m
}

// String returns the display name of a HorizontalAccuracy
func (a HorizontalAccuracy) String() string {
	switch a {
	case HorizontalUnknown:
		return "UNKNOWN OR >=18.52 km"
	case Horizontal10NM:
		return "<18.52 km"
	case Horizontal4NM:
		return "<7.408 km"
	case Horizontal2NM:
		return "<3.704 km"
	case Horizontal1NM:
		return "<1852 m"
	case Horizontal05NM:
		return "<926 m"
	case Horizontal03NM:
		return "<555.6 m"
	case Horizontal01NM:
		return "<185.2 m"
	case Horizontal005NM:
		return "<92.6 m"
	case Horizontal30m:
		return "<30 m"
	case Horizontal10m:
		return "<10 m"
	case Horizontal3m:
		return "<3 m"
	case Horizontal1m:
		return "<1 m"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(a))
	}
}

// VerticalAccuracy is the 95% vertical accuracy class, used for both the
// geodetic and the barometric altitude
type VerticalAccuracy uint8

const (
	VerticalUnknown VerticalAccuracy = iota
	Vertical150m
	Vertical45m
	Vertical25m
	Vertical10m
	Vertical3m
	Vertical1m
)

// Valid reports whether a is a defined vertical accuracy
func (a VerticalAccuracy) Valid() bool {
	return a <= Vertical1m
}

// String returns the display name of a VerticalAccuracy
func (a VerticalAccuracy) String() string {
	switch a {
	case VerticalUnknown:
		return "UNKNOWN OR >=150 m"
	case Vertical150m:
		return "<150 m"
	case Vertical45m:
		return "<45 m"
	case Vertical25m:
		return "<25 m"
	case Vertical10m:
		return "<10 m"
	case Vertical3m:
		return "<3 m"
	case Vertical1m:
		return "<1 m"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(a))
	}
}

// SpeedAccuracy is the 95% horizontal speed accuracy class
type SpeedAccuracy uint8

const (
	SpeedAccuracyUnknown SpeedAccuracy = iota
	SpeedAccuracy10mps
	SpeedAccuracy3mps
	SpeedAccuracy1mps
	SpeedAccuracy03mps
)

// Valid reports whether a is a defined speed accuracy
func (a SpeedAccuracy) Valid() bool {
	return a <= SpeedAccuracy03mps
}

// String returns the display name of a SpeedAccuracy
func (a SpeedAccuracy) String() string {
	switch a {
	case SpeedAccuracyUnknown:
		return "UNKNOWN OR >=10 m/s"
	case SpeedAccuracy10mps:
		return "<10 m/s"
	case SpeedAccuracy3mps:
		return "<3 m/s"
	case SpeedAccuracy1mps:
		return "<1 m/s"
	case SpeedAccuracy03mps:
		return "<0.3 m/s"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(a))
	}
}

// OperatorLocationType is the source of the operator position in the System message
type OperatorLocationType uint8

const (
	OperatorLocationTakeoff OperatorLocationType = iota
	OperatorLocationLiveGNSS
	OperatorLocationFixed
)

// Valid reports whether t is a defined location source
func (t OperatorLocationType) Valid() bool {
	return t <= OperatorLocationFixed
}

// String returns the display name of an OperatorLocationType
func (t OperatorLocationType) String() string {
	switch t {
	case OperatorLocationTakeoff:
		return "TAKEOFF"
	case OperatorLocationLiveGNSS:
		return "LIVE_GNSS"
	case OperatorLocationFixed:
		return "FIXED"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(t))
	}
}

// ClassificationType names the region whose UA classification scheme applies
type ClassificationType uint8

const (
	ClassificationUndeclared ClassificationType = iota
	ClassificationEU
)

// Valid reports whether t is a defined classification type
func (t ClassificationType) Valid() bool {
	return t <= ClassificationEU
}

// String returns the display name of a ClassificationType
func (t ClassificationType) String() string {
	switch t {
	case ClassificationUndeclared:
		return "UNDECLARED"
	case ClassificationEU:
		return "EU"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(t))
	}
}

// UACategory is the EU operating category
type UACategory uint8

const (
	CategoryUndeclared UACategory = iota
	CategoryOpen
	CategorySpecific
	CategoryCertified
)

// Valid reports whether c is a defined category
func (c UACategory) Valid() bool {
	return c <= CategoryCertified
}

// String returns the display name of a UACategory
func (c UACategory) String() string {
	switch c {
	case CategoryUndeclared:
		return "UNDECLARED"
	case CategoryOpen:
		return "OPEN"
	case CategorySpecific:
		return "SPECIFIC"
	case CategoryCertified:
		return "CERTIFIED"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(c))
	}
}

// UAClass is the EU class marking, meaningful only in the Open category
type UAClass uint8

const (
	ClassUndeclared UAClass = iota
	Class0
	Class1
	Class2
	Class3
	Class4
	Class5
	Class6
)

// Valid reports whether c is a defined class
func (c UAClass) Valid() bool {
	return c <= Class6
}

// String returns the display name of a UAClass
func (c UAClass) String() string {
	switch c {
	case ClassUndeclared:
		return "UNDECLARED"
	case Class0:
		return "CLASS_0"
	case Class1:
		return "CLASS_1"
	case Class2:
		return "CLASS_2"
	case Class3:
		return "CLASS_3"
	case Class4:
		return "CLASS_4"
	case Class5:
		return "CLASS_5"
	case Class6:
		return "CLASS_6"
	default:
		return fmt.Sprintf("RESERVED(%d)", uint8(c))
	}
}
