package odid

// Signature is the vendor-specific element prefix carrying Remote ID data:
// the ASD-STAN OUI FA:0B:BC followed by the Open Drone ID OUI type 0x0D.
var Signature = []byte{0xFA, 0x0B, 0xBC, 0x0D}

// Message pack layout, relative to the signature offset
const (
	CounterOffset     = 4 // message counter
	PackHeaderOffset  = 5 // message pack header (type 0xF, protocol version)
	MessageSizeOffset = 6 // declared size of each message
	CountOffset       = 7 // number of messages in the pack
	SlotsOffset       = 8 // first message slot
)

// SlotSize is the fixed size of every Remote ID message
const SlotSize = 25

// MaxFrameLength bounds the captured management-frame payload (largest 802.11 MPDU)
const MaxFrameLength = 2346

// Scaling constants from ASTM F3411
const (
	LatLonMultiplier    = 1e-7
	AltitudeMultiplier  = 0.5
	AltitudeOffset      = -1000.0
	SpeedMultiplierLow  = 0.25
	SpeedMultiplierHigh = 0.75
	SpeedHighOffset     = 255 * 0.25 // 63.75 m/s covered by the low range
	VerticalSpeedScale  = 0.5
	DirectionOffset     = 180.0
	AreaRadiusScale     = 10
	TimestampAccScale   = 0.1
)

// Field widths in bytes
const (
	IDLength          = 20
	UUIDLength        = 16
	SessionIDLength   = 19
	DescriptionLength = 23
	OperatorIDLength  = 20
)
