// Package wifi classifies 802.11 carrier frequencies for display
package wifi

// Band is a Wi-Fi frequency band
type Band int

const (
	Band2_4GHz Band = iota
	Band5GHz
	Band6GHz
)

// String returns the display name of a Band
func (b Band) String() string {
	switch b {
	case Band2_4GHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	case Band6GHz:
		return "6GHz"
	default:
		return "unknown"
	}
}

// Channel maps a carrier frequency in MHz to its channel number.
// 2.4 GHz frequencies snap to the nearest of the non-overlapping channels
// 1, 6 and 11. Frequencies outside the known ranges are returned unchanged.
func Channel(mhz int) int {
	switch {
	case mhz >= 2401 && mhz <= 2424:
		return 1
	case mhz >= 2425 && mhz <= 2453:
		return 6
	case mhz >= 2454 && mhz <= 2484:
		return 11
	case mhz >= 5180 && mhz <= 5320:
		return (mhz-5180)/5 + 36
	case mhz >= 5500 && mhz <= 5720:
		return (mhz-5500)/5 + 100
	case mhz >= 5745 && mhz <= 5895:
		return (mhz-5745)/5 + 149
	default:
		return mhz
	}
}

// BandOf maps a carrier frequency in MHz to its band. Anything outside
// the 2.4 and 5 GHz ranges is reported as 6 GHz.
func BandOf(mhz int) Band {
	switch {
	case mhz >= 2401 && mhz <= 2495:
		return Band2_4GHz
	case mhz >= 5170 && mhz <= 5895:
		return Band5GHz
	default:
		return Band6GHz
	}
}
