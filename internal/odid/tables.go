package odid

// Placeholder replaces bytes outside the Remote ID character set
const Placeholder = '_'

// hexDigits is the upper-case hexadecimal alphabet
const hexDigits = "0123456789ABCDEF"

// Pre-computed lookup tables, built once and read-only afterwards
var (
	ASCIITable [256]byte
	HexTable   [256][2]byte
)

// init initializes the byte lookup tables
func init() {
	for i := 0; i < 256; i++ {
		b := byte(i)
		switch {
		case b == 0:
			// Unset (NUL-padded) fields render as zeros
			ASCIITable[i] = '0'
		case b >= '0' && b <= '9', b >= 'A' && b <= 'Z', b == '-', b == '.':
			ASCIITable[i] = b
		default:
			ASCIITable[i] = Placeholder
		}

		HexTable[i] = [2]byte{hexDigits[b>>4], hexDigits[b&0x0F]}
	}
}

// ASCIIString maps every byte of data through ASCIITable
func ASCIIString(data []byte) string {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = ASCIITable[b]
	}
	return string(out)
}

// HexString renders data as upper-case hex using HexTable
func HexString(data []byte) string {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = append(out, HexTable[b][0], HexTable[b][1])
	}
	return string(out)
}
