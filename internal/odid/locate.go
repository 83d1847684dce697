package odid

// Locate returns the offset of the first occurrence of sig in buf.
// A match that would run past the end of buf is not a match.
func Locate(buf, sig []byte) (int, bool) {
	if len(sig) == 0 || len(sig) > len(buf) {
		return -1, false
	}

	for i := 0; i+len(sig) <= len(buf); i++ {
		if buf[i] != sig[0] {
			continue
		}

		match := true
		for k := 1; k < len(sig); k++ {
			if buf[i+k] != sig[k] {
				match = false
				break
			}
		}
		if match {
			return i, true
		}
	}

	return -1, false
}
