// Package recordid converts 15-character record ids into their
// case-insensitive 18-character canonical form.
package recordid

const (
	// ShortLength is the length of a case-sensitive record id.
	ShortLength = 15
	// CanonicalLength is the length of a checksum-suffixed record id.
	CanonicalLength = 18

	blockSize = 5
)

// suffixAlphabet maps a 5-bit block mask to its suffix character.
const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345"

// Normalize returns the canonical 18-character form of a 15-character id.
// Any other length is returned unchanged; malformed ids are left for the
// validation service to reject. Length counts bytes, so an id holding a
// multi-byte rune is never treated as short even at 15 characters.
func Normalize(id string) string {
	if len(id) != ShortLength {
		return id
	}

	suffix := make([]byte, 0, CanonicalLength-ShortLength)
	for block := 0; block < ShortLength/blockSize; block++ {
		mask := 0
		for pos := 0; pos < blockSize; pos++ {
			c := id[block*blockSize+pos]
			if c >= 'A' && c <= 'Z' {
				mask |= 1 << pos
			}
		}
		suffix = append(suffix, suffixAlphabet[mask])
	}
	return id + string(suffix)
}

// NormalizeAll applies Normalize to every id, preserving order.
func NormalizeAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Normalize(id)
	}
	return out
}
