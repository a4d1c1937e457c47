package raster

// font4x6 is a 4x6 bitmap font, one row per scanline (6 rows), 4 bits
// used per row (MSB-first). Covers digits, uppercase letters, and a few
// punctuation marks; anything else renders blank.
var font4x6 = map[byte][6]byte{
	' ': {0, 0, 0, 0, 0, 0},
	'.': {0, 0, 0, 0, 0b0100, 0},
	',': {0, 0, 0, 0, 0b0100, 0b1000},
	':': {0, 0b0100, 0, 0, 0b0100, 0},
	'-': {0, 0, 0b1110, 0, 0, 0},
	'0': {0b0110, 0b1001, 0b1011, 0b1101, 0b1001, 0b0110},
	'1': {0b0010, 0b0110, 0b0010, 0b0010, 0b0010, 0b0111},
	'2': {0b1110, 0b0001, 0b0110, 0b1000, 0b1000, 0b1111},
	'3': {0b1110, 0b0001, 0b0110, 0b0001, 0b0001, 0b1110},
	'4': {0b1001, 0b1001, 0b1111, 0b0001, 0b0001, 0b0001},
	'5': {0b1111, 0b1000, 0b1110, 0b0001, 0b0001, 0b1110},
	'6': {0b0110, 0b1000, 0b1110, 0b1001, 0b1001, 0b0110},
	'7': {0b1111, 0b0001, 0b0010, 0b0100, 0b0100, 0b0100},
	'8': {0b0110, 0b1001, 0b0110, 0b1001, 0b1001, 0b0110},
	'9': {0b0110, 0b1001, 0b1001, 0b0111, 0b0001, 0b0110},
	'A': {0b0110, 0b1001, 0b1001, 0b1111, 0b1001, 0b1001},
	'B': {0b1110, 0b1001, 0b1110, 0b1001, 0b1001, 0b1110},
	'C': {0b0111, 0b1000, 0b1000, 0b1000, 0b1000, 0b0111},
	'D': {0b1110, 0b1001, 0b1001, 0b1001, 0b1001, 0b1110},
	'E': {0b1111, 0b1000, 0b1110, 0b1000, 0b1000, 0b1111},
	'F': {0b1111, 0b1000, 0b1110, 0b1000, 0b1000, 0b1000},
	'G': {0b0111, 0b1000, 0b1000, 0b1011, 0b1001, 0b0111},
	'H': {0b1001, 0b1001, 0b1111, 0b1001, 0b1001, 0b1001},
	'I': {0b0111, 0b0010, 0b0010, 0b0010, 0b0010, 0b0111},
	'J': {0b0001, 0b0001, 0b0001, 0b0001, 0b1001, 0b0110},
	'K': {0b1001, 0b1010, 0b1100, 0b1100, 0b1010, 0b1001},
	'L': {0b1000, 0b1000, 0b1000, 0b1000, 0b1000, 0b1111},
	'M': {0b1001, 0b1111, 0b1111, 0b1001, 0b1001, 0b1001},
	'N': {0b1001, 0b1101, 0b1111, 0b1011, 0b1001, 0b1001},
	'O': {0b0110, 0b1001, 0b1001, 0b1001, 0b1001, 0b0110},
	'P': {0b1110, 0b1001, 0b1110, 0b1000, 0b1000, 0b1000},
	'Q': {0b0110, 0b1001, 0b1001, 0b1011, 0b1010, 0b0101},
	'R': {0b1110, 0b1001, 0b1110, 0b1100, 0b1010, 0b1001},
	'S': {0b0111, 0b1000, 0b0110, 0b0001, 0b0001, 0b1110},
	'T': {0b1111, 0b0100, 0b0100, 0b0100, 0b0100, 0b0100},
	'U': {0b1001, 0b1001, 0b1001, 0b1001, 0b1001, 0b0110},
	'V': {0b1001, 0b1001, 0b1001, 0b1001, 0b0110, 0b0110},
	'W': {0b1001, 0b1001, 0b1001, 0b1111, 0b1111, 0b1001},
	'X': {0b1001, 0b1001, 0b0110, 0b0110, 0b1001, 0b1001},
	'Y': {0b1001, 0b1001, 0b0110, 0b0100, 0b0100, 0b0100},
	'Z': {0b1111, 0b0001, 0b0010, 0b0100, 0b1000, 0b1111},
}

// font4x6Glyph returns ch's 6-row bitmap, mapping lowercase letters to their
// uppercase glyph (the 4x6 face has no separate lowercase forms), and
// substituting a blank cell for anything not in the table.
func font4x6Glyph(ch byte) ([6]byte, bool) {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	g, ok := font4x6[ch]
	if !ok {
		return font4x6[' '], true
	}
	return g, true
}
