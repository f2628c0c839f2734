package parser

import "unicode/utf8"

// decodeLatin1 converts an ISO 8859-1 payload to UTF-8. The archive serves
// all text files in Latin-1; every byte maps 1:1 to the code point of the
// same value.
func decodeLatin1(b []byte) string {
	n := 0
	for _, c := range b {
		n += utf8.RuneLen(rune(c))
	}
	out := make([]byte, 0, n)
	for _, c := range b {
		out = utf8.AppendRune(out, rune(c))
	}
	return string(out)
}
