package value

import "unicode/utf16"

// UTF8ToUtf16 encodes a Go (UTF-8) string into UTF-16 code units,
// matching how ECMAScript source and string literals are represented
// internally (spec 3.1).
func UTF8ToUtf16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Utf16ToUTF8 decodes UTF-16 code units back to a Go string for display
// and host-boundary interop (console output, CLI args).
func Utf16ToUTF8(units []uint16) string {
	return string(utf16.Decode(units))
}
