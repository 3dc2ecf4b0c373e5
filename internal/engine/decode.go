package engine

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadFile implements spec.md 6.1's source-input decoding: UTF-8 (BOM
// optional) or UTF-16 LE/BE (BOM required) are accepted; anything else
// is an error raised before tokenization even starts.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decodeSource(data)
}

func decodeSource(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:]), nil
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return decodeUTF16(data, unicode.LittleEndian)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return decodeUTF16(data, unicode.BigEndian)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("source is not valid UTF-8 and carries no UTF-16 byte-order mark")
	}
	return string(data), nil
}

func decodeUTF16(data []byte, endianness unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder()
	utf8Data, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-16 source: %w", err)
	}
	return string(bytes.TrimPrefix(utf8Data, []byte("﻿"))), nil
}
