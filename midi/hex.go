package midi

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// HexString formats b as uppercase hex pairs joined by sep. An empty sep
// gives a contiguous string.
func HexString(b []byte, sep string) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b)*2 + (len(b)-1)*len(sep))
	for i, c := range b {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xF])
	}
	return sb.String()
}

// ParseHex reads hex bytes separated by any mix of spaces, commas, colons
// or dashes, with an optional 0x prefix on each byte. Unseparated input
// such as "F07E00F7" is accepted too. A lone digit is one byte; any longer
// field must have an even number of digits.
func ParseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ':' || r == '-' || r == '\t' || r == '\n' || r == '\r'
	})

	var out []byte
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		switch {
		case len(f) == 1:
			f = "0" + f
		case len(f)%2 == 1:
			return nil, fmt.Errorf("invalid hex %q: odd number of digits", f)
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("invalid hex %q: %w", f, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// WordsString formats UMP words as 8-digit uppercase hex joined by sep.
func WordsString(words []uint32, sep string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%08X", w)
	}
	return strings.Join(parts, sep)
}

// ParseWords reads whitespace or comma separated 32-bit hex words.
func ParseWords(s string) ([]uint32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})

	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		if len(f) == 0 || len(f) > 8 {
			return nil, fmt.Errorf("invalid UMP word %q", f)
		}
		b, err := hex.DecodeString(strings.Repeat("0", 8-len(f)) + f)
		if err != nil {
			return nil, fmt.Errorf("invalid UMP word %q: %w", f, err)
		}
		out = append(out, uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8|uint32(b[3]))
	}
	return out, nil
}
