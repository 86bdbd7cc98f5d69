package components

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHex converts typed hex into bytes. Accepted forms include
// "48 65 6C", "48656C" and "0x48 0x65"; whitespace is ignored.
func ParseHex(input string) ([]byte, error) {
	clean := strings.Join(strings.Fields(input), "")
	clean = strings.ReplaceAll(clean, "0x", "")
	clean = strings.ReplaceAll(clean, "0X", "")
	if clean == "" {
		return nil, fmt.Errorf("empty input")
	}

	for _, char := range clean {
		if !((char >= '0' && char <= '9') || (char >= 'A' && char <= 'F') || (char >= 'a' && char <= 'f')) {
			return nil, fmt.Errorf("invalid hex character '%c'", char)
		}
	}

	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even number of digits (got %d)", len(clean))
	}

	out := make([]byte, 0, len(clean)/2)
	for i := 0; i < len(clean); i += 2 {
		b, err := strconv.ParseUint(clean[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s': %w", clean[i:i+2], err)
		}
		out = append(out, byte(b))
	}
	return out, nil
}
