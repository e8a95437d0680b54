package sie

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"exporter/internal/export"
)

// Supported output encodings. The header always declares #FORMAT PC8 (CP437), the
// traditional SIE encoding. UTF-8 is the default because current versions of Fortnox,
// Visma and Bokio read it, and it keeps characters CP437 cannot represent; older
// importers may show å/ä/ö garbled unless cp437 is chosen.
const (
	EncodingUTF8  = "utf-8"
	EncodingCP437 = "cp437"
)

// NormalizeEncoding maps accepted spellings to EncodingUTF8 or EncodingCP437.
func NormalizeEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "cp437", "pc8", "ibm437":
		return EncodingCP437, nil
	default:
		return "", fmt.Errorf("%w: %q", export.ErrUnsupportedEncoding, name)
	}
}

// Encode converts UTF-8 text to the target encoding. Characters missing from CP437
// are replaced with the encoding's substitution byte.
func Encode(text string, enc string) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(text), nil
	case EncodingCP437:
		out, err := encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder()).Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode cp437: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", export.ErrUnsupportedEncoding, enc)
	}
}

// Decode converts file bytes in the given encoding to UTF-8 text.
func Decode(data []byte, enc string) (string, error) {
	switch enc {
	case EncodingUTF8:
		return string(data), nil
	case EncodingCP437:
		out, err := charmap.CodePage437.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode cp437: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("%w: %q", export.ErrUnsupportedEncoding, enc)
	}
}
