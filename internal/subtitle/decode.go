package subtitle

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings are tried in order once strict UTF-8 fails.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"latin-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// Decode converts raw subtitle bytes to text and reports the encoding used.
// Strict UTF-8 is tried first, then the legacy single-byte encodings. If all
// of them fail the bytes are read as UTF-8 with invalid sequences replaced.
func Decode(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), "utf-8"
	}
	for _, candidate := range legacyEncodings {
		out, err := candidate.enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(out), candidate.name
		}
	}
	return strings.ToValidUTF8(string(data), "�"), "utf-8-replace"
}
