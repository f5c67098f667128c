package translator

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// The external tool consumes and produces UTF-16 little-endian documents
// with a byte order mark. Decoding honors a BOM of either endianness and
// assumes little-endian when none is present.

func encodeUTF16(s string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		return nil, &FormatError{Message: "cannot encode document as UTF-16", Cause: err}
	}
	return out, nil
}

func decodeUTF16(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &FormatError{Message: "empty document"}
	}
	if len(data)%2 != 0 {
		return "", &FormatError{Message: "odd byte count for UTF-16 input"}
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", &FormatError{Message: "cannot decode UTF-16 input", Cause: err}
	}
	return string(out), nil
}
