package fs

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/aretw0/valog/pkg/core"
)

// decoder turns raw file bytes into text or reports that it cannot.
type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeUTF8(data []byte) (string, bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// legacy wraps an x/text encoding. x/text substitutes U+FFFD for invalid
// input instead of failing, so a replacement character in the output means
// the bytes were not in that encoding.
func legacy(enc encoding.Encoding, strict bool) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		s := string(out)
		if strict && strings.ContainsRune(s, utf8.RuneError) {
			return "", false
		}
		return s, true
	}
}

// defaultDecoders is tried in order: UTF-8, GBK, then Latin-1 which maps
// every byte and so preserves the content as a last resort.
var defaultDecoders = []decoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "gbk", decode: legacy(simplifiedchinese.GBK, true)},
	{name: "iso-8859-1", decode: legacy(charmap.ISO8859_1, false)},
}

// decodeText runs the decoder chain and returns the first success.
func decodeText(data []byte, chain []decoder) (string, string, error) {
	for _, d := range chain {
		if s, ok := d.decode(data); ok {
			return s, d.name, nil
		}
	}
	return "", "", fmt.Errorf("%w: tried %d encodings", core.ErrDecode, len(chain))
}
