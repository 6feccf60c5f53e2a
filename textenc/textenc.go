// Package textenc turns raw file bytes into UTF-8 text, guessing the source
// encoding when the bytes are not UTF-8 already.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable is returned when no candidate encoding yields clean text.
var ErrUndecodable = errors.New("no candidate encoding decodes the input")

// DefaultFallbacks are tried after the detector's guess, in order.
var DefaultFallbacks = []string{"gb18030", "big5"}

const (
	encUTF8    = "utf-8"
	encUTF16LE = "utf-16le"
	encUTF16BE = "utf-16be"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Result is decoded text together with the encoding that produced it.
type Result struct {
	Text     string
	Encoding string
}

// Decode converts data to UTF-8. A byte order mark decides the encoding
// outright; valid UTF-8 is returned as is. Otherwise the charset detector's
// guess (when it names a Chinese encoding) and then fallbacks are tried,
// and the first decoding free of replacement characters wins.
func Decode(data []byte, fallbacks []string) (Result, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), encUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), encUTF16BE)
	}

	if utf8.Valid(data) {
		return Result{Text: string(data), Encoding: encUTF8}, nil
	}

	candidates := make([]string, 0, len(fallbacks)+1)
	if guess := detect(data); guess != "" {
		candidates = append(candidates, guess)
	}
	candidates = append(candidates, fallbacks...)

	tried := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		enc, canonical := lookup(name)
		if enc == nil || tried[canonical] {
			continue
		}
		tried[canonical] = true
		if res, err := decodeWith(data, enc, canonical); err == nil {
			return res, nil
		}
	}
	return Result{}, ErrUndecodable
}

func decodeWith(data []byte, enc encoding.Encoding, name string) (Result, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return Result{}, fmt.Errorf("decode as %s: %w", name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) || !utf8.Valid(out) {
		return Result{}, fmt.Errorf("decode as %s: %w", name, ErrUndecodable)
	}
	return Result{Text: string(out), Encoding: name}, nil
}

// lookup resolves an encoding label such as "GB-18030" or "big5".
func lookup(name string) (encoding.Encoding, string) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return nil, ""
	}
	if enc, canonical := charset.Lookup(label); enc != nil {
		return enc, canonical
	}
	return charset.Lookup(strings.ReplaceAll(label, "-", ""))
}

// detect returns the detector's best guess when it names a Chinese or wide
// Unicode encoding. Other guesses (single-byte, Japanese, Korean) decode
// Chinese bytes into plausible garbage and are only used when listed as an
// explicit fallback.
func detect(data []byte) string {
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return ""
	}
	name := strings.ToLower(res.Charset)
	for _, prefix := range []string{"gb", "big5", "utf-16", "utf-32"} {
		if strings.HasPrefix(name, prefix) {
			return res.Charset
		}
	}
	return ""
}
