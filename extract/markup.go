package extract

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skipped elements never contribute text.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// inline elements do not break words; every other tag does.
var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "em": true, "font": true, "i": true,
	"mark": true, "q": true, "ruby": true, "s": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "u": true,
}

// HTML keeps the text nodes of an HTML document, dropping tags, comments and
// the contents of script-like elements.
func HTML(text string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	skip := ""
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			if skip == "" {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tt == html.StartTagToken && skipped[tag] && skip == "" {
				skip = tag
			}
			if !inline[tag] {
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == skip {
				skip = ""
			}
			if !inline[tag] {
				sb.WriteByte('\n')
			}
		}
	}
}

// XML keeps character data (CDATA included) and drops tags, attributes,
// comments and processing instructions. Documents that are not well formed
// are handled by the HTML tokenizer instead.
func XML(text string) string {
	var sb strings.Builder
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = false
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		// Input has already been decoded to UTF-8.
		return r, nil
	}
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return sb.String()
		}
		if err != nil {
			return HTML(text)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement, xml.EndElement:
			sb.WriteByte('\n')
		}
	}
}
