package extract

import (
	"encoding/csv"
	"encoding/json"
	"regexp"
	"strings"
)

var jsonPunct = strings.NewReplacer(
	"{", "\n", "}", "\n", "[", "\n", "]", "\n",
	`"`, "\n", ":", "\n", ",", "\n", `\n`, "\n",
)

// JSON collects every object key and string value of a JSON document, one
// per line. Invalid JSON has its punctuation replaced by line breaks instead.
func JSON(text string) string {
	var doc any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return jsonPunct.Replace(text)
	}
	var sb strings.Builder
	collectStrings(doc, &sb)
	return sb.String()
}

func collectStrings(v any, sb *strings.Builder) {
	switch t := v.(type) {
	case string:
		sb.WriteString(t)
		sb.WriteByte('\n')
	case []any:
		for _, e := range t {
			collectStrings(e, sb)
		}
	case map[string]any:
		for k, e := range t {
			sb.WriteString(k)
			sb.WriteByte('\n')
			collectStrings(e, sb)
		}
	}
}

// CSV puts every field on its own line. Malformed input is returned as is.
func CSV(text string) string {
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return text
	}
	var sb strings.Builder
	for _, rec := range records {
		for _, field := range rec {
			sb.WriteString(field)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

var (
	mdFenceRe  = regexp.MustCompile("(?s)(```|~~~).*?(```|~~~)")
	mdInlineRe = regexp.MustCompile("`[^`\n]*`")
	mdLinkRe   = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdRefRe    = regexp.MustCompile(`(?m)^\s*\[[^\]]+\]:\s*\S+.*$`)
	mdTagRe    = regexp.MustCompile(`<[^>\n]+>`)
)

// Markdown removes code, link targets and inline HTML, keeping link text.
func Markdown(text string) string {
	text = mdFenceRe.ReplaceAllString(text, "\n")
	text = mdInlineRe.ReplaceAllString(text, " ")
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = mdRefRe.ReplaceAllString(text, "")
	return mdTagRe.ReplaceAllString(text, "\n")
}
