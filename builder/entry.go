package builder

import (
	"fmt"
	"strconv"
	"strings"
)

// MergePolicy decides which entry is kept when a word appears in several
// intermediate files.
type MergePolicy int

const (
	// LastWins keeps the entry from the file processed last.
	LastWins MergePolicy = iota
	// FirstWins keeps the entry from the file processed first.
	FirstWins
)

// ParsePolicy parses "last-wins" or "first-wins".
func ParsePolicy(s string) (MergePolicy, error) {
	switch s {
	case "", "last-wins":
		return LastWins, nil
	case "first-wins":
		return FirstWins, nil
	}
	return LastWins, fmt.Errorf("unknown merge policy %q", s)
}

// MissingMode decides what happens to words without a reading.
type MissingMode int

const (
	// SkipMissing drops the word and logs it.
	SkipMissing MissingMode = iota
	// EmptyMissing keeps the word with an empty pronunciation column.
	EmptyMissing
)

// ParseMissing parses "skip" or "empty".
func ParseMissing(s string) (MissingMode, error) {
	switch s {
	case "", "skip":
		return SkipMissing, nil
	case "empty":
		return EmptyMissing, nil
	}
	return SkipMissing, fmt.Errorf("unknown missing-reading mode %q", s)
}

// Entry is one line of the output dictionary.
type Entry struct {
	Word          string
	Pronunciation string
	Weight        *float64
	Comment       string
}

// String renders the entry as "<word> <pronunciation>[ <weight>][ <comment>]".
// An empty pronunciation still occupies its column.
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Word)
	sb.WriteByte(' ')
	sb.WriteString(e.Pronunciation)
	if e.Weight != nil {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(*e.Weight, 'f', -1, 64))
	}
	if e.Comment != "" {
		sb.WriteByte(' ')
		sb.WriteString(e.Comment)
	}
	return sb.String()
}
