// Package dateutil formats timestamps from user-friendly token formats.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultTimestampFormat renders "2026-10-14 09:30".
const DefaultTimestampFormat = "YYYY-MM-DD HH:mm"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching. Matching is
// case-sensitive: MM is the month, mm the minute.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"datetime": DefaultTimestampFormat,
}

// segment is either a Go layout fragment or literal text.
type segment struct {
	layout  string
	literal string
}

// Layout is a compiled format. The zero value formats to "".
type Layout struct {
	source   string
	segments []segment
}

// Compile parses a token format into a Layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss.
// Use brackets to escape literal text: [at] is kept as "at".
// A preset name (iso, european, us, long, datetime; case-insensitive)
// is expanded first. Returns ErrInvalidDateFormat if the format is empty,
// too long, or has unclosed brackets.
func Compile(format string) (Layout, error) {
	if format == "" {
		return Layout{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return Layout{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	l := Layout{source: format}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.segments = append(l.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return Layout{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				flush()
				l.segments = append(l.segments, segment{layout: t.goFmt})
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(format[i])
			i++
		}
	}
	flush()

	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(format string) Layout {
	l, err := Compile(format)
	if err != nil {
		panic(err)
	}
	return l
}

// Format renders t. Literal text never passes through time.Format, so
// digits or words like "Mon" inside brackets are kept verbatim.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, s := range l.segments {
		if s.layout != "" {
			b.WriteString(t.Format(s.layout))
			continue
		}
		b.WriteString(s.literal)
	}
	return b.String()
}

// String returns the source format (after preset expansion).
func (l Layout) String() string {
	return l.source
}

// FormatTime compiles format and renders t in one step.
func FormatTime(format string, t time.Time) (string, error) {
	l, err := Compile(format)
	if err != nil {
		return "", err
	}
	return l.Format(t), nil
}
