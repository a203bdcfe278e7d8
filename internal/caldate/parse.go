package caldate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrBlank is returned by Parse for empty or whitespace-only input.
	ErrBlank = errors.New("blank date")

	// ErrUnparseable is matched by every *ParseError.
	ErrUnparseable = errors.New("unparseable date")
)

// ParseError reports a value that matched none of the recognized formats.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable date %q", e.Input)
}

// Is makes errors.Is(err, ErrUnparseable) true for any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrUnparseable
}

// Format is one recognized date representation.
type Format struct {
	Name   string
	Layout string

	// timestampPrefix parses only the text before the 'T' separator.
	timestampPrefix bool
}

// Formats lists the recognized formats in priority order. See the package
// documentation for the disambiguation policy.
var Formats = []Format{
	{Name: "iso", Layout: "2006-1-2"},
	{Name: "iso-datetime", Layout: "2006-1-2 15:04:05"},
	{Name: "iso-timestamp", Layout: "2006-1-2", timestampPrefix: true},
	{Name: "dmy-slash", Layout: "2/1/2006"},
	{Name: "mdy-slash", Layout: "1/2/2006"},
	{Name: "dmy-dash", Layout: "2-1-2006"},
	{Name: "ymd-slash", Layout: "2006/1/2"},
}

// Parse converts s into a Date using the first matching entry of Formats.
// It returns the matched Format alongside the date.
//
// Blank input yields ErrBlank. Input that matches nothing yields a
// *ParseError.
func Parse(s string) (Date, Format, error) {
	folded := fold(s)
	if folded == "" {
		return Date{}, Format{}, ErrBlank
	}

	for _, f := range Formats {
		value := folded
		if f.timestampPrefix {
			i := strings.IndexByte(value, 'T')
			if i < 0 {
				continue
			}
			value = value[:i]
		}
		t, err := time.Parse(f.Layout, value)
		if err != nil {
			continue
		}
		return Of(t), f, nil
	}

	return Date{}, Format{}, &ParseError{Input: s}
}

// Canonicalize returns the canonical form of s.
func Canonicalize(s string) (string, error) {
	d, _, err := Parse(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// fold trims s and applies NFKC so compatibility characters (full-width
// digits, ideographic spaces) compare as ASCII.
func fold(s string) string {
	return strings.TrimSpace(norm.NFKC.String(strings.TrimSpace(s)))
}
