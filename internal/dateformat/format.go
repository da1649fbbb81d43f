// Package dateformat renders timestamp-like values as localized date and
// date-time strings. Empty or invalid input renders as Placeholder.
package dateformat

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

const Placeholder = "-"

type Formatter struct {
	idx int
	loc *time.Location
}

// New returns a formatter for the best supported match of locale, rendering
// instants in loc (UTC when nil). Unparsable locales fall back to ko-KR.
func New(locale string, loc *time.Location) *Formatter {
	idx := 0
	if tag, err := language.Parse(locale); err == nil {
		idx = match(tag)
	} else if locale != "" {
		log.Debug().Str("locale", locale).Err(err).Msg("unknown locale, using default")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{idx: idx, loc: loc}
}

// Default formats in ko-KR using the process local time zone.
var Default = New("ko-KR", time.Local)

// Locale reports the BCP 47 tag the formatter resolved to.
func (f *Formatter) Locale() string { return supported[f.idx].tag.String() }

func (f *Formatter) Location() *time.Location { return f.loc }

// WithLocation returns a copy of f rendering in loc.
func (f *Formatter) WithLocation(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{idx: f.idx, loc: loc}
}

// Date renders year, two-digit month and two-digit day.
func (f *Formatter) Date(v any) string {
	t, ok := toTime(v, f.loc)
	if !ok {
		return Placeholder
	}
	return supported[f.idx].layout.date(t.In(f.loc))
}

// DateTime renders Date plus two-digit hour and minute.
func (f *Formatter) DateTime(v any) string {
	t, ok := toTime(v, f.loc)
	if !ok {
		return Placeholder
	}
	return supported[f.idx].layout.dateTime(t.In(f.loc))
}

func FormatDate(v any) string { return Default.Date(v) }

func FormatDateTime(v any) string { return Default.DateTime(v) }
