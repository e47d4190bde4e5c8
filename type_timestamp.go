package criptofiscal

import (
	"fmt"
	"time"
)

// timestampFormats are the layouts found in the wild across exchange
// exports. The first one is the canonical output form.
var timestampFormats = []string{
	"2006-01-02 15:04:05 UTC",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a point in time as written in an exchange export, always UTC.
type Timestamp struct {
	t time.Time
}

// ParseTimestamp reads a timestamp in any of the supported export layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp format %q", s)
}

// MustParseTimestamp is like ParseTimestamp but panics on error.
func MustParseTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// String returns the canonical export form.
func (ts Timestamp) String() string { return ts.t.Format("2006-01-02 15:04:05 UTC") }

// Day returns the calendar day, the granularity of fiat exchange rates.
func (ts Timestamp) Day() string { return ts.t.Format("2006-01-02") }

// Minute returns the truncated minute, the granularity of crypto spot prices.
func (ts Timestamp) Minute() string { return ts.t.Format("2006-01-02 15:04") }

func (ts Timestamp) Year() int               { return ts.t.Year() }
func (ts Timestamp) Before(o Timestamp) bool { return ts.t.Before(o.t) }
func (ts Timestamp) After(o Timestamp) bool  { return ts.t.After(o.t) }
func (ts Timestamp) Equal(o Timestamp) bool  { return ts.t.Equal(o.t) }
func (ts Timestamp) IsZero() bool            { return ts.t.IsZero() }

// UnixMilli returns the epoch milliseconds of the truncated minute, the
// start of the kline interval covering this timestamp.
func (ts Timestamp) UnixMilli() int64 { return ts.t.Truncate(time.Minute).UnixMilli() }
