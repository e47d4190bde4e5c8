package criptofiscal

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"binance", "2023-05-01 10:30:00 UTC", "2023-05-01 10:30:00 UTC"},
		{"iso_zulu", "2023-05-01T10:30:00Z", "2023-05-01 10:30:00 UTC"},
		{"iso_naive", "2023-05-01T10:30:00", "2023-05-01 10:30:00 UTC"},
		{"space_naive", "2023-05-01 10:30:00", "2023-05-01 10:30:00 UTC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
			}
			if got := ts.String(); got != tc.want {
				t.Errorf("ParseTimestamp(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	if _, err := ParseTimestamp("01/05/2023 10:30"); err == nil {
		t.Error("expected an error for an unsupported layout")
	}
}

func TestTimestampGranularities(t *testing.T) {
	ts := MustParseTimestamp("2023-05-01 10:30:45 UTC")
	if got := ts.Day(); got != "2023-05-01" {
		t.Errorf("Day() = %q", got)
	}
	if got := ts.Minute(); got != "2023-05-01 10:30" {
		t.Errorf("Minute() = %q", got)
	}
	if got := ts.Year(); got != 2023 {
		t.Errorf("Year() = %d", got)
	}
	// The kline interval starts at the truncated minute.
	if got := ts.UnixMilli() % 60_000; got != 0 {
		t.Errorf("UnixMilli() not aligned to the minute, rem %d", got)
	}
}

func TestGroupByTimeMergesLayouts(t *testing.T) {
	events := []RawEvent{
		ev("2023-05-01 10:30:00 UTC", OpSold, "BTC", "-1"),
		ev("2023-05-01T10:30:00Z", OpRevenue, "EUR", "25000"),
		ev("2023-05-01 10:31:00 UTC", OpDeposit, "EUR", "100"),
	}
	groups := GroupByTime(events)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if got := len(groups["2023-05-01 10:30:00 UTC"]); got != 2 {
		t.Errorf("same instant in two layouts split into %d rows", got)
	}
}
