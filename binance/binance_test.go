package binance

import (
	"strings"
	"testing"
)

const sample = `User_ID,UTC_Time,Account,Operation,Coin,Change,Remark
123456,2023-05-01 10:30:00 UTC,Spot,Transaction Sold,BTC,-0.5,
123456,2023-05-01 10:30:00 UTC,Spot,Transaction Revenue,EUR,12500.00,
123456,2023-05-01 10:30:00 UTC,Spot,Transaction Fee,EUR,-12.50,
123456,2023-05-02 08:00:00 UTC,Spot,Deposit,EUR,1000,bank transfer
`

func TestParse(t *testing.T) {
	events, warnings, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	e := events[0]
	if e.Op != "Transaction Sold" || e.Asset != "BTC" {
		t.Errorf("unexpected first event %+v", e)
	}
	if got := e.Change.String(); got != "-0.5" {
		t.Errorf("change %s, want -0.5", got)
	}
	if got := e.UTC.String(); got != "2023-05-01 10:30:00 UTC" {
		t.Errorf("time %s", got)
	}
	if events[3].Remark != "bank transfer" {
		t.Errorf("remark %q", events[3].Remark)
	}
}

func TestParseWarnsOnBadChange(t *testing.T) {
	in := `User_ID,UTC_Time,Account,Operation,Coin,Change,Remark
123456,2023-05-01 10:30:00 UTC,Spot,Deposit,EUR,not-a-number,
`
	events, warnings, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Field != "Change" || warnings[0].Line != 2 {
		t.Errorf("unexpected warning %+v", warnings[0])
	}
	if !events[0].Change.IsZero() {
		t.Errorf("bad change not zeroed: %s", events[0].Change)
	}
}

func TestParseRejectsMissingColumns(t *testing.T) {
	in := "User_ID,Time,Coin\n1,2,3\n"
	if _, _, err := Parse(strings.NewReader(in)); err == nil {
		t.Fatal("expected an error for a foreign header")
	}
}

func TestParseRejectsBadTimestamp(t *testing.T) {
	in := `User_ID,UTC_Time,Account,Operation,Coin,Change,Remark
123456,01/05/2023,Spot,Deposit,EUR,1000,
`
	if _, _, err := Parse(strings.NewReader(in)); err == nil {
		t.Fatal("expected an error for an unreadable timestamp")
	}
}
