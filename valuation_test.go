package criptofiscal

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// fakeSource serves canned prices: spot keyed by "{ASSET}@{minute}", fx by day.
type fakeSource struct {
	spot map[string]string
	fx   map[string]string
}

func (s *fakeSource) PriceEUR(asset string, at Timestamp) (decimal.Decimal, error) {
	raw, ok := s.spot[asset+"@"+at.Minute()]
	if !ok {
		return decimal.Zero, errors.New("no candle")
	}
	return decimal.NewFromString(raw)
}

func (s *fakeSource) UsdEur(day string) (decimal.Decimal, error) {
	raw, ok := s.fx[day]
	if !ok {
		return decimal.Zero, errors.New("no rate")
	}
	return decimal.NewFromString(raw)
}

func TestValuerResolution(t *testing.T) {
	at := "2023-05-01 10:30:00 UTC"
	source := &fakeSource{
		spot: map[string]string{
			"BTC@2023-05-01 10:30": "25000",
			"ETH@2023-05-01 10:30": "1800",
		},
		fx: map[string]string{"2023-05-01": "0.9"},
	}
	v := NewValuer(source)

	tests := []struct {
		name         string
		op           Operation
		wantGiven    string
		wantReceived string
	}{
		{
			name: "eur_is_worth_itself",
			op: Operation{UTC: MustParseTimestamp(at), Kind: Compra,
				Given:    Leg{Asset: "EUR", Quantity: mustQ("1000")},
				Received: Leg{Asset: "BTC", Quantity: mustQ("0.04")},
			},
			wantGiven:    "1000",
			wantReceived: "1000", // inherited from the fiat counter-leg
		},
		{
			name: "usd_daily_rate",
			op: Operation{UTC: MustParseTimestamp(at), Kind: Venta,
				Given:    Leg{Asset: "BTC", Quantity: mustQ("0.1")},
				Received: Leg{Asset: "USD", Quantity: mustQ("2800")},
			},
			wantGiven:    "2520", // inherits the valued USD counter-leg
			wantReceived: "2520", // 2800 * 0.9
		},
		{
			name: "crypto_to_crypto_direct_lookup",
			op: Operation{UTC: MustParseTimestamp(at), Kind: Permuta,
				Given:    Leg{Asset: "BTC", Quantity: mustQ("0.1")},
				Received: Leg{Asset: "ETH", Quantity: mustQ("1.4")},
			},
			wantGiven:    "2500", // 0.1 * 25000
			wantReceived: "2520", // 1.4 * 1800
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ops := []Operation{tc.op}
			if missing := v.Value(ops); len(missing) != 0 {
				t.Fatalf("unexpected missing prices: %v", missing)
			}
			op := ops[0]
			if !op.Given.Valued || op.Given.ValueEUR.DecimalString() != tc.wantGiven {
				t.Errorf("given value %s (valued=%v), want %s",
					op.Given.ValueEUR.DecimalString(), op.Given.Valued, tc.wantGiven)
			}
			if !op.Received.Valued || op.Received.ValueEUR.DecimalString() != tc.wantReceived {
				t.Errorf("received value %s (valued=%v), want %s",
					op.Received.ValueEUR.DecimalString(), op.Received.Valued, tc.wantReceived)
			}
		})
	}
}

func TestValuerCounterLegLastResort(t *testing.T) {
	// XYZ has no candle; the valued counter-leg is the fallback.
	source := &fakeSource{
		spot: map[string]string{"ETH@2023-05-01 10:30": "1800"},
	}
	ops := []Operation{{
		UTC: MustParseTimestamp("2023-05-01 10:30:00 UTC"), Kind: Permuta,
		Given:    Leg{Asset: "XYZ", Quantity: mustQ("100")},
		Received: Leg{Asset: "ETH", Quantity: mustQ("1")},
	}}
	if missing := NewValuer(source).Value(ops); len(missing) != 0 {
		t.Fatalf("unexpected missing prices: %v", missing)
	}
	if got := ops[0].Given.ValueEUR.DecimalString(); got != "1800" {
		t.Errorf("given value %s, want the counter-leg's 1800", got)
	}
}

func TestValuerCollectsAllMissingPrices(t *testing.T) {
	source := &fakeSource{}
	ops := []Operation{
		{UTC: MustParseTimestamp("2023-05-01 10:30:00 UTC"), Kind: Permuta,
			Given:    Leg{Asset: "XYZ", Quantity: mustQ("1")},
			Received: Leg{Asset: "ABC", Quantity: mustQ("2")}},
		{UTC: MustParseTimestamp("2023-05-02 10:30:00 UTC"), Kind: Venta,
			Given:    Leg{Asset: "DEF", Quantity: mustQ("1")},
			Received: Leg{Asset: "USD", Quantity: mustQ("100")}},
	}
	missing := NewValuer(source).Value(ops)
	if len(missing) != 4 {
		t.Fatalf("got %d missing prices, want 4: %v", len(missing), missing)
	}
	var mp *MissingPriceError
	if !errors.As(missing[0], &mp) {
		t.Fatalf("missing price is a %T, want *MissingPriceError", missing[0])
	}
}
