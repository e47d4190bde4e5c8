package criptofiscal

import (
	"errors"
	"strings"
	"testing"
)

func TestConsumeWholeAndPartialLots(t *testing.T) {
	f := NewFIFO(18)
	f.Add(Lot{Date: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Asset: "BTC",
		Remaining: mustQ("1"), UnitCost: EUR(20000)})
	f.Add(Lot{Date: MustParseTimestamp("2023-02-01 00:00:00 UTC"), Asset: "BTC",
		Remaining: mustQ("1"), UnitCost: EUR(24000)})

	cost, takings, err := f.Consume("BTC", mustQ("1.5"))
	if err != nil {
		t.Fatal(err)
	}
	// Whole first lot plus half the second: 20000 + 12000.
	if got := cost.DecimalString(); got != "32000" {
		t.Errorf("cost %s, want 32000", got)
	}
	if len(takings) != 2 {
		t.Fatalf("got %d takings, want 2", len(takings))
	}
	if got := takings[1].Quantity.String(); got != "0.5" {
		t.Errorf("partial take %s, want 0.5", got)
	}

	lots := f.Lots("BTC")
	if len(lots) != 1 {
		t.Fatalf("got %d remaining lots, want 1", len(lots))
	}
	if got := lots[0].Remaining.String(); got != "0.5" {
		t.Errorf("remaining %s, want 0.5", got)
	}
}

func TestConsumeToleranceAndShortfall(t *testing.T) {
	t.Run("dust_is_absorbed", func(t *testing.T) {
		f := NewFIFO(18)
		f.Add(Lot{Date: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Asset: "BTC",
			Remaining: mustQ("1"), UnitCost: EUR(20000)})
		if _, _, err := f.Consume("BTC", mustQ("1.00000001")); err != nil {
			t.Errorf("shortfall within tolerance should be absorbed: %v", err)
		}
	})

	t.Run("beyond_tolerance_is_fatal", func(t *testing.T) {
		f := NewFIFO(18)
		f.Add(Lot{Date: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Asset: "BTC",
			Remaining: mustQ("1"), UnitCost: EUR(20000)})
		_, _, err := f.Consume("BTC", mustQ("1.1"))
		var inv *InsufficientInventoryError
		if !errors.As(err, &inv) {
			t.Fatalf("got %v, want InsufficientInventoryError", err)
		}
		if got := inv.Short.String(); got != "0.1" {
			t.Errorf("short %s, want 0.1", got)
		}
	})

	t.Run("unknown_asset_is_fatal", func(t *testing.T) {
		f := NewFIFO(18)
		var inv *InsufficientInventoryError
		if _, _, err := f.Consume("DOGE", mustQ("1")); !errors.As(err, &inv) {
			t.Fatalf("got %v, want InsufficientInventoryError", err)
		}
	})
}

func TestAssessCompraVentaChain(t *testing.T) {
	ops := []Operation{
		{UTC: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Kind: Compra,
			Given:    valued("EUR", "20000", "20000"),
			Received: valued("BTC", "1", "20000")},
		{UTC: MustParseTimestamp("2023-06-01 00:00:00 UTC"), Kind: Venta, Declarable: true,
			Given:    valued("BTC", "0.5", "15000"),
			Received: valued("EUR", "15000", "15000")},
	}
	f := NewFIFO(18)
	assessments, err := f.Assess(ops)
	if err != nil {
		t.Fatal(err)
	}
	if got := assessments[0].Acquisition.DecimalString(); got != "20000" {
		t.Errorf("compra acquisition %s, want 20000", got)
	}
	if !assessments[0].Transmission.IsZero() {
		t.Errorf("compra transmission %s, want 0", assessments[0].Transmission.DecimalString())
	}
	if got := assessments[1].Acquisition.DecimalString(); got != "10000" {
		t.Errorf("venta acquisition %s, want 10000 (half the lot)", got)
	}
	if got := assessments[1].Transmission.DecimalString(); got != "15000" {
		t.Errorf("venta transmission %s, want 15000", got)
	}
	if !strings.Contains(assessments[1].Trace(), "salida lote 2023-01-01") {
		t.Errorf("missing lot trace: %q", assessments[1].Trace())
	}
}

func TestAssessPermutaIsAtomic(t *testing.T) {
	ops := []Operation{
		{UTC: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Kind: Compra,
			Given:    valued("EUR", "2000", "2000"),
			Received: valued("ETH", "1", "2000")},
		// Swap the ETH for SOL; the received side is worth more.
		{UTC: MustParseTimestamp("2023-06-01 00:00:00 UTC"), Kind: Permuta, Declarable: true,
			Given:    valued("ETH", "1", "2400"),
			Received: valued("SOL", "100", "2500")},
		// Sell the SOL; its cost basis must come from the permuta.
		{UTC: MustParseTimestamp("2023-07-01 00:00:00 UTC"), Kind: Venta, Declarable: true,
			Given:    valued("SOL", "100", "2600"),
			Received: valued("EUR", "2600", "2600")},
	}
	assessments, err := NewFIFO(18).Assess(ops)
	if err != nil {
		t.Fatal(err)
	}
	permuta := assessments[1]
	if got := permuta.Acquisition.DecimalString(); got != "2000" {
		t.Errorf("permuta acquisition %s, want 2000", got)
	}
	// max(given 2400, received 2500)
	if got := permuta.Transmission.DecimalString(); got != "2500" {
		t.Errorf("permuta transmission %s, want 2500", got)
	}
	// The SOL lot entered at 2500/100 = 25 per unit.
	if got := assessments[2].Acquisition.DecimalString(); got != "2500" {
		t.Errorf("venta acquisition %s, want 2500", got)
	}
}

func TestAssessSkipsZeroQuantityCompra(t *testing.T) {
	f := NewFIFO(18)
	ops := []Operation{
		{UTC: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Kind: Compra,
			Given:    valued("EUR", "0", "0"),
			Received: valued("BTC", "0", "0")},
	}
	assessments, err := f.Assess(ops)
	if err != nil {
		t.Fatalf("a degenerate compra row should be skipped, not fatal: %v", err)
	}
	if !assessments[0].Acquisition.IsZero() {
		t.Errorf("acquisition %s, want 0", assessments[0].Acquisition.DecimalString())
	}
	if lots := f.Lots("BTC"); len(lots) != 0 {
		t.Errorf("got %d lots, want none from a zero-quantity row", len(lots))
	}
}

func TestAssessInsufficientInventoryIsFatal(t *testing.T) {
	ops := []Operation{
		{UTC: MustParseTimestamp("2023-06-01 00:00:00 UTC"), Kind: Venta, Declarable: true,
			Given:    valued("BTC", "1", "25000"),
			Received: valued("EUR", "25000", "25000")},
	}
	if _, err := NewFIFO(18).Assess(ops); err == nil {
		t.Fatal("expected an error selling from an empty book")
	}
}

func TestAssessIncomeFeedsTheBook(t *testing.T) {
	ops := []Operation{
		{UTC: MustParseTimestamp("2023-01-01 00:00:00 UTC"), Kind: Staking, Declarable: true,
			Received: valued("ETH", "0.1", "200")},
		{UTC: MustParseTimestamp("2023-06-01 00:00:00 UTC"), Kind: Venta, Declarable: true,
			Given:    valued("ETH", "0.1", "250"),
			Received: valued("EUR", "250", "250")},
	}
	assessments, err := NewFIFO(18).Assess(ops)
	if err != nil {
		t.Fatal(err)
	}
	if got := assessments[1].Acquisition.DecimalString(); got != "200" {
		t.Errorf("venta acquisition %s, want the staking value 200", got)
	}
}
