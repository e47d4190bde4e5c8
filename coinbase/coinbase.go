// Package coinbase reads the Coinbase account statement CSV export.
//
// Unlike the Binance export, Coinbase rows are already one operation each,
// so parsing yields classified operations directly.
package coinbase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/criptofiscal"
)

// Tracker is the origin label written in the canonical ledger.
const Tracker = "COINBASE"

// Parse reads a Coinbase statement into classified operations. Unreadable
// amounts become warnings with a zero value.
func Parse(r io.Reader) ([]criptofiscal.Operation, []criptofiscal.Warning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("coinbase: cannot read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range []string{"Timestamp", "Transaction Type", "Asset", "Quantity Transacted"} {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("coinbase: missing column %q", name)
		}
	}
	// Older statements name the price columns without the "Spot" prefix.
	for name, alt := range map[string]string{
		"Spot Price Currency":       "Price Currency",
		"Spot Price at Transaction": "Price at Transaction",
	} {
		if _, ok := col[name]; !ok {
			if i, ok := col[alt]; ok {
				col[name] = i
			}
		}
	}

	p := parser{col: col}
	var ops []criptofiscal.Operation
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("coinbase line %d: %w", line+1, err)
		}
		line++

		op, ok, err := p.operation(record, line)
		if err != nil {
			return nil, nil, fmt.Errorf("coinbase line %d: %w", line, err)
		}
		if ok {
			ops = append(ops, op)
		}
	}
	return ops, p.warnings, nil
}

type parser struct {
	col      map[string]int
	warnings []criptofiscal.Warning
}

func (p *parser) field(record []string, name string) string {
	i, ok := p.col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// amount reads a statement number, tolerating currency signs and thousands
// separators. Unreadable values warn and come back zero.
func (p *parser) amount(record []string, name string, line int) criptofiscal.Quantity {
	raw := p.field(record, name)
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return criptofiscal.Q(0)
	}
	q, err := criptofiscal.ParseQuantity(cleaned)
	if err != nil {
		p.warnings = append(p.warnings, criptofiscal.Warning{Line: line, Field: name, Value: raw})
		return criptofiscal.Q(0)
	}
	return q
}

func (p *parser) operation(record []string, line int) (criptofiscal.Operation, bool, error) {
	utc, err := criptofiscal.ParseTimestamp(p.field(record, "Timestamp"))
	if err != nil {
		return criptofiscal.Operation{}, false, err
	}

	asset := p.field(record, "Asset")
	qty := p.amount(record, "Quantity Transacted", line).Abs()
	spot := p.amount(record, "Spot Price at Transaction", line)
	subtotal := p.amount(record, "Subtotal", line).Abs()
	fees := p.amount(record, "Fees and/or Spread", line).Abs()
	currency := p.field(record, "Spot Price Currency")
	if currency == "" {
		currency = "EUR"
	}
	// Some statements leave the subtotal blank; the spot price recovers it.
	if subtotal.IsZero() && !spot.IsZero() {
		subtotal = qty.Mul(spot.Abs())
	}

	op := criptofiscal.Operation{UTC: utc, Tracker: Tracker}
	cryptoLeg := criptofiscal.Leg{Asset: asset, Quantity: qty}
	fiatLeg := criptofiscal.Leg{Asset: currency, Quantity: subtotal}
	if currency == "EUR" {
		cryptoLeg.ValueEUR = criptofiscal.EUR(subtotal.Decimal())
		cryptoLeg.Valued = true
		fiatLeg.ValueEUR = criptofiscal.EUR(subtotal.Decimal())
		fiatLeg.Valued = true
	}

	switch kind := p.field(record, "Transaction Type"); kind {
	case "Advanced Trade Buy", "Pro Withdrawal":
		op.Kind = criptofiscal.Compra
		op.Given = fiatLeg
		op.Received = cryptoLeg
	case "Advanced Trade Sell":
		op.Kind = criptofiscal.Venta
		op.Given = cryptoLeg
		op.Received = fiatLeg
		op.Declarable = true
	case "Reward Income":
		op.Kind = criptofiscal.Rewards
		op.Received = cryptoLeg
		op.Declarable = true
	case "Receive":
		op.Kind = criptofiscal.Airdrop
		op.Received = cryptoLeg
		op.Declarable = true
	case "Staking Income":
		op.Kind = criptofiscal.Staking
		op.Received = cryptoLeg
		op.Declarable = true
	case "Send":
		op.Kind = criptofiscal.Send
		op.Given = cryptoLeg
	default:
		// Statement rows with no fiscal meaning (e.g. "Exchange Deposit").
		return criptofiscal.Operation{}, false, nil
	}

	if !fees.IsZero() {
		op.Fee = criptofiscal.Leg{Asset: currency, Quantity: fees}
		if currency == "EUR" {
			op.Fee.ValueEUR = criptofiscal.EUR(fees.Decimal())
			op.Fee.Valued = true
		}
	}
	return op, true, nil
}
