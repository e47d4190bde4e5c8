package criptofiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceSource is the oracle the valuation stage depends on: a EUR spot price
// for an asset at minute granularity, and the daily USD to EUR rate.
type PriceSource interface {
	PriceEUR(asset string, at Timestamp) (decimal.Decimal, error)
	UsdEur(day string) (decimal.Decimal, error)
}

// MissingPriceError reports one leg the oracle could not value. The run
// collects all of them and reports them together instead of aborting on the
// first one.
type MissingPriceError struct {
	Asset string
	At    Timestamp
	Err   error
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no EUR price for %s at %s: %v", e.Asset, e.At, e.Err)
}

func (e *MissingPriceError) Unwrap() error { return e.Err }

// Valuer resolves the EUR value of every leg of every operation.
type Valuer struct {
	Source PriceSource
	Fiat   map[string]bool
}

// NewValuer returns a Valuer over the given oracle with the default fiat set.
func NewValuer(source PriceSource) *Valuer {
	return &Valuer{Source: source, Fiat: map[string]bool{"EUR": true, "USD": true}}
}

// Value fills the EUR value of each leg, in place. Resolution order per leg:
// EUR is worth itself, USD converts at the daily rate, anything else is
// looked up at minute granularity. A leg trading against a valued fiat
// counter-leg inherits that value instead of a lookup, and inheriting from
// any valued counter-leg is the last resort after a failed lookup.
// All failures come back as MissingPriceError values.
func (v *Valuer) Value(ops []Operation) []error {
	var missing []error
	for i := range ops {
		op := &ops[i]

		v.valueEur(&op.Given)
		v.valueEur(&op.Received)
		v.valueEur(&op.Fee)

		v.valueLeg(op, &op.Received, &op.Given, &missing)
		v.valueLeg(op, &op.Given, &op.Received, &missing)
		// Fees never inherit: they have no counter-leg of their own.
		v.valueLeg(op, &op.Fee, &Leg{}, &missing)
	}
	return missing
}

// valueEur resolves EUR legs, which are worth themselves.
func (v *Valuer) valueEur(l *Leg) {
	if l.IsEmpty() || l.Valued {
		return
	}
	if l.Asset == "EUR" {
		l.ValueEUR = EUR(l.Quantity.Decimal())
		l.Valued = true
	}
}

// valueLeg resolves one non-fiat or USD leg of an operation.
func (v *Valuer) valueLeg(op *Operation, l, counter *Leg, missing *[]error) {
	if l.IsEmpty() || l.Valued {
		return
	}
	if l.Asset == "USD" {
		rate, err := v.Source.UsdEur(op.UTC.Day())
		if err != nil {
			*missing = append(*missing, &MissingPriceError{Asset: "USD", At: op.UTC, Err: err})
			return
		}
		l.ValueEUR = M(rate, "EUR").Mul(l.Quantity)
		l.Valued = true
		return
	}
	// A leg traded against resolved fiat is worth what the fiat side paid.
	if v.Fiat[counter.Asset] && counter.Valued {
		l.ValueEUR = counter.ValueEUR
		l.Valued = true
		return
	}
	price, err := v.Source.PriceEUR(l.Asset, op.UTC)
	if err != nil {
		if counter.Valued {
			l.ValueEUR = counter.ValueEUR
			l.Valued = true
			return
		}
		*missing = append(*missing, &MissingPriceError{Asset: l.Asset, At: op.UTC, Err: err})
		return
	}
	l.ValueEUR = M(price, "EUR").Mul(l.Quantity)
	l.Valued = true
}
