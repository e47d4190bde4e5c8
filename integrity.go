package criptofiscal

import (
	"sort"

	"github.com/shopspring/decimal"
)

// integrityTolerance bounds the acceptable per-asset drift between raw and
// normalized amounts.
var integrityTolerance = decimal.New(1, -8)

// Mismatch reports an asset whose normalized legs do not conserve the raw
// balance changes, typically legs dropped by the split strategy.
type Mismatch struct {
	Asset      string
	Raw        decimal.Decimal
	Normalized decimal.Decimal
}

func (m Mismatch) Diff() decimal.Decimal { return m.Raw.Sub(m.Normalized) }

// CheckIntegrity verifies that, asset by asset, the signed sum of raw export
// amounts equals the signed sum reconstructed from the normalized legs
// (received minus given minus fee). Mismatches are warnings, not errors: the
// pipeline result is still usable, but some legs were lost on the way.
func CheckIntegrity(events []RawEvent, ops []Operation) []Mismatch {
	raw := make(map[string]decimal.Decimal)
	for _, e := range events {
		raw[e.Asset] = raw[e.Asset].Add(e.Change.Decimal())
	}

	normalized := make(map[string]decimal.Decimal)
	for _, op := range ops {
		if !op.Given.IsEmpty() {
			normalized[op.Given.Asset] = normalized[op.Given.Asset].Sub(op.Given.Quantity.Decimal())
		}
		if !op.Received.IsEmpty() {
			normalized[op.Received.Asset] = normalized[op.Received.Asset].Add(op.Received.Quantity.Decimal())
		}
		if !op.Fee.IsEmpty() {
			normalized[op.Fee.Asset] = normalized[op.Fee.Asset].Sub(op.Fee.Quantity.Decimal())
		}
	}

	assets := make(map[string]bool)
	for a := range raw {
		assets[a] = true
	}
	for a := range normalized {
		assets[a] = true
	}

	var mismatches []Mismatch
	for a := range assets {
		r, n := raw[a], normalized[a]
		if r.Sub(n).Abs().GreaterThan(integrityTolerance) {
			mismatches = append(mismatches, Mismatch{Asset: a, Raw: r, Normalized: n})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].Asset < mismatches[j].Asset })
	return mismatches
}
