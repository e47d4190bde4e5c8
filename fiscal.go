package criptofiscal

import "sort"

// BucketKey identifies a fiscal aggregation bucket: one asset disposed of in
// one calendar year.
type BucketKey struct {
	Year  int
	Asset string
}

// Bucket accumulates the fiscal totals of one (year, asset) pair.
type Bucket struct {
	Ops          int
	Transmission Money
	Acquisition  Money
	FeeGiven     Money // fees paid on disposals of this asset
	FeeReceived  Money // fees paid acquiring this asset (COMPRA side)
}

// Gain is the declarable result: transmission minus acquisition and all fees.
func (b *Bucket) Gain() Money {
	return b.Transmission.Sub(b.Acquisition).Sub(b.FeeGiven).Sub(b.FeeReceived)
}

// FiscalReport maps bucket keys to their totals.
type FiscalReport map[BucketKey]*Bucket

// Keys returns the bucket keys sorted by year then asset.
func (r FiscalReport) Keys() []BucketKey {
	keys := make([]BucketKey, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Asset < keys[j].Asset
	})
	return keys
}

// Years returns the distinct years present, ascending.
func (r FiscalReport) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for k := range r {
		if !seen[k.Year] {
			seen[k.Year] = true
			years = append(years, k.Year)
		}
	}
	sort.Ints(years)
	return years
}

func (r FiscalReport) bucket(key BucketKey) *Bucket {
	b, ok := r[key]
	if !ok {
		b = &Bucket{
			Transmission: EUR(0), Acquisition: EUR(0),
			FeeGiven: EUR(0), FeeReceived: EUR(0),
		}
		r[key] = b
	}
	return b
}

// Aggregate folds assessed operations into fiscal buckets. The first pass
// takes declarable rows with a non-empty given asset; the second attributes
// COMPRA fees to the bucket of the asset they acquired. ops and assessments
// run in parallel, as returned by FIFO.Assess.
func Aggregate(ops []Operation, assessments []Assessment) FiscalReport {
	report := make(FiscalReport)
	for i, op := range ops {
		if !op.Declarable || op.Given.Asset == "" {
			continue
		}
		b := report.bucket(BucketKey{Year: op.UTC.Year(), Asset: op.Given.Asset})
		b.Ops++
		b.Transmission = b.Transmission.Add(assessments[i].Transmission)
		if op.Kind == Venta || op.Kind == Permuta {
			b.Acquisition = b.Acquisition.Add(assessments[i].Acquisition)
		}
		if op.Fee.Valued {
			b.FeeGiven = b.FeeGiven.Add(op.Fee.ValueEUR)
		}
	}
	for _, op := range ops {
		if op.Kind != Compra || op.Received.Asset == "" || !op.Fee.Valued {
			continue
		}
		b := report.bucket(BucketKey{Year: op.UTC.Year(), Asset: op.Received.Asset})
		b.FeeReceived = b.FeeReceived.Add(op.Fee.ValueEUR)
	}
	return report
}
