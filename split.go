package criptofiscal

import "sort"

// Block is one sub-operation carved out of a same-timestamp group: the legs
// of a single trade.
type Block struct {
	Sold    *RawEvent
	Revenue *RawEvent
	Buy     *RawEvent
	Spend   *RawEvent
	Fee     *RawEvent
}

// SplitStrategy carves a same-timestamp group of export rows into trade
// blocks. It is a function value on Normalizer so a stricter pairing can be
// swapped in.
type SplitStrategy func(group []RawEvent) []Block

// ProportionalSplit pairs legs by magnitude rank: each role bucket is sorted
// by descending absolute amount and the i-th largest legs of each role form
// the i-th block. The number of blocks is the smallest role bucket, so
// leftover legs are dropped; the integrity check makes such drops visible.
func ProportionalSplit(group []RawEvent) []Block {
	var solds, revenues, buys, spends, fees []*RawEvent
	for i := range group {
		e := &group[i]
		switch e.Op {
		case OpSold:
			solds = append(solds, e)
		case OpRevenue:
			revenues = append(revenues, e)
		case OpBuy:
			buys = append(buys, e)
		case OpSpend:
			spends = append(spends, e)
		case OpFee:
			fees = append(fees, e)
		}
	}
	for _, bucket := range [][]*RawEvent{solds, revenues, buys, spends, fees} {
		sortByMagnitude(bucket)
	}

	var blocks []Block
	if n := min(len(solds), len(revenues), len(fees)); n > 0 {
		for i := 0; i < n; i++ {
			blocks = append(blocks, Block{Sold: solds[i], Revenue: revenues[i], Fee: fees[i]})
		}
	} else if n := min(len(buys), len(spends), len(fees)); n > 0 {
		for i := 0; i < n; i++ {
			blocks = append(blocks, Block{Buy: buys[i], Spend: spends[i], Fee: fees[i]})
		}
	}
	return blocks
}

func sortByMagnitude(events []*RawEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Change.Abs().GreaterThan(events[j].Change.Abs())
	})
}
