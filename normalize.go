package criptofiscal

import "sort"

// Normalizer turns raw export rows into classified operations.
type Normalizer struct {
	Tracker string        // origin label written in the ledger, e.g. "BINANCE"
	Split   SplitStrategy // defaults to ProportionalSplit
	Fiat    map[string]bool
}

// NewNormalizer returns a Normalizer with the default strategy and fiat set.
func NewNormalizer(tracker string) *Normalizer {
	return &Normalizer{
		Tracker: tracker,
		Split:   ProportionalSplit,
		Fiat:    map[string]bool{"EUR": true, "USD": true},
	}
}

// Normalize groups events by timestamp, splits each group into trade blocks
// and classifies them. The result is in chronological order.
func (n *Normalizer) Normalize(events []RawEvent) []Operation {
	split := n.Split
	if split == nil {
		split = ProportionalSplit
	}
	groups := GroupByTime(events)

	var ops []Operation
	for _, key := range sortedGroupKeys(groups) {
		group := groups[key]
		for _, block := range split(group) {
			ops = append(ops, n.fromBlock(block))
		}
		// Shapes the splitter has no roles for.
		if len(group) == 2 && group[0].Op == OpConvert && group[1].Op == OpConvert {
			ops = append(ops, n.fromConvert(group[0], group[1]))
		}
		if len(group) == 1 && group[0].Op == OpDeposit {
			ops = append(ops, n.fromDeposit(group[0]))
		}
	}
	return ops
}

func (n *Normalizer) fromBlock(b Block) Operation {
	op := Operation{Tracker: n.Tracker}
	var fee *RawEvent
	switch {
	case b.Sold != nil && b.Revenue != nil:
		op.UTC = b.Sold.UTC
		op.Kind = Venta
		op.Given = legOf(b.Sold)
		op.Received = legOf(b.Revenue)
		fee = b.Fee
	case b.Buy != nil && b.Spend != nil:
		op.UTC = b.Buy.UTC
		op.Kind = Compra
		op.Given = legOf(b.Spend)
		op.Received = legOf(b.Buy)
		fee = b.Fee
	}
	if fee != nil {
		op.Fee = legOf(fee)
	}
	op.Kind = reclassify(op.Kind, op.Given.Asset, op.Received.Asset, n.Fiat)
	op.Declarable = op.Kind == Venta || op.Kind == Permuta
	return op
}

// fromConvert handles the 2-row "Binance Convert" shape: the negative row is
// the given leg, the positive one the received leg.
func (n *Normalizer) fromConvert(a, b RawEvent) Operation {
	given, received := a, b
	if given.Change.IsPositive() {
		given, received = b, a
	}
	op := Operation{
		UTC:      given.UTC,
		Tracker:  n.Tracker,
		Given:    legOf(&given),
		Received: legOf(&received),
	}
	if n.Fiat[received.Asset] {
		op.Kind = Venta
	} else {
		op.Kind = Compra
	}
	op.Kind = reclassify(op.Kind, op.Given.Asset, op.Received.Asset, n.Fiat)
	op.Declarable = op.Kind == Venta || op.Kind == Permuta
	return op
}

func (n *Normalizer) fromDeposit(e RawEvent) Operation {
	return Operation{
		UTC:      e.UTC,
		Tracker:  n.Tracker,
		Kind:     Deposit,
		Received: legOf(&e),
	}
}

// legOf builds an unsigned leg from a signed export row.
func legOf(e *RawEvent) Leg {
	return Leg{Asset: e.Asset, Quantity: e.Change.Abs()}
}

// SortOperations orders operations chronologically, keeping the relative
// order of same-instant rows. Required before FIFO assessment.
func SortOperations(ops []Operation) {
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].UTC.Before(ops[j].UTC) })
}
