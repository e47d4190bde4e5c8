package criptofiscal

import (
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

// consumeTolerance is the largest inventory shortfall silently absorbed when
// consuming lots, covering exchange rounding dust.
var consumeTolerance = decimal.New(2, -8)

// Lot is an acquisition of an asset still (partially) held in the book.
type Lot struct {
	Date      Timestamp
	Asset     string
	Remaining Quantity
	UnitCost  Money // EUR per unit at acquisition
}

// Cost is the EUR acquisition cost of the remaining quantity.
func (l Lot) Cost() Money { return l.UnitCost.Mul(l.Remaining) }

// Taking records one slice of a lot consumed by a disposal.
type Taking struct {
	LotDate  Timestamp
	Quantity Quantity
	UnitCost Money
	Cost     Money
}

func (t Taking) String() string {
	return fmt.Sprintf("salida lote %s: %s a %s EUR/u, coste %s",
		t.LotDate.Day(), t.Quantity, t.UnitCost.DecimalString(), t.Cost.DecimalString())
}

// InsufficientInventoryError is fatal: a disposal needs more of an asset
// than the book holds, beyond the rounding tolerance.
type InsufficientInventoryError struct {
	Asset     string
	Requested Quantity
	Short     Quantity
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient %s inventory: requested %s, short %s",
		e.Asset, e.Requested, e.Short)
}

// FIFO is the per-asset book of acquisition lots. Disposals consume the
// oldest lots first.
type FIFO struct {
	queues    map[string][]*Lot
	precision int32
}

// NewFIFO returns an empty book with an explicit division precision for
// unit-cost computations.
func NewFIFO(precision int32) *FIFO {
	return &FIFO{queues: make(map[string][]*Lot), precision: precision}
}

// Add appends a lot at the tail of its asset queue.
func (f *FIFO) Add(l Lot) {
	f.queues[l.Asset] = append(f.queues[l.Asset], &l)
}

// Lots returns a copy of the remaining lots for an asset, oldest first.
func (f *FIFO) Lots(asset string) []Lot {
	queue := f.queues[asset]
	lots := make([]Lot, 0, len(queue))
	for _, l := range queue {
		lots = append(lots, *l)
	}
	return lots
}

// Consume removes qty of asset from the head of the queue, whole lots first
// then a partial one in place. A shortfall within the tolerance is absorbed;
// beyond it an InsufficientInventoryError is returned.
func (f *FIFO) Consume(asset string, qty Quantity) (Money, []Taking, error) {
	remaining := qty
	cost := EUR(0)
	var takings []Taking

	queue := f.queues[asset]
	for remaining.IsPositive() && len(queue) > 0 {
		head := queue[0]
		if !head.Remaining.GreaterThan(remaining) {
			// Whole lot.
			takings = append(takings, Taking{
				LotDate: head.Date, Quantity: head.Remaining,
				UnitCost: head.UnitCost, Cost: head.Cost(),
			})
			cost = cost.Add(head.Cost())
			remaining = remaining.Sub(head.Remaining)
			queue = queue[1:]
			continue
		}
		// Partial take from the head lot.
		taken := head.UnitCost.Mul(remaining)
		takings = append(takings, Taking{
			LotDate: head.Date, Quantity: remaining,
			UnitCost: head.UnitCost, Cost: taken,
		})
		cost = cost.Add(taken)
		head.Remaining = head.Remaining.Sub(remaining)
		remaining = Q(0)
	}
	f.queues[asset] = queue

	if remaining.Decimal().GreaterThan(consumeTolerance) {
		return Money{}, nil, &InsufficientInventoryError{Asset: asset, Requested: qty, Short: remaining}
	}
	return cost, takings, nil
}

// Assessment is the fiscal outcome of one operation: what it cost to acquire
// what was disposed, and what the disposal was worth.
type Assessment struct {
	Acquisition  Money
	Transmission Money
	Takings      []Taking
}

// Trace is the human-readable record of the lots consumed.
func (a Assessment) Trace() string {
	parts := make([]string, 0, len(a.Takings))
	for _, t := range a.Takings {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, "; ")
}

// Assess runs the operations, in chronological order, through the book and
// returns one assessment per operation.
//
// COMPRA rows feed the book even though they are not declarable, otherwise
// later disposals would find no inventory. A PERMUTA is atomic: the given
// asset is consumed, the transmission value is the larger of the two leg
// values, and the received asset enters the book at transmission value.
func (f *FIFO) Assess(ops []Operation) ([]Assessment, error) {
	assessments := make([]Assessment, len(ops))
	for i, op := range ops {
		a := &assessments[i]
		a.Acquisition = EUR(0)
		a.Transmission = EUR(0)
		switch op.Kind {
		case Compra:
			if op.Received.Quantity.IsZero() {
				log.Printf("skipping compra at %s: zero %s received", op.UTC, op.Received.Asset)
				continue
			}
			f.Add(Lot{
				Date: op.UTC, Asset: op.Received.Asset,
				Remaining: op.Received.Quantity,
				UnitCost:  op.Received.ValueEUR.DivRound(op.Received.Quantity, f.precision),
			})
			a.Acquisition = op.Received.ValueEUR

		case Venta:
			cost, takings, err := f.Consume(op.Given.Asset, op.Given.Quantity)
			if err != nil {
				return nil, fmt.Errorf("venta at %s: %w", op.UTC, err)
			}
			a.Acquisition = cost
			a.Transmission = op.Received.ValueEUR
			a.Takings = takings

		case Permuta:
			cost, takings, err := f.Consume(op.Given.Asset, op.Given.Quantity)
			if err != nil {
				return nil, fmt.Errorf("permuta at %s: %w", op.UTC, err)
			}
			if op.Received.Quantity.IsZero() {
				return nil, fmt.Errorf("permuta at %s receives zero %s", op.UTC, op.Received.Asset)
			}
			transmission := op.Given.ValueEUR.Max(op.Received.ValueEUR)
			f.Add(Lot{
				Date: op.UTC, Asset: op.Received.Asset,
				Remaining: op.Received.Quantity,
				UnitCost:  transmission.DivRound(op.Received.Quantity, f.precision),
			})
			a.Acquisition = cost
			a.Transmission = transmission
			a.Takings = takings

		case Rewards, Airdrop, Staking:
			// Income enters the book at its received value so a later
			// disposal finds inventory.
			if !op.Received.Quantity.IsZero() {
				f.Add(Lot{
					Date: op.UTC, Asset: op.Received.Asset,
					Remaining: op.Received.Quantity,
					UnitCost:  op.Received.ValueEUR.DivRound(op.Received.Quantity, f.precision),
				})
			}
		}
	}
	return assessments, nil
}
