package criptofiscal

// Kind classifies a normalized operation for fiscal purposes.
type Kind string

const (
	Compra  Kind = "COMPRA"
	Venta   Kind = "VENTA"
	Permuta Kind = "PERMUTA"
	Deposit Kind = "DEPOSIT"
	Rewards Kind = "REWARDS"
	Airdrop Kind = "AIRDROP"
	Staking Kind = "STAKING"
	Send    Kind = "SEND"
)

// Leg is one side of an operation: an unsigned amount of one asset, and its
// EUR value once the valuation stage has resolved it.
type Leg struct {
	Asset    string
	Quantity Quantity
	ValueEUR Money
	Valued   bool
}

// IsEmpty reports whether the leg is absent from the operation.
func (l Leg) IsEmpty() bool { return l.Asset == "" && l.Quantity.IsZero() }

// Operation is a normalized ledger row: what was given, received and paid in
// fees at one instant, with its fiscal classification.
type Operation struct {
	UTC        Timestamp
	Tracker    string
	Kind       Kind
	Given      Leg
	Received   Leg
	Fee        Leg
	Declarable bool
}

// DeclarableMark is the S/N column value of the canonical ledger.
func (o Operation) DeclarableMark() string {
	if o.Declarable {
		return "S"
	}
	return "N"
}

// reclassify turns a trade into a PERMUTA when it is a crypto-to-crypto
// exchange: a COMPRA paid with a non-fiat asset, or a VENTA settled into a
// non-fiat asset. The given leg of a VENTA is deliberately not tested.
func reclassify(kind Kind, given, received string, fiat map[string]bool) Kind {
	switch kind {
	case Compra:
		if given != "" && !fiat[given] {
			return Permuta
		}
	case Venta:
		if received != "" && !fiat[received] {
			return Permuta
		}
	}
	return kind
}
