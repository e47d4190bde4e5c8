package criptofiscal

// test helpers to build events and operations from constants.

// mustQ builds a quantity from its string form, panicking on typos in tests.
func mustQ(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

// ev builds a raw export row at a given instant.
func ev(utc, op, asset, change string) RawEvent {
	return RawEvent{
		UTC:    MustParseTimestamp(utc),
		Op:     op,
		Asset:  asset,
		Change: mustQ(change),
	}
}

// valued builds a leg already resolved in EUR.
func valued(asset, qty, eur string) Leg {
	q := mustQ(qty)
	v, err := ParseMoney(eur)
	if err != nil {
		panic(err)
	}
	return Leg{Asset: asset, Quantity: q, ValueEUR: v, Valued: true}
}
