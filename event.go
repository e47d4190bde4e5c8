package criptofiscal

import "sort"

// Operation tags found in the Binance transaction export. A trade shows up
// as several rows sharing a timestamp, one per leg.
const (
	OpSold    = "Transaction Sold"
	OpRevenue = "Transaction Revenue"
	OpBuy     = "Transaction Buy"
	OpSpend   = "Transaction Spend"
	OpFee     = "Transaction Fee"
	OpConvert = "Binance Convert"
	OpDeposit = "Deposit"
)

// RawEvent is a single row of an exchange export: one signed balance change
// for one asset.
type RawEvent struct {
	UTC     Timestamp
	Account string
	Op      string
	Asset   string
	Change  Quantity
	Remark  string
}

// GroupByTime partitions events by identical timestamp. Every event lands in
// exactly one group. Keys are the canonical timestamp string so the same
// instant written in two export layouts still groups.
func GroupByTime(events []RawEvent) map[string][]RawEvent {
	groups := make(map[string][]RawEvent)
	for _, e := range events {
		key := e.UTC.String()
		groups[key] = append(groups[key], e)
	}
	return groups
}

// sortedGroupKeys returns group keys in chronological order. The canonical
// timestamp string sorts lexicographically in time order.
func sortedGroupKeys(groups map[string][]RawEvent) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
