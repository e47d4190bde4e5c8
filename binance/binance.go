// Package binance reads the Binance "Transaction History" CSV export.
package binance

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/criptofiscal"
)

// Tracker is the origin label written in the canonical ledger.
const Tracker = "BINANCE"

// Parse reads a Binance transaction export into raw events. Unreadable
// amounts become warnings with a zero value; anything structurally broken
// (missing columns, bad timestamps) is an error.
func Parse(r io.Reader) ([]criptofiscal.RawEvent, []criptofiscal.Warning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // some exports carry a trailing remark column

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("binance: cannot read header: %w", err)
	}
	required := []string{"UTC_Time", "Account", "Operation", "Coin", "Change"}
	col, err := index(header, required...)
	if err != nil {
		return nil, nil, fmt.Errorf("binance: %w", err)
	}
	minFields := 0
	for _, name := range required {
		if col[name] >= minFields {
			minFields = col[name] + 1
		}
	}
	remark := optional(header, "Remark")

	var events []criptofiscal.RawEvent
	var warnings []criptofiscal.Warning
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("binance line %d: %w", line+1, err)
		}
		line++

		if len(record) < minFields {
			return nil, nil, fmt.Errorf("binance line %d: %d fields, want at least %d", line, len(record), minFields)
		}
		e := criptofiscal.RawEvent{
			Account: record[col["Account"]],
			Op:      record[col["Operation"]],
			Asset:   record[col["Coin"]],
		}
		if e.UTC, err = criptofiscal.ParseTimestamp(record[col["UTC_Time"]]); err != nil {
			return nil, nil, fmt.Errorf("binance line %d: %w", line, err)
		}
		change := strings.TrimSpace(record[col["Change"]])
		if e.Change, err = criptofiscal.ParseQuantity(change); err != nil {
			warnings = append(warnings, criptofiscal.Warning{Line: line, Field: "Change", Value: change})
			e.Change = criptofiscal.Q(0)
		}
		if remark >= 0 && remark < len(record) {
			e.Remark = record[remark]
		}
		events = append(events, e)
	}
	return events, warnings, nil
}

// index maps required column names to their position.
func index(header []string, names ...string) (map[string]int, error) {
	col := make(map[string]int, len(names))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range names {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return col, nil
}

func optional(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
