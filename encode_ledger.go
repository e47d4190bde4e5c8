package criptofiscal

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ledgerHeader is the fixed 15-column schema of the canonical ledger.
var ledgerHeader = []string{
	"UTC_Time", "Tracker", "Tipo",
	"Emitido_Moneda", "Emitido_Cantidad", "Emitido_Valor_EUR",
	"Recibido_Moneda", "Recibido_Cantidad", "Recibido_Valor_EUR",
	"Comision_Moneda", "Comision_Cantidad", "Comision_Valor_EUR",
	"Declarable", "Valor_Adquisicion", "Valor_Transmision",
}

// EncodeLedger writes the canonical CSV ledger. ops and assessments run in
// parallel; amounts are written unsigned and absent legs as empty cells.
func EncodeLedger(w io.Writer, ops []Operation, assessments []Assessment) error {
	if len(ops) != len(assessments) {
		return fmt.Errorf("ledger encode: %d operations but %d assessments", len(ops), len(assessments))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}
	for i, op := range ops {
		record := []string{
			op.UTC.String(),
			op.Tracker,
			string(op.Kind),
		}
		record = append(record, legFields(op.Given)...)
		record = append(record, legFields(op.Received)...)
		record = append(record, legFields(op.Fee)...)
		record = append(record,
			op.DeclarableMark(),
			assessments[i].Acquisition.DecimalString(),
			assessments[i].Transmission.DecimalString(),
		)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func legFields(l Leg) []string {
	if l.IsEmpty() {
		return []string{"", "", ""}
	}
	value := ""
	if l.Valued {
		value = l.ValueEUR.DecimalString()
	}
	return []string{l.Asset, l.Quantity.Abs().String(), value}
}

// DecodeLedger reads a canonical CSV ledger back into operations and their
// assessments, so downstream commands work from the persisted file.
func DecodeLedger(r io.Reader) ([]Operation, []Assessment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ledgerHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("ledger decode: cannot read header: %w", err)
	}
	for i, name := range ledgerHeader {
		if header[i] != name {
			return nil, nil, fmt.Errorf("ledger decode: column %d is %q, want %q", i, header[i], name)
		}
	}

	var ops []Operation
	var assessments []Assessment
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d: %w", line, err)
		}
		line++

		op := Operation{Tracker: record[1], Kind: Kind(record[2]), Declarable: record[12] == "S"}
		if op.UTC, err = ParseTimestamp(record[0]); err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d: %w", line, err)
		}
		if op.Given, err = parseLeg(record[3:6]); err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d emitido: %w", line, err)
		}
		if op.Received, err = parseLeg(record[6:9]); err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d recibido: %w", line, err)
		}
		if op.Fee, err = parseLeg(record[9:12]); err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d comision: %w", line, err)
		}

		var a Assessment
		if a.Acquisition, err = ParseMoney(orZero(record[13])); err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d adquisicion: %w", line, err)
		}
		if a.Transmission, err = ParseMoney(orZero(record[14])); err != nil {
			return nil, nil, fmt.Errorf("ledger decode line %d transmision: %w", line, err)
		}

		ops = append(ops, op)
		assessments = append(assessments, a)
	}
	return ops, assessments, nil
}

func parseLeg(fields []string) (Leg, error) {
	if fields[0] == "" && fields[1] == "" {
		return Leg{}, nil
	}
	qty, err := ParseQuantity(fields[1])
	if err != nil {
		return Leg{}, err
	}
	l := Leg{Asset: fields[0], Quantity: qty}
	if fields[2] != "" {
		if l.ValueEUR, err = ParseMoney(fields[2]); err != nil {
			return Leg{}, err
		}
		l.Valued = true
	}
	return l, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
