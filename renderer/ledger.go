package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/criptofiscal"
)

// LedgerMarkdown renders the canonical ledger as a compact listing table.
func LedgerMarkdown(ops []criptofiscal.Operation, assessments []criptofiscal.Assessment) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Ledger\n\n")
	if len(ops) == 0 {
		fmt.Fprint(&b, "No operations.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Fecha | Tipo | Emitido | Recibido | Comisión | D | Adquisición | Transmisión |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|:---:|---:|---:|")
	for i, op := range ops {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			op.UTC.String(),
			op.Kind,
			legString(op.Given),
			legString(op.Received),
			legString(op.Fee),
			op.DeclarableMark(),
			assessments[i].Acquisition.String(),
			assessments[i].Transmission.String(),
		)
	}
	return b.String()
}

func legString(l criptofiscal.Leg) string {
	if l.IsEmpty() {
		return "-"
	}
	return fmt.Sprintf("%s %s", l.Quantity, l.Asset)
}
