// Package renderer builds markdown reports from pipeline results.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/criptofiscal"
)

// FiscalMarkdown renders the per-year, per-asset fiscal report.
func FiscalMarkdown(report criptofiscal.FiscalReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Informe fiscal, base del ahorro\n\n")
	if len(report) == 0 {
		fmt.Fprint(&b, "No declarable operations.\n")
		return b.String()
	}

	keys := report.Keys()
	for _, year := range report.Years() {
		fmt.Fprintf(&b, "## Ejercicio %d\n\n", year)
		fmt.Fprintln(&b, "| Activo | Ops | Transmisión | Adquisición | Comisiones | Ganancia |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")

		total := &criptofiscal.Bucket{}
		for _, key := range keys {
			if key.Year != year {
				continue
			}
			bucket := report[key]
			fees := bucket.FeeGiven.Add(bucket.FeeReceived)
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
				key.Asset,
				bucket.Ops,
				bucket.Transmission.String(),
				bucket.Acquisition.String(),
				fees.String(),
				bucket.Gain().SignedString(),
			)
			total.Ops += bucket.Ops
			total.Transmission = total.Transmission.Add(bucket.Transmission)
			total.Acquisition = total.Acquisition.Add(bucket.Acquisition)
			total.FeeGiven = total.FeeGiven.Add(bucket.FeeGiven)
			total.FeeReceived = total.FeeReceived.Add(bucket.FeeReceived)
		}
		fmt.Fprintf(&b, "| **Total** | %d | **%s** | **%s** | **%s** | **%s** |\n\n",
			total.Ops,
			total.Transmission.String(),
			total.Acquisition.String(),
			total.FeeGiven.Add(total.FeeReceived).String(),
			total.Gain().SignedString(),
		)
	}
	return b.String()
}
