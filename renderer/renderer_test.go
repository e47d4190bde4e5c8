package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/criptofiscal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

func sampleReport() criptofiscal.FiscalReport {
	ops := []criptofiscal.Operation{
		{UTC: criptofiscal.MustParseTimestamp("2023-06-01 10:30:00 UTC"),
			Kind: criptofiscal.Venta, Declarable: true,
			Given:    criptofiscal.Leg{Asset: "BTC", Quantity: q("0.5"), ValueEUR: criptofiscal.EUR(15000), Valued: true},
			Received: criptofiscal.Leg{Asset: "EUR", Quantity: q("15000"), ValueEUR: criptofiscal.EUR(15000), Valued: true}},
	}
	assessments := []criptofiscal.Assessment{
		{Acquisition: criptofiscal.EUR(10000), Transmission: criptofiscal.EUR(15000)},
	}
	return criptofiscal.Aggregate(ops, assessments)
}

func q(s string) criptofiscal.Quantity {
	v, err := criptofiscal.ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return v
}

// headings parses the markdown (with table support, as the terminal renderer
// does) and returns the heading levels found.
func headings(t *testing.T, md string) []int {
	t.Helper()
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader([]byte(md)))

	var levels []int
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			levels = append(levels, h.Level)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return levels
}

func TestFiscalMarkdown(t *testing.T) {
	md := FiscalMarkdown(sampleReport())

	levels := headings(t, md)
	if len(levels) != 2 || levels[0] != 1 || levels[1] != 2 {
		t.Errorf("heading levels %v, want [1 2]", levels)
	}
	if !strings.Contains(md, "## Ejercicio 2023") {
		t.Errorf("missing year section:\n%s", md)
	}
	if !strings.Contains(md, "| BTC | 1 |") {
		t.Errorf("missing asset row:\n%s", md)
	}
	if !strings.Contains(md, "**Total**") {
		t.Errorf("missing totals row:\n%s", md)
	}
}

func TestFiscalMarkdownEmpty(t *testing.T) {
	md := FiscalMarkdown(make(criptofiscal.FiscalReport))
	if !strings.Contains(md, "No declarable operations") {
		t.Errorf("unexpected empty report:\n%s", md)
	}
}

func TestLedgerMarkdown(t *testing.T) {
	ops := []criptofiscal.Operation{
		{UTC: criptofiscal.MustParseTimestamp("2023-06-01 10:30:00 UTC"),
			Kind: criptofiscal.Venta, Declarable: true,
			Given:    criptofiscal.Leg{Asset: "BTC", Quantity: q("0.5")},
			Received: criptofiscal.Leg{Asset: "EUR", Quantity: q("15000")}},
	}
	assessments := []criptofiscal.Assessment{
		{Acquisition: criptofiscal.EUR(10000), Transmission: criptofiscal.EUR(15000)},
	}
	md := LedgerMarkdown(ops, assessments)
	if !strings.Contains(md, "| 2023-06-01 10:30:00 UTC | VENTA | 0.5 BTC | 15000 EUR | - | S |") {
		t.Errorf("unexpected listing:\n%s", md)
	}
	if levels := headings(t, md); len(levels) != 1 || levels[0] != 1 {
		t.Errorf("heading levels %v, want [1]", levels)
	}
}
