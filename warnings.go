package criptofiscal

import "fmt"

// Warning flags a malformed field in an export file. The field was replaced
// by a zero value so the run can continue, but never silently.
type Warning struct {
	Line  int
	Field string
	Value string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: unreadable %s %q, using zero", w.Line, w.Field, w.Value)
}
