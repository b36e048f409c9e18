package mips

import (
	"fmt"
	"strings"

	"github.com/hulklang/hulkc/internal/runtime"
)

// funcBody is one function's label plus its tab-indented instruction lines,
// in the order codegen visited internal/tac.Program.Functions — mirroring
// codegen.py's store_code, which walks its own code dict in that same
// encounter order rather than sorting it.
type funcBody struct {
	name  string
	lines []string
}

// Output is the fully assembled program: the data section (runtime
// constants plus interned string literals) and every function body, ready
// to be rendered as one assembly listing.
type Output struct {
	stringLabels map[string]string // literal (with quotes) -> data label
	stringOrder  []string
	functions    []funcBody
}

func newOutput() *Output {
	return &Output{stringLabels: make(map[string]string)}
}

// intern assigns literal (a Go-quoted string, e.g. `"hi"`) a .data label,
// reusing the same label for a repeated literal.
func (o *Output) intern(literal string) string {
	if label, ok := o.stringLabels[literal]; ok {
		return label
	}
	label := fmt.Sprintf("string_%d", len(o.stringOrder)+1)
	o.stringLabels[literal] = label
	o.stringOrder = append(o.stringOrder, literal)
	return label
}

// Render assembles the .data section, every function body, and the
// embedded runtime prelude into one MIPS/SPIM source listing (spec §4.6;
// grounded on codegen.py's store_code: lib/data.s + synthesized string
// entries + ".text" + each function's "name:\n\tlines" + lib/code.s).
func (o *Output) Render() string {
	var b strings.Builder
	b.WriteString(runtime.DataSection())
	for _, literal := range o.stringOrder {
		fmt.Fprintf(&b, "\t%s:\t.asciiz %s\n", o.stringLabels[literal], literal)
	}
	b.WriteString("\n.text\n")
	for _, fn := range o.functions {
		fmt.Fprintf(&b, "%s:\n", fn.name)
		for _, line := range fn.lines {
			fmt.Fprintf(&b, "\t%s\n", line)
		}
		b.WriteString("\n")
	}
	b.WriteString(runtime.CodePrelude())
	return b.String()
}
