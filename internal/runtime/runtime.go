// Package runtime embeds the MIPS assembly support code every compiled
// program links against: the .data section constants/scratch space
// (lib/data.s) and the .text prelude providing the calling convention's
// push_all/pop_all and the four routines the checker treats as builtins
// (print, boolToString, numberToString, concat_strings).
//
// Grounded on original_source/src/codegen.py's store_code, which reads
// lib/data.s and lib/code.s off disk at compile time; embedding them in the
// binary instead (other_examples/*clarete-langlang*genc.go and
// *Consensys-go-corset*compiler.go both embed a support file the same way)
// means a built hulkc carries its own runtime, no sibling lib/ directory
// required at the install site.
package runtime

import _ "embed"

//go:embed lib/data.s
var dataSection string

//go:embed lib/code.s
var codePrelude string

// DataSection returns the .data section emitted before any program-specific
// string literals.
func DataSection() string { return dataSection }

// CodePrelude returns the .text routines appended after all generated
// function bodies.
func CodePrelude() string { return codePrelude }
