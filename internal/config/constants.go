// Package config holds the compiler's build-time constants and optional
// per-project overrides (spec §6 "external interfaces", ambient stack).
//
// Grounded on internal/config/constants.go's package-level var/const
// layout (teacher) and on internal/ext/config.go's YAML-backed Config
// (teacher), scaled down from "external Go package bindings" to "build
// options for one compiler invocation".
package config

// SourceFileExt is the recognized HULK source extension.
const SourceFileExt = ".hulk"

// IsTestMode mirrors the teacher's config.IsTestMode switch. Nothing in
// this module currently sets or reads it (there is nothing
// non-deterministic in this compiler's output to normalize, spec §8).
var IsTestMode = false

// BuiltinFunctions are the user-facing builtin names (spec §4.4, §4.6
// "Final emission"). internal/checker does not read this list: it resolves
// builtins through internal/symbols.BuiltinFunctions, which also accepts
// concat_strings, listed here separately.
var BuiltinFunctions = []string{"print", "boolToString", "numberToString"}

// InternalRuntimeFunctions are the additional routines lib/code.s
// provides for the compiler's own lowering: internal/tac emits calls to
// concat_strings and internal/codegen/mips emits calls to streq.
var InternalRuntimeFunctions = []string{"concat_strings", "streq"}

// IntRegisters and FloatRegisters are the two register banks
// internal/codegen/mips draws temporaries from (spec §4.6). Exposed here,
// rather than only as unexported literals in internal/codegen/mips, so a
// BuildOptions override can shrink the pool for eviction-pressure testing
// without touching the generator itself.
var IntRegisters = []string{
	"$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7", "$t8", "$t9",
	"$s1", "$s2", "$s3", "$s4",
}

var FloatRegisters = []string{"$f13", "$f14", "$f15", "$f16", "$f17", "$f18"}
