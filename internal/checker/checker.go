// Package checker implements the semantic checker (spec §4.4): program-level
// discovery of every function and type declaration, followed by per-node
// validation of the whole program against the symbol table discovery built.
//
// Grounded on original_source/src/semantic_checker.py's SemanticChecker: its
// define_all_types + check_functions_and_types fixed-point pass (here,
// runDiscovery) and its per-tag check_* methods (here, checkExpr/checkStmt,
// one Go type-switch case per Python method, the way internal/inference
// already dispatches).
package checker

import (
	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/errors"
	"github.com/hulklang/hulkc/internal/inference"
	"github.com/hulklang/hulkc/internal/symbols"
	"github.com/hulklang/hulkc/internal/types"
)

// Result is everything downstream passes (internal/tac) need: the root
// symbol table discovery produced, and the two side tables that replace the
// original's in-place AST backpatching (see internal/ast's package doc).
type Result struct {
	Root   *symbols.SymbolTable
	Scopes map[ast.Node]*symbols.SymbolTable
	Types  map[ast.Expression]*types.Type
	Errors *errors.Bag
	OK     bool
}

type checker struct {
	reg     *types.Registry
	infer   *inference.Service
	bag     *errors.Bag
	scopes  map[ast.Node]*symbols.SymbolTable
	deduced map[ast.Expression]*types.Type
}

// Check runs discovery and then per-node validation over prog, returning a
// Result. A discovery-phase fatal error (an unresolvable type graph) yields
// a Result with OK false and Root nil — mirroring
// check_functions_and_types returning None, which original's top-level
// check() treats as "stop, nothing downstream can be trusted".
func Check(prog *ast.Program) *Result {
	reg := types.NewRegistry()
	bag := errors.NewBag()
	infer := inference.New(reg)

	root, fatal := runDiscovery(prog, reg, bag)
	if fatal {
		return &Result{Errors: bag, OK: false}
	}

	c := &checker{
		reg:     reg,
		infer:   infer,
		bag:     bag,
		scopes:  make(map[ast.Node]*symbols.SymbolTable),
		deduced: make(map[ast.Expression]*types.Type),
	}

	for _, fn := range prog.Functions {
		c.checkFunctionDecl(fn, root)
	}
	for _, td := range prog.Types {
		c.checkTypeDeclaration(td, root)
	}
	c.checkExpr(prog.Main, root)

	return &Result{
		Root:   root,
		Scopes: c.scopes,
		Types:  c.deduced,
		Errors: bag,
		OK:     !bag.HasErrors(),
	}
}

func (c *checker) remember(n ast.Node, scope *symbols.SymbolTable) {
	c.scopes[n] = scope
}

func (c *checker) deduce(e ast.Expression, scope *symbols.SymbolTable) *types.Type {
	t := c.infer.Deduce(e, scope)
	c.deduced[e] = t
	return t
}
