package ast

import "github.com/hulklang/hulkc/internal/token"

// NumberLiteral is a floating-point literal ("number" tag).
type NumberLiteral struct {
	Base
	Value float64
}

func (n *NumberLiteral) expressionNode() {}

// StringLiteral is a string literal ("string" tag).
type StringLiteral struct {
	Base
	Value string
}

func (s *StringLiteral) expressionNode() {}

// BoolLiteral is a boolean literal ("bool" tag).
type BoolLiteral struct {
	Base
	Value bool
}

func (b *BoolLiteral) expressionNode() {}

// Name is an identifier reference ("name" tag).
type Name struct {
	Base
	Value string
}

func (n *Name) expressionNode() {}

// Grouped wraps a parenthesized sub-expression ("grouped" tag); it exists
// purely so the checker and TAC generator can see where explicit grouping
// was written, it never changes the inner expression's type or lowering.
type Grouped struct {
	Base
	Inner Expression
}

func (g *Grouped) expressionNode() {}

// Unary is a prefix operator applied to one operand ("unary" tag): +, -, !.
type Unary struct {
	Base
	Op      string
	Operand Expression
}

func (u *Unary) expressionNode() {}

// BinOp is a binary operator expression. Covers both the "bool_expression"
// and "binop" tags from the grammar — they share one shape in this AST,
// distinguished only by Op.
type BinOp struct {
	Base
	Op    string
	Left  Expression
	Right Expression
}

func (b *BinOp) expressionNode() {}

// StrConcat is string concatenation ("str_concat" tag). IsDouble marks the
// "@@" variant (original adds a single space between operands; "@" does not).
type StrConcat struct {
	Base
	IsDouble bool
	Left     Expression
	Right    Expression
}

func (s *StrConcat) expressionNode() {}

// ArrayDeclarationExplicit is an array literal ("array_declaration_explicit").
type ArrayDeclarationExplicit struct {
	Base
	Items []Expression
}

func (a *ArrayDeclarationExplicit) expressionNode() {}

// ArrayAccess is an index expression ("array_access"): Array[Index].
type ArrayAccess struct {
	Base
	Array Expression
	Index Expression
}

func (a *ArrayAccess) expressionNode() {}

// FunctionCall is a call by name ("function_call"). Dispatch (top-level
// function, method, or builtin) is resolved by the checker/TAC generator
// from context, not recorded here.
type FunctionCall struct {
	Base
	Name string
	Args []Expression
}

func (f *FunctionCall) expressionNode() {}

// Access is one step of a dotted property/method chain ("access"):
// Left.Right, where Right is typically a *Name (field read) or a
// *FunctionCall (method call).
type Access struct {
	Base
	Left  Expression
	Right Expression
}

func (a *Access) expressionNode() {}

// Instance is object construction ("instance"): new T(Args...).
type Instance struct {
	Base
	TypeName string
	Args     []Expression
}

func (i *Instance) expressionNode() {}

// Downcast is an explicit downcast ("downcast"): Expr as TypeName.
type Downcast struct {
	Base
	Expr     Expression
	TypeName string
}

func (d *Downcast) expressionNode() {}

// SelfExpr is the implicit receiver inside a method body.
type SelfExpr struct {
	Base
}

func (s *SelfExpr) expressionNode() {}

// NewBase is a small constructor helper shared by the parser.
func NewBase(tok token.Token) Base { return Base{Token: tok} }
