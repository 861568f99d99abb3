// Package expr defines the engine's expression algebra (§3
// Expressions): a closed sum type of column references, literals,
// binary operators, aliases, and aggregate calls. Both the physical
// kernels (internal/kernel) and the logical plan (package plan) build
// on these same node and operator types so a Binary node means the
// same thing whether the optimizer is rewriting it or a kernel is
// evaluating it.
package expr

import "fmt"

// CompareOp is one of the six comparison operators.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return "?"
	}
}

// Swap returns the operator that preserves meaning when its operands
// are swapped — used by the optimizer's comparison canonicalization
// (§4.N rule 4) and by the comparison kernel's scalar-on-right
// invariant.
func (op CompareOp) Swap() CompareOp {
	switch op {
	case Lt:
		return Gt
	case Le:
		return Ge
	case Gt:
		return Lt
	case Ge:
		return Le
	default:
		return op
	}
}

func (op CompareOp) IsComparison() bool { return true }

// ArithOp is one of the four arithmetic operators.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// AggOp is one of the five aggregate functions (§3).
type AggOp int

const (
	Sum AggOp = iota
	Count
	Min
	Max
	Mean
)

func (op AggOp) String() string {
	switch op {
	case Sum:
		return "sum"
	case Count:
		return "count"
	case Min:
		return "min"
	case Max:
		return "max"
	case Mean:
		return "mean"
	default:
		return "?"
	}
}

// Expr is the closed expression sum type: Col, Lit, Binary, Alias, Agg.
// Every concrete type below implements it via the unexported exprNode
// marker method, so no other package can introduce a new variant.
type Expr interface {
	exprNode()
	// Key returns a canonical string identity for the subtree, used to
	// cache compiled JIT kernels by structural identity (§4.H).
	Key() string
}

// Col references a column by name.
type Col struct {
	Name string
}

func (Col) exprNode()        {}
func (c Col) Key() string    { return "col:" + c.Name }
func (c Col) String() string { return c.Name }

// Lit is a literal scalar value: int32, float64, bool, string, or
// column.Timestamp.
type Lit struct {
	Value any
}

func (Lit) exprNode()     {}
func (l Lit) Key() string { return fmt.Sprintf("lit:%T:%v", l.Value, l.Value) }

// BinaryKind distinguishes an arithmetic Binary from a comparison
// Binary, since they carry different operator enums but share one node
// shape conceptually.
type BinaryKind int

const (
	ArithKind BinaryKind = iota
	CompareKind
)

// Binary is a two-operand node: either arithmetic (+ − × ÷) or a
// comparison (= ≠ < ≤ > ≥), per §3.
type Binary struct {
	Left, Right Expr
	Kind        BinaryKind
	Arith       ArithOp
	Compare     CompareOp
}

func (Binary) exprNode() {}
func (b Binary) Key() string {
	op := "?"
	if b.Kind == ArithKind {
		op = b.Arith.String()
	} else {
		op = b.Compare.String()
	}
	return fmt.Sprintf("bin(%s,%s,%s)", b.Left.Key(), op, b.Right.Key())
}

// BinaryArith builds an arithmetic Binary node.
func BinaryArith(left Expr, op ArithOp, right Expr) Binary {
	return Binary{Left: left, Right: right, Kind: ArithKind, Arith: op}
}

// BinaryCompare builds a comparison Binary node.
func BinaryCompare(left Expr, op CompareOp, right Expr) Binary {
	return Binary{Left: left, Right: right, Kind: CompareKind, Compare: op}
}

// Alias renames the result of Child to Name.
type Alias struct {
	Child Expr
	Name  string
}

func (Alias) exprNode()     {}
func (a Alias) Key() string { return fmt.Sprintf("alias(%s,%s)", a.Child.Key(), a.Name) }

// Agg is an aggregate call over Child, one of Sum/Count/Min/Max/Mean.
type Agg struct {
	Op    AggOp
	Child Expr
}

func (Agg) exprNode()     {}
func (a Agg) Key() string { return fmt.Sprintf("agg(%s,%s)", a.Op, a.Child.Key()) }

// OutputName returns the column name an expression would produce when
// materialized: the alias if present, the bare column name for a Col,
// or a synthesized name otherwise.
func OutputName(e Expr) string {
	switch v := e.(type) {
	case Alias:
		return v.Name
	case Col:
		return v.Name
	case Agg:
		return fmt.Sprintf("%s(%s)", v.Op, OutputName(v.Child))
	default:
		return e.Key()
	}
}

// CollectColumns returns the distinct column names e references, in
// first-appearance order. Used by the JIT to size its input slice and
// by the optimizer's predicate-pushdown/projection-pruning rules to
// test whether an expression survives a given column set.
func CollectColumns(e Expr) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Expr)
	walk = func(n Expr) {
		switch v := n.(type) {
		case Col:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		case Alias:
			walk(v.Child)
		case Binary:
			walk(v.Left)
			walk(v.Right)
		case Agg:
			walk(v.Child)
		}
	}
	walk(e)
	return out
}

// IsJITEligible reports whether e contains only Col/Lit/Binary(arith)/
// Alias nodes — the subset the expression JIT (§4.H) compiles. Any
// comparison or Agg node routes evaluation through the interpreted
// fallback instead.
func IsJITEligible(e Expr) bool {
	switch v := e.(type) {
	case Col, Lit:
		return true
	case Alias:
		return IsJITEligible(v.Child)
	case Binary:
		return v.Kind == ArithKind && IsJITEligible(v.Left) && IsJITEligible(v.Right)
	default:
		return false
	}
}
