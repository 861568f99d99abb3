package kernel

import (
	"fmt"
	"sort"
	"sync"

	"coltab/expr"
	"coltab/internal/column"
	"coltab/kerr"
)

// Program is a compiled arithmetic expression kernel (§4.H): a tight
// per-row loop over column input slices, specialized to i32 or f64.
// Inputs are positional, in ColNames order.
type Program struct {
	Key      string
	IsI32    bool
	ColNames []string
	evalI32  func(length int, out []int32, inputs [][]int32)
	evalF64  func(length int, out []float64, inputs [][]float64)
}

// RunI32 evaluates the compiled i32 kernel. Panics if the program is
// not an i32 program; callers check IsI32 first.
func (p *Program) RunI32(length int, out []int32, inputs [][]int32) { p.evalI32(length, out, inputs) }

// RunF64 is RunI32 for the f64 specialization.
func (p *Program) RunF64(length int, out []float64, inputs [][]float64) { p.evalF64(length, out, inputs) }

var (
	cacheMu sync.Mutex
	cache   = map[string]*Program{}
)

// Compile compiles e — which must satisfy expr.IsJITEligible — into a
// Program specialized against colKinds (the logical type of every
// referenced column). Compiled programs are cached by structural
// expression identity plus the type signature of their inputs, so
// calling Compile again with an identical tree and identical input
// kinds returns the cached Program instead of recompiling.
func Compile(e expr.Expr, colKinds map[string]column.Kind) (*Program, error) {
	if !expr.IsJITEligible(e) {
		return nil, kerr.New(kerr.JitUnsupported, "kernel.Compile", "expression contains a node outside the JIT's support set")
	}

	names := expr.CollectColumns(e)
	sort.Strings(names)

	isI32 := true
	for _, n := range names {
		k, ok := colKinds[n]
		if !ok {
			return nil, kerr.New(kerr.MissingColumn, "kernel.Compile", "expression references unknown column "+n)
		}
		if k != column.KindI32 {
			isI32 = false
		}
	}
	if hasFloatLit(e) {
		isI32 = false
	}

	key := fmt.Sprintf("%s|i32=%v|%v", e.Key(), isI32, names)

	cacheMu.Lock()
	if p, ok := cache[key]; ok {
		cacheMu.Unlock()
		return p, nil
	}
	cacheMu.Unlock()

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	p := &Program{Key: key, IsI32: isI32, ColNames: names}
	if isI32 {
		fn, err := compileI32(e, index)
		if err != nil {
			return nil, err
		}
		p.evalI32 = func(length int, out []int32, inputs [][]int32) {
			for i := 0; i < length; i++ {
				out[i] = fn(i, inputs)
			}
		}
	} else {
		fn, err := compileF64(e, index)
		if err != nil {
			return nil, err
		}
		p.evalF64 = func(length int, out []float64, inputs [][]float64) {
			for i := 0; i < length; i++ {
				out[i] = fn(i, inputs)
			}
		}
	}

	cacheMu.Lock()
	cache[key] = p
	cacheMu.Unlock()
	return p, nil
}

func hasFloatLit(e expr.Expr) bool {
	switch v := e.(type) {
	case expr.Lit:
		_, ok := v.Value.(float64)
		return ok
	case expr.Alias:
		return hasFloatLit(v.Child)
	case expr.Binary:
		return hasFloatLit(v.Left) || hasFloatLit(v.Right)
	default:
		return false
	}
}

func compileI32(e expr.Expr, index map[string]int) (func(i int, inputs [][]int32) int32, error) {
	switch v := e.(type) {
	case expr.Col:
		pos := index[v.Name]
		return func(i int, inputs [][]int32) int32 { return inputs[pos][i] }, nil
	case expr.Lit:
		lit, err := litAsI32(v.Value)
		if err != nil {
			return nil, err
		}
		return func(i int, inputs [][]int32) int32 { return lit }, nil
	case expr.Alias:
		return compileI32(v.Child, index)
	case expr.Binary:
		if v.Kind != expr.ArithKind {
			return nil, kerr.New(kerr.JitUnsupported, "kernel.compileI32", "comparison node in arithmetic JIT tree")
		}
		left, err := compileI32(v.Left, index)
		if err != nil {
			return nil, err
		}
		right, err := compileI32(v.Right, index)
		if err != nil {
			return nil, err
		}
		op := v.Arith
		return func(i int, inputs [][]int32) int32 {
			a, b := left(i, inputs), right(i, inputs)
			switch op {
			case expr.Add:
				return a + b
			case expr.Sub:
				return a - b
			case expr.Mul:
				return a * b
			case expr.Div:
				if b == 0 {
					return 0
				}
				return a / b
			}
			return 0
		}, nil
	default:
		return nil, kerr.New(kerr.JitUnsupported, "kernel.compileI32", "unsupported expression node")
	}
}

func compileF64(e expr.Expr, index map[string]int) (func(i int, inputs [][]float64) float64, error) {
	switch v := e.(type) {
	case expr.Col:
		pos := index[v.Name]
		return func(i int, inputs [][]float64) float64 { return inputs[pos][i] }, nil
	case expr.Lit:
		lit, err := litAsF64(v.Value)
		if err != nil {
			return nil, err
		}
		return func(i int, inputs [][]float64) float64 { return lit }, nil
	case expr.Alias:
		return compileF64(v.Child, index)
	case expr.Binary:
		if v.Kind != expr.ArithKind {
			return nil, kerr.New(kerr.JitUnsupported, "kernel.compileF64", "comparison node in arithmetic JIT tree")
		}
		left, err := compileF64(v.Left, index)
		if err != nil {
			return nil, err
		}
		right, err := compileF64(v.Right, index)
		if err != nil {
			return nil, err
		}
		op := v.Arith
		return func(i int, inputs [][]float64) float64 {
			a, b := left(i, inputs), right(i, inputs)
			switch op {
			case expr.Add:
				return a + b
			case expr.Sub:
				return a - b
			case expr.Mul:
				return a * b
			case expr.Div:
				return a / b
			}
			return 0
		}, nil
	default:
		return nil, kerr.New(kerr.JitUnsupported, "kernel.compileF64", "unsupported expression node")
	}
}

func litAsI32(v any) (int32, error) {
	switch n := v.(type) {
	case int32:
		return n, nil
	case int:
		return int32(n), nil
	default:
		return 0, kerr.New(kerr.KindMismatch, "kernel.litAsI32", "literal is not an integer")
	}
}

func litAsF64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, kerr.New(kerr.KindMismatch, "kernel.litAsF64", "literal is not numeric")
	}
}

// WidenI32ToF64 performs the one widening pass §4.H requires before
// invoking an f64-specialized kernel over an i32 input column.
func WidenI32ToF64(vals []int32) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}
