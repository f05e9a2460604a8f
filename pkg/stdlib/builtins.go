package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// RegisterDefaults adds all builtins.
func RegisterDefaults(r *Registry) {
	// List ops
	r.Register(Fn{Name: "list", Execute: stdlibList})
	r.Register(Fn{Name: "first", Execute: stdlibFirst})
	r.Register(Fn{Name: "rest", Execute: stdlibRest})
	r.Register(Fn{Name: "last", Execute: stdlibLast})
	r.Register(Fn{Name: "eval", Execute: stdlibEval})
	r.Register(Fn{Name: "join", Execute: stdlibJoin})
	r.Register(Fn{Name: "cons", Execute: stdlibCons})
	r.Register(Fn{Name: "length", Execute: stdlibLength})
	r.Register(Fn{Name: "empty?", Execute: stdlibEmpty})

	// Arithmetic
	r.Register(Fn{Name: "+", Execute: arith("+")})
	r.Register(Fn{Name: "-", Execute: arith("-")})
	r.Register(Fn{Name: "*", Execute: arith("*")})
	r.Register(Fn{Name: "/", Execute: arith("/")})

	// Comparison
	r.Register(Fn{Name: "eq?", Execute: stdlibEq})
	r.Register(Fn{Name: "!=", Execute: stdlibNe})
	r.Register(Fn{Name: ">", Execute: ord(">")})
	r.Register(Fn{Name: "<", Execute: ord("<")})
	r.Register(Fn{Name: ">=", Execute: ord(">=")})
	r.Register(Fn{Name: "<=", Execute: ord("<=")})

	// Logic
	r.Register(Fn{Name: "and", Execute: stdlibAnd})
	r.Register(Fn{Name: "or", Execute: stdlibOr})
	r.Register(Fn{Name: "not", Execute: stdlibNot})

	// Predicates
	r.Register(Fn{Name: "integer?", Execute: stdlibIsInteger})
	r.Register(Fn{Name: "int", Execute: stdlibIsInteger})
	r.Register(Fn{Name: "qexpr?", Execute: stdlibIsQexpr})
	r.Register(Fn{Name: "string?", Execute: stdlibIsString})
	r.Register(Fn{Name: "zero?", Execute: stdlibZero})

	// Control and definition
	r.Register(Fn{Name: "if", Execute: stdlibIf})
	r.Register(Fn{Name: "lambda", Execute: stdlibLambda})
	r.Register(Fn{Name: "def", Execute: stdlibDef})
	r.Register(Fn{Name: "=", Execute: stdlibAssign})

	// Structs
	r.Register(Fn{Name: "struct", Execute: stdlibStruct})
	r.Register(Fn{Name: "make", Execute: stdlibMake})
	r.Register(Fn{Name: "get", Execute: stdlibGet})

	// IO and errors
	r.Register(Fn{Name: "print", Execute: stdlibPrint})
	r.Register(Fn{Name: "error", Execute: stdlibError})
	r.Register(Fn{Name: "load", Execute: stdlibLoad})
}

// Defaults returns a registry holding every builtin.
func Defaults() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// --- argument checks ---
// Each returns nil when the check passes and the Error value to return
// otherwise.

func arity(fn string, args []evaluator.Value, n int) evaluator.Value {
	if len(args) != n {
		return evaluator.ErrArity(fn, len(args), n)
	}
	return nil
}

func qexprArg(fn string, args []evaluator.Value, idx int) (*evaluator.QExpr, evaluator.Value) {
	q, ok := args[idx].(*evaluator.QExpr)
	if !ok {
		return nil, evaluator.ErrType(fn, idx, args[idx], "Q-Expression")
	}
	return q, nil
}

func nonEmptyQexprArg(fn string, args []evaluator.Value, idx int) (*evaluator.QExpr, evaluator.Value) {
	q, errv := qexprArg(fn, args, idx)
	if errv != nil {
		return nil, errv
	}
	if len(q.Cells) == 0 {
		return nil, evaluator.ErrEmpty(fn, idx)
	}
	return q, nil
}

func numberArgs(fn string, args []evaluator.Value) ([]int64, evaluator.Value) {
	nums := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(evaluator.Number)
		if !ok {
			return nil, evaluator.ErrType(fn, i, a, "Number")
		}
		nums[i] = n.Value
	}
	return nums, nil
}

func stringArg(fn string, args []evaluator.Value, idx int) (string, evaluator.Value) {
	s, ok := args[idx].(evaluator.String)
	if !ok {
		return "", evaluator.ErrType(fn, idx, args[idx], "String")
	}
	return s.Value, nil
}

// symbolCells checks that every cell of q is a Symbol.
func symbolCells(q *evaluator.QExpr, onError func(i int, got evaluator.Value) evaluator.Value) ([]evaluator.Symbol, evaluator.Value) {
	out := make([]evaluator.Symbol, len(q.Cells))
	for i, c := range q.Cells {
		s, ok := c.(evaluator.Symbol)
		if !ok {
			return nil, onError(i, c)
		}
		out[i] = s
	}
	return out, nil
}
