package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// list a b ... → {a b ...}
func stdlibList(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return &evaluator.QExpr{Cells: args}
}

// first {a b ...} → a
func stdlibFirst(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("first", args, 1); e != nil {
		return e
	}
	q, e := nonEmptyQexprArg("first", args, 0)
	if e != nil {
		return e
	}
	return q.Cells[0]
}

// rest {a b ...} → {b ...}
func stdlibRest(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("rest", args, 1); e != nil {
		return e
	}
	q, e := nonEmptyQexprArg("rest", args, 0)
	if e != nil {
		return e
	}
	return &evaluator.QExpr{Cells: append([]evaluator.Value(nil), q.Cells[1:]...)}
}

// last {... z} → z
func stdlibLast(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("last", args, 1); e != nil {
		return e
	}
	q, e := nonEmptyQexprArg("last", args, 0)
	if e != nil {
		return e
	}
	return q.Cells[len(q.Cells)-1]
}

// eval {f x ...} → (f x ...)
// Anything other than a Q-expression evaluates as it would on its own.
func stdlibEval(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("eval", args, 1); e != nil {
		return e
	}
	if q, ok := args[0].(*evaluator.QExpr); ok {
		return ev.Eval(env, &evaluator.SExpr{Cells: q.Cells})
	}
	return ev.Eval(env, args[0])
}

// join {a} {b c} ... → {a b c ...}
func stdlibJoin(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	var cells []evaluator.Value
	for i := range args {
		q, e := qexprArg("join", args, i)
		if e != nil {
			return e
		}
		cells = append(cells, q.Cells...)
	}
	return &evaluator.QExpr{Cells: cells}
}

// cons x {a b} → {x a b}
func stdlibCons(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("cons", args, 2); e != nil {
		return e
	}
	q, e := qexprArg("cons", args, 1)
	if e != nil {
		return e
	}
	cells := make([]evaluator.Value, 0, len(q.Cells)+1)
	cells = append(cells, args[0])
	cells = append(cells, q.Cells...)
	return &evaluator.QExpr{Cells: cells}
}

// length {a b c} → 3
// The empty list is rejected like in first/rest/last.
func stdlibLength(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("length", args, 1); e != nil {
		return e
	}
	q, e := nonEmptyQexprArg("length", args, 0)
	if e != nil {
		return e
	}
	return evaluator.NewNumber(int64(len(q.Cells)))
}

// empty? {} → 1
func stdlibEmpty(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("empty?", args, 1); e != nil {
		return e
	}
	q, e := qexprArg("empty?", args, 0)
	if e != nil {
		return e
	}
	return evaluator.Bool(len(q.Cells) == 0)
}
