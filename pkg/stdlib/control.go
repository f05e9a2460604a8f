package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

const elseKeyword = "else"

// if {cond expr} ... {else expr}
//
// Clauses are tried in order and the expr of the first clause whose
// condition evaluates to a non-zero Number is evaluated. Only the last
// clause may use the else keyword. With no match the result is ().
func stdlibIf(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	clauses := make([]*evaluator.QExpr, len(args))
	for i := range args {
		q, e := qexprArg("if", args, i)
		if e != nil {
			return e
		}
		if len(q.Cells) != 2 {
			return evaluator.Errorf(diagnostics.EArity,
				"Function 'if' passed incorrect number of elements for clause %d. Got %d, Expected 2.",
				i, len(q.Cells))
		}
		last := i == len(args)-1
		switch c := q.Cells[0].(type) {
		case evaluator.Number, *evaluator.SExpr:
		case evaluator.Symbol:
			if !last || c.Name != elseKeyword {
				return badCondition(c, last)
			}
		default:
			return badCondition(c, last)
		}
		clauses[i] = q
	}

	for i, q := range clauses {
		if isElse(q.Cells[0]) {
			return ev.Eval(env, q.Cells[1])
		}
		cond := ev.Eval(env, q.Cells[0])
		if evaluator.IsError(cond) {
			return cond
		}
		n, ok := cond.(evaluator.Number)
		if !ok {
			return evaluator.ErrType("if", i, cond, "Number")
		}
		if n.Value != 0 {
			return ev.Eval(env, q.Cells[1])
		}
	}
	return evaluator.Unit()
}

func isElse(v evaluator.Value) bool {
	s, ok := v.(evaluator.Symbol)
	return ok && s.Name == elseKeyword
}

func badCondition(got evaluator.Value, last bool) evaluator.Value {
	if last {
		return evaluator.Errorf(diagnostics.EType,
			"Function 'if' condition passed incorrect type. Got %s, Expected Number, S-Expression or 'else'.",
			evaluator.TypeName(got))
	}
	return evaluator.Errorf(diagnostics.EType,
		"Function 'if' condition passed incorrect type. Got %s, Expected Number or S-Expression.",
		evaluator.TypeName(got))
}

// lambda {formals} {body} → function
func stdlibLambda(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("lambda", args, 2); e != nil {
		return e
	}
	formals, e := qexprArg("lambda", args, 0)
	if e != nil {
		return e
	}
	body, e := qexprArg("lambda", args, 1)
	if e != nil {
		return e
	}
	syms, e := symbolCells(formals, func(i int, got evaluator.Value) evaluator.Value {
		return evaluator.Errorf(diagnostics.EType,
			"Cannot define a non-symbol. Got %s, Expected Symbol.", evaluator.TypeName(got))
	})
	if e != nil {
		return e
	}
	return evaluator.NewLambda(syms, body)
}

// def {a b} 1 2 → binds a and b in the global scope → ()
func stdlibDef(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return bindVars("def", env, args, env.Def)
}

// = {a b} 1 2 → rebinds a and b where they are defined, else locally → ()
func stdlibAssign(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return bindVars("=", env, args, env.Assign)
}

func bindVars(fn string, env *evaluator.Env, args []evaluator.Value, bind func(string, evaluator.Value)) evaluator.Value {
	if len(args) == 0 {
		return evaluator.ErrArity(fn, 0, 1)
	}
	q, e := qexprArg(fn, args, 0)
	if e != nil {
		return e
	}
	syms, e := symbolCells(q, func(i int, got evaluator.Value) evaluator.Value {
		return evaluator.Errorf(diagnostics.EType,
			"Function '%s' cannot define non-symbol. Got %s, Expected Symbol.", fn, evaluator.TypeName(got))
	})
	if e != nil {
		return e
	}
	vals := args[1:]
	if len(syms) != len(vals) {
		return evaluator.Errorf(diagnostics.EArity,
			"Function '%s' passed incorrect number of values for symbols. Got %d, Expected %d.",
			fn, len(vals), len(syms))
	}
	for i, s := range syms {
		bind(s.Name, vals[i])
	}
	return evaluator.Unit()
}
