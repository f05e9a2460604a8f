package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// eq? a b → structural equality → 1/0
func stdlibEq(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("eq?", args, 2); e != nil {
		return e
	}
	return evaluator.Bool(evaluator.Equal(args[0], args[1]))
}

// != a b → negated structural equality → 1/0
func stdlibNe(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("!=", args, 2); e != nil {
		return e
	}
	return evaluator.Bool(!evaluator.Equal(args[0], args[1]))
}

// and a b ... → 1 unless some argument is 0
func stdlibAnd(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	nums, e := numberArgs("and", args)
	if e != nil {
		return e
	}
	for _, n := range nums {
		if n == 0 {
			return evaluator.Bool(false)
		}
	}
	return evaluator.Bool(true)
}

// or a b ... → 1 if some argument is non-zero
func stdlibOr(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	nums, e := numberArgs("or", args)
	if e != nil {
		return e
	}
	for _, n := range nums {
		if n != 0 {
			return evaluator.Bool(true)
		}
	}
	return evaluator.Bool(false)
}

// not a → 1 if a is 0
func stdlibNot(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return numberTest("not", args, func(n int64) bool { return n == 0 })
}

// zero? a → 1 if a is 0
func stdlibZero(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return numberTest("zero?", args, func(n int64) bool { return n == 0 })
}

func numberTest(fn string, args []evaluator.Value, test func(int64) bool) evaluator.Value {
	if e := arity(fn, args, 1); e != nil {
		return e
	}
	nums, e := numberArgs(fn, args)
	if e != nil {
		return e
	}
	return evaluator.Bool(test(nums[0]))
}

// integer? x → 1 if x is a Number
func stdlibIsInteger(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return typeTest("integer?", args, func(v evaluator.Value) bool {
		_, ok := v.(evaluator.Number)
		return ok
	})
}

// qexpr? x → 1 if x is a Q-expression
func stdlibIsQexpr(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return typeTest("qexpr?", args, func(v evaluator.Value) bool {
		_, ok := v.(*evaluator.QExpr)
		return ok
	})
}

// string? x → 1 if x is a String
func stdlibIsString(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	return typeTest("string?", args, func(v evaluator.Value) bool {
		_, ok := v.(evaluator.String)
		return ok
	})
}

func typeTest(fn string, args []evaluator.Value, match func(evaluator.Value) bool) evaluator.Value {
	if e := arity(fn, args, 1); e != nil {
		return e
	}
	return evaluator.Bool(match(args[0]))
}
