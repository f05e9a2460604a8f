package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// arith folds its Number arguments left to right with op.
// A single argument to "-" is negated.
func arith(op string) evaluator.BuiltinFunc {
	return func(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
		nums, e := numberArgs(op, args)
		if e != nil {
			return e
		}
		if len(nums) == 0 {
			return evaluator.ErrArity(op, 0, 1)
		}

		x := nums[0]
		if op == "-" && len(nums) == 1 {
			return evaluator.NewNumber(-x)
		}

		for _, y := range nums[1:] {
			switch op {
			case "+":
				x += y
			case "-":
				x -= y
			case "*":
				x *= y
			case "/":
				if y == 0 {
					return evaluator.ErrDivZero()
				}
				x /= y
			}
		}
		return evaluator.NewNumber(x)
	}
}

// ord compares exactly two Numbers.
func ord(op string) evaluator.BuiltinFunc {
	return func(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
		if e := arity(op, args, 2); e != nil {
			return e
		}
		nums, e := numberArgs(op, args)
		if e != nil {
			return e
		}
		a, b := nums[0], nums[1]
		switch op {
		case ">":
			return evaluator.Bool(a > b)
		case "<":
			return evaluator.Bool(a < b)
		case ">=":
			return evaluator.Bool(a >= b)
		default:
			return evaluator.Bool(a <= b)
		}
	}
}
