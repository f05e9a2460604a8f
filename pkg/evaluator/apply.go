package evaluator

import "time"

// RestMarker introduces the formal that collects all remaining arguments.
const RestMarker = "&"

// Call applies f to args in the calling environment env. Both f and args are
// consumed: a lambda binds its arguments into its own environment and may be
// returned, partially applied, as the result.
func (ev *Evaluator) Call(env *Env, f Value, args []Value) Value {
	var name string
	switch fn := f.(type) {
	case *Builtin:
		name = fn.Name
	case *Lambda:
		name = "lambda"
	default:
		return ErrNotFunction(f)
	}

	tracing := ev.Tracing()
	var start time.Time
	if tracing {
		start = time.Now()
		ev.Emit(TraceCallStart, nil, map[string]any{
			"fn":    name,
			"args":  len(args),
			"depth": ev.depth,
		})
	}

	ev.depth++
	var result Value
	switch fn := f.(type) {
	case *Builtin:
		result = fn.Fn(ev, env, args)
	case *Lambda:
		result = ev.applyLambda(env, name, fn, args)
	}
	ev.depth--

	if tracing {
		if e, ok := result.(Error); ok {
			ev.Emit(TraceError, nil, map[string]any{
				"fn":      name,
				"code":    e.Code,
				"message": e.Message,
			})
		}
		ev.Emit(TraceCallEnd, nil, map[string]any{
			"fn":         name,
			"depth":      ev.depth,
			"result":     ValueToRaw(result),
			"durationUs": time.Since(start).Microseconds(),
		})
	}
	return result
}

func (ev *Evaluator) applyLambda(env *Env, name string, fn *Lambda, args []Value) Value {
	if fn.Env == nil {
		fn.Env = NewEnv(nil)
	}
	given, total := len(args), len(fn.Formals)

	for len(args) > 0 {
		if len(fn.Formals) == 0 {
			return ErrTooMany(name, given, total)
		}
		sym := fn.Formals[0]
		fn.Formals = fn.Formals[1:]

		if sym.Name == RestMarker {
			if len(fn.Formals) != 1 {
				return ErrRestParam()
			}
			rest := fn.Formals[0]
			fn.Formals = fn.Formals[1:]
			fn.Env.Put(rest.Name, &QExpr{Cells: args})
			args = nil
			break
		}

		fn.Env.Put(sym.Name, args[0])
		args = args[1:]
	}

	// A rest formal left unbound collects no arguments.
	if len(fn.Formals) > 0 && fn.Formals[0].Name == RestMarker {
		if len(fn.Formals) != 2 {
			return ErrRestParam()
		}
		fn.Env.Put(fn.Formals[1].Name, &QExpr{})
		fn.Formals = fn.Formals[2:]
	}

	if len(fn.Formals) > 0 {
		return fn
	}

	fn.Env.SetParent(env)
	return ev.Eval(fn.Env, &SExpr{Cells: copyCells(fn.Body.Cells)})
}
