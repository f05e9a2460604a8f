package stdlib

import (
	"fmt"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
	"github.com/thomasrohde/lispy/pkg/formatter"
	"github.com/thomasrohde/lispy/pkg/parser"
)

// print a b ... → writes the printed forms on one line → ()
func stdlibPrint(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	fmt.Fprintln(ev.Stdout(), formatter.FormatAll(args))
	return evaluator.Unit()
}

// error "msg" → Error value carrying msg
func stdlibError(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("error", args, 1); e != nil {
		return e
	}
	msg, e := stringArg("error", args, 0)
	if e != nil {
		return e
	}
	return evaluator.ErrUser(msg)
}

// load "path" → evaluates every form of the file → ()
func stdlibLoad(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("load", args, 1); e != nil {
		return e
	}
	path, e := stringArg("load", args, 0)
	if e != nil {
		return e
	}
	return Load(ev, env, path)
}

// Load reads, parses and evaluates the file at path in env, one top-level
// form at a time. Forms that evaluate to an Error are printed and do not stop
// the remaining forms. The result is () unless the file could not be read or
// parsed.
func Load(ev *evaluator.Evaluator, env *evaluator.Env, path string) evaluator.Value {
	ev.Emit(evaluator.TraceLoadStart, nil, map[string]any{"path": path})

	result := loadForms(ev, env, path)

	data := map[string]any{"path": path}
	if e, ok := result.(evaluator.Error); ok {
		data["error"] = e.Message
	}
	ev.Emit(evaluator.TraceLoadEnd, nil, data)
	return result
}

func loadForms(ev *evaluator.Evaluator, env *evaluator.Env, path string) evaluator.Value {
	loader := ev.Loader()
	if loader == nil {
		return evaluator.ErrLoad(diagnostics.EIO, fmt.Sprintf("%s: no source loader configured", path))
	}
	source, err := loader.Load(path)
	if err != nil {
		return evaluator.ErrLoad(diagnostics.EIO, err.Error())
	}

	root, diags := parser.Parse(source, path)
	if len(diags) > 0 {
		return evaluator.ErrLoad(diags[0].Code, diagnostics.Summary(diags))
	}

	for _, form := range evaluator.ReadProgram(root) {
		span := form.Span
		ev.Emit(evaluator.TraceFormStart, &span, nil)
		var data map[string]any
		if e, ok := ev.Eval(env, form.Value).(evaluator.Error); ok {
			fmt.Fprintln(ev.Stdout(), formatter.Format(e))
			data = map[string]any{"code": e.Code, "message": e.Message}
		}
		ev.Emit(evaluator.TraceFormEnd, &span, data)
	}
	return evaluator.Unit()
}
