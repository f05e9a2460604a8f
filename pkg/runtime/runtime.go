// Package runtime provides the top-level Lispy runtime orchestrator.
package runtime

import (
	"fmt"
	"io"
	"strings"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
	"github.com/thomasrohde/lispy/pkg/formatter"
	"github.com/thomasrohde/lispy/pkg/parser"
	"github.com/thomasrohde/lispy/pkg/stdlib"
	"github.com/thomasrohde/lispy/pkg/validator"
)

// prelude is evaluated in every new global environment. func defines a
// named function: (func {name args...} {body}).
const prelude = `(def {func} (lambda {args body} {def (list (first args)) (lambda (rest args) body)}))`

// Runtime wires together all Lispy components. A Runtime owns one global
// environment; definitions persist across calls to Eval and LoadFile.
type Runtime struct {
	stdlib *stdlib.Registry
	stdout io.Writer
	loader evaluator.SourceLoader
	runID  string
	trace  func(event evaluator.TraceEvent)

	ev  *evaluator.Evaluator
	env *evaluator.Env
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithStdlib sets the builtin registry.
func WithStdlib(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.stdlib = r
	}
}

// WithStdout sets the writer that receives program output.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithLoader sets the source loader used by load.
func WithLoader(l evaluator.SourceLoader) Option {
	return func(rt *Runtime) {
		rt.loader = l
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a new Runtime with the given options.
// By default every builtin is installed and load has no source loader.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		stdlib: stdlib.Defaults(),
		runID:  "cli",
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.ev = evaluator.New(evaluator.Options{
		Stdout: rt.stdout,
		Loader: rt.loader,
		Trace:  rt.trace,
		RunID:  rt.runID,
	})
	rt.env = evaluator.NewEnv(nil)
	rt.stdlib.Install(rt.env)
	rt.env.Put("empty", evaluator.NewQExpr())

	if rt.env.Has("def") && rt.env.Has("lambda") {
		root, _ := parser.Parse(prelude, "<prelude>")
		for _, form := range evaluator.ReadForms(root) {
			rt.ev.Eval(rt.env, form)
		}
	}
	return rt
}

// Env returns the global environment.
func (rt *Runtime) Env() *evaluator.Env {
	return rt.env
}

// Evaluator returns the runtime's evaluator.
func (rt *Runtime) Evaluator() *evaluator.Evaluator {
	return rt.ev
}

// Eval parses source and evaluates each top-level form in the global
// environment, returning one result per form. Error values are results, not
// Go errors: evaluation continues with the next form. The returned error is
// non-nil only when source does not parse, in which case nothing runs.
func (rt *Runtime) Eval(source, filename string) ([]evaluator.Value, error) {
	root, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	rt.ev.Emit(evaluator.TraceRunStart, nil, map[string]any{"file": filename})

	forms := evaluator.ReadProgram(root)
	results := make([]evaluator.Value, 0, len(forms))
	errCount := 0
	for _, form := range forms {
		v := rt.evalForm(form.Value, form.Span)
		if evaluator.IsError(v) {
			errCount++
		}
		results = append(results, v)
	}

	rt.ev.Emit(evaluator.TraceRunEnd, nil, map[string]any{
		"forms":  len(forms),
		"errors": errCount,
	})
	return results, nil
}

// EvalLine evaluates a whole line of input as one S-expression, the way the
// REPL reads it: "+ 1 2" is a call and yields 3.
func (rt *Runtime) EvalLine(source, filename string) (evaluator.Value, error) {
	root, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	rt.ev.Emit(evaluator.TraceRunStart, nil, map[string]any{"file": filename})
	v := rt.evalForm(evaluator.Read(root), root.Span)
	errCount := 0
	if evaluator.IsError(v) {
		errCount = 1
	}
	rt.ev.Emit(evaluator.TraceRunEnd, nil, map[string]any{
		"forms":  1,
		"errors": errCount,
	})
	return v, nil
}

func (rt *Runtime) evalForm(form evaluator.Value, span ast.Span) evaluator.Value {
	rt.ev.Emit(evaluator.TraceFormStart, &span, nil)
	v := rt.ev.Eval(rt.env, form)
	if rt.ev.Tracing() {
		data := map[string]any{"result": evaluator.ValueToRaw(v)}
		if e, ok := v.(evaluator.Error); ok {
			data["code"] = e.Code
		}
		rt.ev.Emit(evaluator.TraceFormEnd, &span, data)
	}
	return v
}

// EvalString evaluates source and returns the value of its last form, or ()
// when source holds no forms.
func (rt *Runtime) EvalString(source, filename string) (evaluator.Value, error) {
	results, err := rt.Eval(source, filename)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return evaluator.Unit(), nil
	}
	return results[len(results)-1], nil
}

// LoadFile evaluates the file at path as the load builtin does: errors of
// individual forms are printed and do not stop the file. The result is an
// Error only when the file could not be read or parsed.
func (rt *Runtime) LoadFile(path string) evaluator.Value {
	rt.ev.Emit(evaluator.TraceRunStart, nil, map[string]any{"file": path})
	v := stdlib.Load(rt.ev, rt.env, path)
	data := map[string]any{}
	if e, ok := v.(evaluator.Error); ok {
		data["code"] = e.Code
		data["message"] = e.Message
	}
	rt.ev.Emit(evaluator.TraceRunEnd, nil, data)
	return v
}

// Check parses and validates a Lispy program without executing it.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	root, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	return validator.Validate(root)
}

// Format parses and pretty-prints a Lispy program.
func (rt *Runtime) Format(source, filename string) (string, error) {
	root, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.FormatSource(root), nil
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
