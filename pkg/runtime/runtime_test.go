package runtime

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
	"github.com/thomasrohde/lispy/pkg/formatter"
	"github.com/thomasrohde/lispy/pkg/loader"
	"github.com/thomasrohde/lispy/pkg/stdlib"
)

func newRuntime(t *testing.T, opts ...Option) (*Runtime, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithStdout(&out)}, opts...)
	return New(opts...), &out
}

// evalTo evaluates source and returns the printed form of its last value.
func evalTo(t *testing.T, rt *Runtime, source string) string {
	t.Helper()
	v, err := rt.EvalString(source, "test.lspy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return formatter.Format(v)
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"addition", "(+ 1 2 3)", "6"},
		{"nested arithmetic", "(* (+ 1 2) (- 10 4))", "18"},
		{"negation", "(- 5)", "-5"},
		{"truncating division", "(/ -7 2)", "-3"},
		{"division by zero", "(/ 10 0)", "Error: Division By Zero."},
		{"unbound symbol", "(foo 1)", "Error: Unbound Symbol 'foo'"},
		{"quoted list", "{1 2 (+ 1 2)}", "{1 2 (+ 1 2)}"},
		{"list round trip", "(join (rest {1 2 3}) (list (first {1 2 3})))", "{2 3 1}"},
		{"eval list", "(eval {+ 1 2})", "3"},
		{"eval head", "(eval (first {(+ 1 2)}))", "3"},
		{"cons", "(cons 0 {1 2})", "{0 1 2}"},
		{"length", "(length {1 2 3})", "3"},
		{"empty binding", "(empty? empty)", "1"},
		{"eq numbers", "(eq? 1 1)", "1"},
		{"eq lists", "(eq? {1 {2}} {1 {2}})", "1"},
		{"ne strings", `(!= "a" 'a)`, "0"},
		{"eq lambdas", "(eq? (lambda {x} {x}) (lambda {x} {x}))", "1"},
		{"lambdas differ by body", "(eq? (lambda {x} {x}) (lambda {x} {+ x 0}))", "0"},
		{"ordering", "(list (> 2 1) (< 2 1) (>= 1 1) (<= 2 1))", "{1 0 1 0}"},
		{"logic", "(list (and 1 1) (and 1 0) (or 0 2) (not 0))", "{1 0 1 1}"},
		{"predicates", `(list (integer? 1) (qexpr? {}) (string? "s") (zero? 0))`, "{1 1 1 1}"},
		{"if else", "(if {(> 1 2) 'no} {else 'yes})", `"yes"`},
		{"if no match", "(if {0 1})", "()"},
		{"user error", `(error "boom")`, "Error: boom"},
		{"empty program", "", "()"},
		{"comment only", "; nothing here", "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _ := newRuntime(t)
			if got := evalTo(t, rt, tt.source); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFuncDefinesNamedFunction(t *testing.T) {
	rt, _ := newRuntime(t)
	got := evalTo(t, rt, `
		(func {add a b} {+ a b})
		(add 2 3)`)
	if got != "5" {
		t.Errorf("got %s, want 5", got)
	}
}

func TestCurrying(t *testing.T) {
	rt, _ := newRuntime(t)
	got := evalTo(t, rt, `
		(func {add a b} {+ a b})
		(def {inc} (add 1))
		(list (inc 41) ((add 1) 41) (add 1 41))`)
	if got != "{42 42 42}" {
		t.Errorf("got %s, want {42 42 42}", got)
	}
}

func TestVariadicFunction(t *testing.T) {
	rt, _ := newRuntime(t)
	got := evalTo(t, rt, `
		(func {pack f & xs} {f xs})
		(list (pack length 1 2 3) (pack eval))`)
	if got != "{3 ()}" {
		t.Errorf("got %s", got)
	}
}

func TestRecursion(t *testing.T) {
	rt, _ := newRuntime(t)
	got := evalTo(t, rt, `
		(func {fact n} {if {(<= n 1) 1} {else (* n (fact (- n 1)))}})
		(fact 10)`)
	if got != "3628800" {
		t.Errorf("got %s, want 3628800", got)
	}
}

func TestDefIsGlobalAssignIsLocal(t *testing.T) {
	rt, _ := newRuntime(t)
	results, err := rt.Eval(`
		(def {x} 1)
		(func {set-global _} {def {x} 2})
		(func {set-local _} {= {y} 3})
		(set-global 0)
		(set-local 0)
		x
		y`, "test.lspy")
	if err != nil {
		t.Fatal(err)
	}
	n := len(results)
	if got := formatter.Format(results[n-2]); got != "2" {
		t.Errorf("def inside a function should rebind the global x, got %s", got)
	}
	if got := formatter.Format(results[n-1]); got != "Error: Unbound Symbol 'y'" {
		t.Errorf("= inside a function should not leak y, got %s", got)
	}
}

func TestAssignUpdatesEnclosingBinding(t *testing.T) {
	rt, _ := newRuntime(t)
	got := evalTo(t, rt, `
		(def {counter} 0)
		(func {bump _} {= {counter} (+ counter 1)})
		(bump 0)
		(bump 0)
		counter`)
	if got != "2" {
		t.Errorf("got %s, want 2", got)
	}
}

func TestStructs(t *testing.T) {
	rt, _ := newRuntime(t)
	got := evalTo(t, rt, `
		(struct {point x y})
		(make point {p 3 4})
		(list (get {p x}) (get {p y}))`)
	if got != "{3 4}" {
		t.Errorf("got %s, want {3 4}", got)
	}

	got = evalTo(t, rt, "(get {p z})")
	if got != "Error: Struct 'point' has no attribute 'z'." {
		t.Errorf("got %s", got)
	}

	got = evalTo(t, rt, "(make point {q 1})")
	if got != "Error: Struct 'point' passed incorrect number of arguments. Got 1, Expected 2." {
		t.Errorf("got %s", got)
	}
}

func TestFirstErrorWins(t *testing.T) {
	rt, out := newRuntime(t)
	got := evalTo(t, rt, `(list (/ 1 0) (print "evaluated") (error "second"))`)
	if got != "Error: Division By Zero." {
		t.Errorf("got %s", got)
	}
	if out.String() != "\"evaluated\"\n" {
		t.Errorf("arguments are all evaluated before the first error is returned, got output %q", out.String())
	}
}

func TestPrint(t *testing.T) {
	rt, out := newRuntime(t)
	got := evalTo(t, rt, `(print 1 "two" {3 'four} (lambda {x} {x}))`)
	if got != "()" {
		t.Errorf("print should return (), got %s", got)
	}
	want := `1 "two" {3 "four"} (lambda {x} {x})` + "\n"
	if out.String() != want {
		t.Errorf("got output %q, want %q", out.String(), want)
	}
}

func TestEvalReturnsEveryForm(t *testing.T) {
	rt, _ := newRuntime(t)
	results, err := rt.Eval("(def {a} 1) a (+ a b) 7", "test.lspy")
	if err != nil {
		t.Fatal(err)
	}
	if got := formatter.FormatAll(results); got != "() 1 Error: Unbound Symbol 'b' 7" {
		t.Errorf("got %s", got)
	}
}

func TestEvalLineIsOneExpression(t *testing.T) {
	rt, _ := newRuntime(t)
	tests := []struct {
		line string
		want string
	}{
		{"+ 1 2", "3"},
		{"(+ 1 2)", "3"},
		{"def {x} 5", "()"},
		{"x", "5"},
		{"* x (- 1 3)", "-10"},
		{"list 1 2", "{1 2}"},
		{"", "()"},
	}
	for _, tt := range tests {
		v, err := rt.EvalLine(tt.line, "<stdin>")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.line, err)
		}
		if got := formatter.Format(v); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestEvalLineFirstErrorWins(t *testing.T) {
	rt, out := newRuntime(t)
	v, err := rt.EvalLine("(print 1) (error 'x)", "<stdin>")
	if err != nil {
		t.Fatal(err)
	}
	if got := formatter.Format(v); got != "Error: x" {
		t.Errorf("got %s", got)
	}
	if out.String() != "1\n" {
		t.Errorf("got output %q", out.String())
	}
}

func TestEvalLineTracesOneForm(t *testing.T) {
	var events []evaluator.TraceEvent
	rt, _ := newRuntime(t,
		WithTrace(func(ev evaluator.TraceEvent) { events = append(events, ev) }))

	if _, err := rt.EvalLine("/ 1 0", "<stdin>"); err != nil {
		t.Fatal(err)
	}

	counts := map[evaluator.TraceEventType]int{}
	for _, ev := range events {
		counts[ev.Event]++
	}
	if counts[evaluator.TraceFormStart] != 1 || counts[evaluator.TraceFormEnd] != 1 {
		t.Errorf("expected one form, got %v", counts)
	}
	last := events[len(events)-1]
	if last.Event != evaluator.TraceRunEnd || last.Data["forms"] != 1 || last.Data["errors"] != 1 {
		t.Errorf("unexpected final event %+v", last)
	}
}

func TestUntracedEvalEmitsNothing(t *testing.T) {
	rt, _ := newRuntime(t)
	if rt.Evaluator().Tracing() {
		t.Fatal("expected no trace callback by default")
	}
	if got := evalTo(t, rt, "(+ 1 2) (list 1 {2})"); got != "{1 {2}}" {
		t.Errorf("got %s", got)
	}
}

func TestParseErrorRunsNothing(t *testing.T) {
	rt, out := newRuntime(t)
	_, err := rt.Eval(`(print 1) (print 2`, "test.lspy")
	var de *DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DiagnosticError, got %v", err)
	}
	if de.Diagnostics[0].Code != diagnostics.EParse {
		t.Errorf("expected %s, got %s", diagnostics.EParse, de.Diagnostics[0].Code)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"lib/prelude.lspy": {Data: []byte(`
			; helpers
			(func {double x} {* 2 x})
			(undefined-thing)
			(print (double 21))`)},
		"lib/broken.lspy": {Data: []byte("(+ 1")},
	}
	rt, out := newRuntime(t, WithLoader(loader.FSLoader{FS: fsys}))

	if got := evalTo(t, rt, `(load "lib/prelude.lspy")`); got != "()" {
		t.Errorf("load result: got %s", got)
	}
	wantOut := "Error: Unbound Symbol 'undefined-thing'\n42\n"
	if out.String() != wantOut {
		t.Errorf("got output %q, want %q", out.String(), wantOut)
	}
	if got := evalTo(t, rt, "(double 5)"); got != "10" {
		t.Errorf("definitions from a loaded file should persist, got %s", got)
	}

	got := evalTo(t, rt, `(load "lib/broken.lspy")`)
	if !strings.HasPrefix(got, "Error: Could not load Library") {
		t.Errorf("got %s", got)
	}
	got = evalTo(t, rt, `(load "missing.lspy")`)
	if !strings.HasPrefix(got, "Error: Could not load Library") {
		t.Errorf("got %s", got)
	}
}

func TestLoadWithoutLoader(t *testing.T) {
	rt, _ := newRuntime(t)
	v := rt.LoadFile("anything.lspy")
	e, ok := v.(evaluator.Error)
	if !ok {
		t.Fatalf("expected Error, got %s", formatter.Format(v))
	}
	if e.Code != diagnostics.EIO {
		t.Errorf("expected %s, got %s", diagnostics.EIO, e.Code)
	}
}

func TestTraceEvents(t *testing.T) {
	var events []evaluator.TraceEvent
	rt, _ := newRuntime(t,
		WithRunID("run-1"),
		WithTrace(func(ev evaluator.TraceEvent) { events = append(events, ev) }))

	if _, err := rt.Eval("(+ 1 2) (/ 1 0)", "trace.lspy"); err != nil {
		t.Fatal(err)
	}

	counts := map[evaluator.TraceEventType]int{}
	for _, ev := range events {
		counts[ev.Event]++
		if ev.RunID != "run-1" {
			t.Errorf("event %s has run id %q", ev.Event, ev.RunID)
		}
	}
	if counts[evaluator.TraceRunStart] != 1 || counts[evaluator.TraceRunEnd] != 1 {
		t.Errorf("expected one run_start and one run_end, got %v", counts)
	}
	if counts[evaluator.TraceFormStart] != 2 || counts[evaluator.TraceFormEnd] != 2 {
		t.Errorf("expected two forms, got %v", counts)
	}
	if counts[evaluator.TraceError] != 1 {
		t.Errorf("expected one error event, got %v", counts)
	}

	last := events[len(events)-1]
	if last.Event != evaluator.TraceRunEnd || last.Data["errors"] != 1 {
		t.Errorf("unexpected final event %+v", last)
	}
}

func TestCheck(t *testing.T) {
	rt := New()
	if diags := rt.Check("(func {f x} {x})", "ok.lspy"); len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	diags := rt.Check("(lambda {x &} {x})", "bad.lspy")
	if len(diags) != 1 || diags[0].Code != diagnostics.ERestParam {
		t.Errorf("expected one %s, got %v", diagnostics.ERestParam, diags)
	}
	diags = rt.Check("(+ 1", "bad.lspy")
	if len(diags) != 1 || diags[0].Code != diagnostics.EParse {
		t.Errorf("expected one %s, got %v", diagnostics.EParse, diags)
	}
}

func TestFormat(t *testing.T) {
	rt := New()
	got, err := rt.Format("(def   {x}\n 1)   (+  x  2)", "fmt.lspy")
	if err != nil {
		t.Fatal(err)
	}
	if got != "(def {x} 1)\n(+ x 2)\n" {
		t.Errorf("got %q", got)
	}
	if _, err := rt.Format("(+ 1", "fmt.lspy"); err == nil {
		t.Error("expected an error for unparsable source")
	}
}

func TestCustomStdlib(t *testing.T) {
	rt := New(WithStdlib(stdlib.NewRegistry()))
	v, err := rt.EvalString("(+ 1 2)", "test.lspy")
	if err != nil {
		t.Fatal(err)
	}
	if !evaluator.IsError(v) {
		t.Errorf("expected + to be unbound, got %s", formatter.Format(v))
	}
	if rt.Env().Has("func") {
		t.Error("func should not be defined without def and lambda")
	}
}
