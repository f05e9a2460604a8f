package stdlib

import (
	"bytes"
	"testing"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
	"github.com/thomasrohde/lispy/pkg/formatter"
	"github.com/thomasrohde/lispy/pkg/parser"
)

type harness struct {
	ev  *evaluator.Evaluator
	env *evaluator.Env
	out *bytes.Buffer
}

func newHarness() *harness {
	out := &bytes.Buffer{}
	env := evaluator.NewEnv(nil)
	Defaults().Install(env)
	return &harness{
		ev:  evaluator.New(evaluator.Options{Stdout: out}),
		env: env,
		out: out,
	}
}

// run evaluates every form of source and returns the last result.
func (h *harness) run(t *testing.T, source string) evaluator.Value {
	t.Helper()
	root, diags := parser.Parse(source, "test.lspy")
	if len(diags) > 0 {
		t.Fatalf("parse error: %s", diagnostics.Summary(diags))
	}
	var v evaluator.Value = evaluator.Unit()
	for _, form := range evaluator.ReadForms(root) {
		v = h.ev.Eval(h.env, form)
	}
	return v
}

func expectValue(t *testing.T, source, want string) {
	t.Helper()
	if got := formatter.Format(newHarness().run(t, source)); got != want {
		t.Errorf("%s: got %s, want %s", source, got, want)
	}
}

func expectError(t *testing.T, source, code, message string) {
	t.Helper()
	v := newHarness().run(t, source)
	e, ok := v.(evaluator.Error)
	if !ok {
		t.Fatalf("%s: expected error, got %s", source, formatter.Format(v))
	}
	if e.Code != code {
		t.Errorf("%s: expected code %s, got %s", source, code, e.Code)
	}
	if message != "" && e.Message != message {
		t.Errorf("%s: expected message %q, got %q", source, message, e.Message)
	}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(Fn{Name: "b", Execute: stdlibList})
	r.Register(Fn{Name: "a", Execute: stdlibList})
	r.Register(Fn{Name: "b", Execute: stdlibFirst})

	names := r.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("got %v", names)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for an unregistered name")
	}
}

func TestDefaultsInstallBuiltins(t *testing.T) {
	env := evaluator.NewEnv(nil)
	reg := Defaults()
	reg.Install(env)
	for _, name := range reg.Names() {
		v, ok := env.Get(name)
		if !ok {
			t.Errorf("%s not installed", name)
			continue
		}
		b, ok := v.(*evaluator.Builtin)
		if !ok || b.Name != name {
			t.Errorf("%s: got %s", name, formatter.Format(v))
		}
	}
}

// A one-element S-expression evaluates to its element, so builtins are
// never called with zero arguments from source.
func TestSingleElementIsNotACall(t *testing.T) {
	expectValue(t, "(list)", "<builtin>")
	expectValue(t, "(+)", "<builtin>")
}

func TestZeroArgumentCalls(t *testing.T) {
	h := newHarness()
	cases := []struct {
		name string
		want string
	}{
		{"list", "{}"},
		{"join", "{}"},
		{"and", "1"},
		{"or", "0"},
		{"if", "()"},
	}
	for _, c := range cases {
		fn := h.env.Lookup(c.name)
		if got := formatter.Format(h.ev.Call(h.env, fn, nil)); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
	for _, name := range []string{"+", "def"} {
		v := h.ev.Call(h.env, h.env.Lookup(name), nil)
		if e, ok := v.(evaluator.Error); !ok || e.Code != diagnostics.EArity {
			t.Errorf("%s: expected arity error, got %s", name, formatter.Format(v))
		}
	}
}

func TestListOps(t *testing.T) {
	expectValue(t, "(list 1 (+ 1 1) {3})", "{1 2 {3}}")
	expectValue(t, "(first {{1 2} 3})", "{1 2}")
	expectValue(t, "(rest {1})", "{}")
	expectValue(t, "(last {1 2 3})", "3")
	expectValue(t, "(join {1} {} {2 3})", "{1 2 3}")
	expectValue(t, "(cons {0} {1})", "{{0} 1}")
	expectValue(t, "(eval 5)", "5")
	expectValue(t, "(eval {})", "()")
	expectValue(t, "(empty? {1})", "0")
}

func TestListOpErrors(t *testing.T) {
	expectError(t, "(first {})", diagnostics.EEmpty, "Function 'first' passed {} for argument 0.")
	expectError(t, "(rest 1)", diagnostics.EType,
		"Function 'rest' passed incorrect type for argument 0. Got Number, Expected Q-Expression.")
	expectError(t, "(last {1} {2})", diagnostics.EArity,
		"Function 'last' passed incorrect number of arguments. Got 2, Expected 1.")
	expectError(t, "(length {})", diagnostics.EEmpty, "")
	expectError(t, "(join {1} 2)", diagnostics.EType,
		"Function 'join' passed incorrect type for argument 1. Got Number, Expected Q-Expression.")
	expectError(t, "(cons 1 2)", diagnostics.EType, "")
}

func TestArithmetic(t *testing.T) {
	expectValue(t, "(+ 5)", "5")
	expectValue(t, "(- 10 1 2)", "7")
	expectValue(t, "(* 2 3 4)", "24")
	expectValue(t, "(/ 100 3 3)", "11")
	expectError(t, "(/ 1 2 0)", diagnostics.EDivZero, "Division By Zero.")
	expectError(t, `(+ 1 "2")`, diagnostics.EType,
		"Function '+' passed incorrect type for argument 1. Got String, Expected Number.")
}

func TestComparison(t *testing.T) {
	expectValue(t, "(eq? {} {})", "1")
	expectValue(t, "(eq? 1 {1})", "0")
	expectValue(t, "(eq? + +)", "1")
	expectValue(t, "(!= 1 2)", "1")
	expectError(t, "(> 1)", diagnostics.EArity, "")
	expectError(t, "(< {} 1)", diagnostics.EType, "")
}

func TestLogic(t *testing.T) {
	expectValue(t, "(or 0 -1)", "1")
	expectValue(t, "(not 5)", "0")
	expectValue(t, "(zero? 5)", "0")
	expectError(t, "(not {})", diagnostics.EType, "")
	expectError(t, "(and 1 'x)", diagnostics.EType, "")
}

func TestTypePredicates(t *testing.T) {
	expectValue(t, "(integer? {1})", "0")
	expectValue(t, `(qexpr? "a")`, "0")
	expectValue(t, "(string? 'abc)", "1")
	expectError(t, "(integer? 1 2)", diagnostics.EArity, "")
}

func TestIntIsIntegerAlias(t *testing.T) {
	expectValue(t, "(int 7)", "1")
	expectValue(t, "(int 'seven)", "0")
	expectValue(t, "(eq? (int {}) (integer? {}))", "1")
}

func TestIf(t *testing.T) {
	expectValue(t, "(if {1 'a} {1 'b})", `"a"`)
	expectValue(t, "(if {0 'a} {(+ 1 1) 'b})", `"b"`)
	expectValue(t, "(if {0 'a} {else {x}})", "{x}")
	expectError(t, "(if 1)", diagnostics.EType, "")
	expectError(t, "(if {1})", diagnostics.EArity,
		"Function 'if' passed incorrect number of elements for clause 0. Got 1, Expected 2.")
	expectError(t, "(if {else 1} {1 2})", diagnostics.EType,
		"Function 'if' condition passed incorrect type. Got Symbol, Expected Number or S-Expression.")
	expectError(t, "(if {0 1} {'s 2})", diagnostics.EType,
		"Function 'if' condition passed incorrect type. Got String, Expected Number, S-Expression or 'else'.")
	expectError(t, "(if {(list 1) 2})", diagnostics.EType,
		"Function 'if' passed incorrect type for argument 0. Got Q-Expression, Expected Number.")
	expectError(t, "(if {(/ 1 0) 2})", diagnostics.EDivZero, "")
}

func TestIfValidatesEveryClauseFirst(t *testing.T) {
	h := newHarness()
	v := h.run(t, `(if {1 (print 'ran)} {1})`)
	if !evaluator.IsError(v) {
		t.Fatalf("expected error, got %s", formatter.Format(v))
	}
	if h.out.Len() != 0 {
		t.Errorf("no clause should run when a later clause is malformed, got %q", h.out.String())
	}
}

func TestLambdaErrors(t *testing.T) {
	expectError(t, "(lambda {x 1} {x})", diagnostics.EType,
		"Cannot define a non-symbol. Got Number, Expected Symbol.")
	expectError(t, "(lambda {x})", diagnostics.EArity, "")
	expectError(t, "(lambda 1 {x})", diagnostics.EType, "")
}

func TestDefAndAssign(t *testing.T) {
	expectValue(t, "(def {a b} 1 2) (+ a b)", "3")
	expectValue(t, "(= {a} 5) a", "5")
	expectValue(t, "(def {f} (lambda {x} {* x x})) (f 4)", "16")
	expectError(t, "(def {a b} 1)", diagnostics.EArity,
		"Function 'def' passed incorrect number of values for symbols. Got 1, Expected 2.")
	expectError(t, "(= {1} 1)", diagnostics.EType,
		"Function '=' cannot define non-symbol. Got Number, Expected Symbol.")
}

func TestStructOps(t *testing.T) {
	expectValue(t, "(struct {pair a b})", "0")
	expectValue(t, "(struct {pair a b}) (make pair {p 1 {2}}) (get {p b})", "{2}")
	expectValue(t, "(struct {unit}) (make unit {u}) (integer? 1)", "1")
	expectError(t, "(struct {})", diagnostics.EEmpty, "")
	expectError(t, "(struct {pair 1})", diagnostics.EType, "")
	expectError(t, "(make 1 {p})", diagnostics.EType, "")
	expectError(t, "(struct {pair a}) (make pair {})", diagnostics.EEmpty, "")
	expectError(t, "(struct {pair a}) (make pair {1 2})", diagnostics.EType, "")
	expectError(t, "(get {nothing a})", diagnostics.EUnbound, "")
	expectError(t, "(def {n} 1) (get {n a})", diagnostics.EType, "")
	expectError(t, "(get {p})", diagnostics.EArity, "")
}

func TestGetReturnsCopy(t *testing.T) {
	h := newHarness()
	v := h.run(t, `
		(struct {box v})
		(make box {b {1 2}})
		(def {inner} (get {b v}))
		(= {inner} (cons 0 inner))
		(get {b v})`)
	if got := formatter.Format(v); got != "{1 2}" {
		t.Errorf("got %s, want {1 2}", got)
	}
}

func TestPrintAndError(t *testing.T) {
	h := newHarness()
	v := h.run(t, `(print {})`)
	if formatter.Format(v) != "()" || h.out.String() != "{}\n" {
		t.Errorf("got %s and output %q", formatter.Format(v), h.out.String())
	}
	expectError(t, `(error "bad thing")`, diagnostics.EUser, "bad thing")
	expectError(t, "(error 1)", diagnostics.EType, "")
	expectError(t, "(load 1)", diagnostics.EType, "")
}
