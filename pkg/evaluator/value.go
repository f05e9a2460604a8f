// Package evaluator implements the Lispy value model, environments and the
// evaluation/application core.
package evaluator

// Value is the interface for all Lispy runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	lvalue() // sealed marker
}

// Number is a signed 64-bit integer.
type Number struct {
	Value int64
}

func (Number) lvalue() {}

// Error is a first-class error value. It is returned, never raised.
// Code is one of the diagnostics codes and names the kind of failure.
type Error struct {
	Code    string
	Message string
}

func (Error) lvalue() {}

// Symbol is an identifier resolved against the environment on evaluation.
type Symbol struct {
	Name string
}

func (Symbol) lvalue() {}

// String is a text value.
type String struct {
	Value string
}

func (String) lvalue() {}

// SExpr is an expression sequence awaiting evaluation. The empty SExpr is the
// unit value returned by definitions and printing.
type SExpr struct {
	Cells []Value
}

func (*SExpr) lvalue() {}

// QExpr is a quoted sequence; the language's list type. It is never
// evaluated implicitly.
type QExpr struct {
	Cells []Value
}

func (*QExpr) lvalue() {}

// BuiltinFunc is the native implementation of a builtin. It owns args and
// may reuse their cells in its result.
type BuiltinFunc func(ev *Evaluator, env *Env, args []Value) Value

// Builtin is a native function. Two builtins are equal when their names are.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (*Builtin) lvalue() {}

// Lambda is a user-defined function. Formals shrink as arguments are bound,
// so a partially applied lambda carries only the formals still awaited.
// Env is private to the lambda value.
type Lambda struct {
	Formals []Symbol
	Body    *QExpr
	Env     *Env
}

func (*Lambda) lvalue() {}

// StructDef is a named record schema.
type StructDef struct {
	Name   string
	Fields []Symbol
}

func (*StructDef) lvalue() {}

// Instance is a record conforming to the StructDef named StructName.
type Instance struct {
	StructName string
	Fields     []Value
}

func (*Instance) lvalue() {}

// NewNumber creates a number value.
func NewNumber(n int64) Value {
	return Number{Value: n}
}

// NewSymbol creates a symbol value.
func NewSymbol(name string) Value {
	return Symbol{Name: name}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// NewSExpr creates an S-expression from cells.
func NewSExpr(cells ...Value) *SExpr {
	return &SExpr{Cells: cells}
}

// NewQExpr creates a Q-expression from cells.
func NewQExpr(cells ...Value) *QExpr {
	return &QExpr{Cells: cells}
}

// Unit returns the empty S-expression.
func Unit() Value {
	return &SExpr{}
}

// NewLambda creates a lambda with a fresh, parentless environment.
func NewLambda(formals []Symbol, body *QExpr) *Lambda {
	return &Lambda{Formals: formals, Body: body, Env: NewEnv(nil)}
}

// Bool converts a Go condition to the language's 1/0 truth values.
func Bool(b bool) Value {
	if b {
		return Number{Value: 1}
	}
	return Number{Value: 0}
}

// IsError reports whether v is an Error value.
func IsError(v Value) bool {
	_, ok := v.(Error)
	return ok
}


// TypeName returns the name used for v's type in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Number:
		return "Number"
	case Error:
		return "Error"
	case Symbol:
		return "Symbol"
	case String:
		return "String"
	case *SExpr:
		return "S-Expression"
	case *QExpr:
		return "Q-Expression"
	case *Builtin, *Lambda:
		return "Function"
	case *StructDef:
		return "Structure"
	case *Instance:
		return "Instance"
	default:
		return "Unknown"
	}
}

// IsFunction reports whether v can be applied.
func IsFunction(v Value) bool {
	switch v.(type) {
	case *Builtin, *Lambda:
		return true
	}
	return false
}

// Copy returns a deep copy of v that shares no mutable state with it.
// Builtins are immutable and shared. A lambda's environment is copied
// one frame deep; its parent link is shared.
func Copy(v Value) Value {
	switch val := v.(type) {
	case *SExpr:
		return &SExpr{Cells: copyCells(val.Cells)}
	case *QExpr:
		return &QExpr{Cells: copyCells(val.Cells)}
	case *Lambda:
		return &Lambda{
			Formals: append([]Symbol(nil), val.Formals...),
			Body:    &QExpr{Cells: copyCells(val.Body.Cells)},
			Env:     val.Env.Copy(),
		}
	case *StructDef:
		return &StructDef{Name: val.Name, Fields: append([]Symbol(nil), val.Fields...)}
	case *Instance:
		return &Instance{StructName: val.StructName, Fields: copyCells(val.Fields)}
	default:
		// Number, Error, Symbol, String are immutable values; *Builtin is shared.
		return v
	}
}

func copyCells(cells []Value) []Value {
	if cells == nil {
		return nil
	}
	out := make([]Value, len(cells))
	for i, c := range cells {
		out[i] = Copy(c)
	}
	return out
}
