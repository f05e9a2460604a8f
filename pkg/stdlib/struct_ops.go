package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// struct {Name field ...} → binds a struct definition under Name → 0
func stdlibStruct(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("struct", args, 1); e != nil {
		return e
	}
	q, e := nonEmptyQexprArg("struct", args, 0)
	if e != nil {
		return e
	}
	syms, e := symbolCells(q, func(i int, got evaluator.Value) evaluator.Value {
		return evaluator.Errorf(diagnostics.EType,
			"Function 'struct' cannot define non-symbol. Got %s, Expected Symbol.", evaluator.TypeName(got))
	})
	if e != nil {
		return e
	}
	def := &evaluator.StructDef{Name: syms[0].Name, Fields: syms[1:]}
	env.Put(def.Name, def)
	return evaluator.NewNumber(0)
}

// make Name {inst v ...} → binds a new instance under inst → 0
//
// Name is normally the evaluated struct definition; a bare symbol naming
// one is accepted too.
func stdlibMake(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("make", args, 2); e != nil {
		return e
	}
	def, e := structArg(env, "make", args[0], 0)
	if e != nil {
		return e
	}
	q, e := nonEmptyQexprArg("make", args, 1)
	if e != nil {
		return e
	}
	name, ok := q.Cells[0].(evaluator.Symbol)
	if !ok {
		return evaluator.ErrType("make", 1, q.Cells[0], "Symbol")
	}
	vals := q.Cells[1:]
	if len(vals) != len(def.Fields) {
		return evaluator.Errorf(diagnostics.EArity,
			"Struct '%s' passed incorrect number of arguments. Got %d, Expected %d.",
			def.Name, len(vals), len(def.Fields))
	}

	env.Put(name.Name, &evaluator.Instance{StructName: def.Name, Fields: vals})
	return evaluator.NewNumber(0)
}

// get {inst field} → a copy of the field's value
func stdlibGet(ev *evaluator.Evaluator, env *evaluator.Env, args []evaluator.Value) evaluator.Value {
	if e := arity("get", args, 1); e != nil {
		return e
	}
	q, e := qexprArg("get", args, 0)
	if e != nil {
		return e
	}
	if len(q.Cells) != 2 {
		return evaluator.ErrArity("get", len(q.Cells), 2)
	}
	instName, ok := q.Cells[0].(evaluator.Symbol)
	if !ok {
		return evaluator.ErrType("get", 0, q.Cells[0], "Symbol")
	}
	field, ok := q.Cells[1].(evaluator.Symbol)
	if !ok {
		return evaluator.ErrType("get", 1, q.Cells[1], "Symbol")
	}

	v := env.Lookup(instName.Name)
	if evaluator.IsError(v) {
		return v
	}
	inst, ok := v.(*evaluator.Instance)
	if !ok {
		return evaluator.ErrType("get", 0, v, "Instance")
	}
	def, e := structArg(env, "get", evaluator.NewSymbol(inst.StructName), 0)
	if e != nil {
		return e
	}

	for i, f := range def.Fields {
		if f.Name == field.Name && i < len(inst.Fields) {
			return inst.Fields[i]
		}
	}
	return evaluator.ErrStructField(inst.StructName, field.Name)
}

// structArg resolves v to a struct definition, looking symbols up in env.
func structArg(env *evaluator.Env, fn string, v evaluator.Value, idx int) (*evaluator.StructDef, evaluator.Value) {
	if s, ok := v.(evaluator.Symbol); ok {
		v = env.Lookup(s.Name)
		if evaluator.IsError(v) {
			return nil, v
		}
	}
	def, ok := v.(*evaluator.StructDef)
	if !ok {
		return nil, evaluator.ErrType(fn, idx, v, "Structure")
	}
	return def, nil
}
