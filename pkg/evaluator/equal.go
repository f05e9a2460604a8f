package evaluator

// Equal reports whether a and b are structurally equal. Values of different
// types are never equal. Lambdas compare formals and body but not their
// captured environments.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x.Value == y.Value
	case Error:
		y, ok := b.(Error)
		return ok && x.Message == y.Message
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Name == y.Name
	case String:
		y, ok := b.(String)
		return ok && x.Value == y.Value
	case *SExpr:
		y, ok := b.(*SExpr)
		return ok && equalCells(x.Cells, y.Cells)
	case *QExpr:
		y, ok := b.(*QExpr)
		return ok && equalCells(x.Cells, y.Cells)
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x.Name == y.Name
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && equalSymbols(x.Formals, y.Formals) && equalCells(x.Body.Cells, y.Body.Cells)
	case *StructDef:
		y, ok := b.(*StructDef)
		return ok && x.Name == y.Name && equalSymbols(x.Fields, y.Fields)
	case *Instance:
		y, ok := b.(*Instance)
		return ok && x.StructName == y.StructName && equalCells(x.Fields, y.Fields)
	}
	return false
}

func equalCells(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalSymbols(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
