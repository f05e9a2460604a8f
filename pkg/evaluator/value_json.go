package evaluator

import (
	"encoding/json"
)

// ValueToRaw converts a Value into plain data accepted by encoding/json.
// Numbers and strings map to JSON scalars and Q-expressions to arrays. Other
// values become single-purpose objects whose keys keep a fixed order, such as
// {"symbol":"x"} or {"struct":"Point","fields":["x","y"]}.
func ValueToRaw(v Value) any {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case Number:
		return val.Value

	case String:
		return val.Value

	case Symbol:
		return &orderedRecord{pairs: []keyValue{{"symbol", val.Name}}}

	case Error:
		return &orderedRecord{pairs: []keyValue{{"error", val.Message}, {"code", val.Code}}}

	case *QExpr:
		return cellsToRaw(val.Cells)

	case *SExpr:
		return &orderedRecord{pairs: []keyValue{{"sexpr", cellsToRaw(val.Cells)}}}

	case *Builtin:
		return &orderedRecord{pairs: []keyValue{{"builtin", val.Name}}}

	case *Lambda:
		return &orderedRecord{pairs: []keyValue{
			{"lambda", symbolNames(val.Formals)},
			{"body", cellsToRaw(val.Body.Cells)},
		}}

	case *StructDef:
		return &orderedRecord{pairs: []keyValue{
			{"struct", val.Name},
			{"fields", symbolNames(val.Fields)},
		}}

	case *Instance:
		return &orderedRecord{pairs: []keyValue{
			{"instance", val.StructName},
			{"fields", cellsToRaw(val.Fields)},
		}}
	}

	return nil
}

func cellsToRaw(cells []Value) []any {
	items := make([]any, len(cells))
	for i, c := range cells {
		items[i] = ValueToRaw(c)
	}
	return items
}

func symbolNames(syms []Symbol) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	return names
}

type keyValue struct {
	Key   string
	Value any
}

// orderedRecord preserves key order in JSON output.
type orderedRecord struct {
	pairs []keyValue
}

func (o *orderedRecord) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, kv := range o.pairs {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyBytes, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyBytes...)
		buf = append(buf, ':')

		valBytes, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, valBytes...)
	}
	buf = append(buf, '}')
	return buf, nil
}
