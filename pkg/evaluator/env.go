package evaluator

// Env is a scope of ordered bindings chained to a parent scope.
// Values are copied on the way in and on the way out, so no two bindings
// ever share mutable state.
type Env struct {
	syms   []string
	vals   []Value
	index  map[string]int
	parent *Env
}

// NewEnv creates a new environment with an optional parent scope.
func NewEnv(parent *Env) *Env {
	return &Env{
		index:  make(map[string]int),
		parent: parent,
	}
}

// Parent returns the enclosing scope, or nil for the root.
func (e *Env) Parent() *Env {
	return e.parent
}

// SetParent relinks the scope.
func (e *Env) SetParent(p *Env) {
	e.parent = p
}

// Root returns the outermost scope of the chain.
func (e *Env) Root() *Env {
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Get looks up a symbol, traversing parent scopes, and returns a copy of
// its value.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if i, ok := s.index[name]; ok {
			return Copy(s.vals[i]), true
		}
	}
	return nil, false
}

// Lookup is Get with an unbound symbol reported as an Error value.
func (e *Env) Lookup(name string) Value {
	if v, ok := e.Get(name); ok {
		return v
	}
	return ErrUnbound(name)
}

// Has checks whether a symbol is defined in this scope or any parent.
func (e *Env) Has(name string) bool {
	return e.frameOf(name) != nil
}

// HasLocal checks this scope only.
func (e *Env) HasLocal(name string) bool {
	_, ok := e.index[name]
	return ok
}

// Put binds a copy of v in this scope, replacing any local binding.
func (e *Env) Put(name string, v Value) {
	v = Copy(v)
	if i, ok := e.index[name]; ok {
		e.vals[i] = v
		return
	}
	e.index[name] = len(e.syms)
	e.syms = append(e.syms, name)
	e.vals = append(e.vals, v)
}

// Def binds a copy of v in the root scope.
func (e *Env) Def(name string, v Value) {
	e.Root().Put(name, v)
}

// Assign rebinds name in the nearest scope that defines it, or binds it in
// this scope when no scope does.
func (e *Env) Assign(name string, v Value) {
	if s := e.frameOf(name); s != nil {
		s.Put(name, v)
		return
	}
	e.Put(name, v)
}

func (e *Env) frameOf(name string) *Env {
	for s := e; s != nil; s = s.parent {
		if s.HasLocal(name) {
			return s
		}
	}
	return nil
}

// Copy duplicates this scope's bindings. The parent is shared.
func (e *Env) Copy() *Env {
	if e == nil {
		return NewEnv(nil)
	}
	c := &Env{
		syms:   append([]string(nil), e.syms...),
		vals:   make([]Value, len(e.vals)),
		index:  make(map[string]int, len(e.index)),
		parent: e.parent,
	}
	for i, v := range e.vals {
		c.vals[i] = Copy(v)
	}
	for k, i := range e.index {
		c.index[k] = i
	}
	return c
}

// Symbols returns the names bound in this scope in definition order.
func (e *Env) Symbols() []string {
	return append([]string(nil), e.syms...)
}

// Len returns the number of local bindings.
func (e *Env) Len() int {
	return len(e.syms)
}
