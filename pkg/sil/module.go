package sil

// Module owns every function in a compilation unit. Functions keep their
// creation order; the index only serves name lookups.
type Module struct {
	Name string

	funcs  []*Function
	byName map[string]*Function
}

func NewModule(name string) *Module {
	return &Module{
		Name:   name,
		byName: make(map[string]*Function),
	}
}

// Functions returns the module's functions in definition order. The slice is
// shared; callers must not reorder it.
func (m *Module) Functions() []*Function { return m.funcs }

// Lookup returns the function with the given name, or nil.
func (m *Module) Lookup(name string) *Function { return m.byName[name] }

// GetOrCreateFunction implements find-or-create-by-name semantics. If a
// function of that name already exists it is returned unchanged, definition or
// not; otherwise a fresh declaration with the given signature is created and
// appended. Callers that need a body check IsDefinition and build one exactly
// once, which is what makes lazy stub materialization idempotent.
func (m *Module) GetOrCreateFunction(name string, sig *FuncType) *Function {
	if f, ok := m.byName[name]; ok {
		return f
	}
	if sig == nil {
		sig = &FuncType{}
	}
	f := &Function{name: name, sig: sig, module: m}
	m.funcs = append(m.funcs, f)
	m.byName[name] = f
	return f
}
