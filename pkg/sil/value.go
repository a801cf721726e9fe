package sil

// Value is anything usable as an instruction operand: parameters, constants,
// function references, undef placeholders, and the instructions that produce
// results. Values have no intrinsic names; the printer assigns registers in
// program order so dumps stay deterministic.
type Value interface {
	Type() Type
}

// Param is a formal parameter of a Function.
type Param struct {
	Name string
	Typ  Type
}

func (p *Param) Type() Type { return p.Typ }

// Const is a literal operand. Text carries the frontend's rendering of the
// constant; the core never interprets it.
type Const struct {
	Typ  Type
	Text string
}

func (c *Const) Type() Type { return c.Typ }

// Undef is a typed placeholder with no defined contents. The miscompile and
// runtime-crasher paths substitute one for every use of the deleted call's
// result, so each injection mints a fresh instance.
type Undef struct {
	Typ Type
}

func NewUndef(t Type) *Undef {
	if t == nil {
		t = Unit
	}
	return &Undef{Typ: t}
}

func (u *Undef) Type() Type { return u.Typ }

// FunctionRef is a direct reference to a Function by identity. A Call whose
// callee is a FunctionRef is a direct call; any other callee value makes the
// call indirect and invisible to the matcher.
type FunctionRef struct {
	Fn *Function
}

func NewFunctionRef(fn *Function) *FunctionRef { return &FunctionRef{Fn: fn} }

func (r *FunctionRef) Type() Type { return r.Fn.Signature() }
