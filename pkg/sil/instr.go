package sil

// Instruction is one operation inside a BasicBlock. Operands returns pointers
// into the instruction's operand slots so replace-all-uses can rewrite them in
// place without knowing the concrete instruction kind.
type Instruction interface {
	Parent() *BasicBlock
	Operands() []*Value

	setParent(*BasicBlock)
}

// Terminator marks the instruction kinds that may end a block.
type Terminator interface {
	Instruction
	terminator()
}

// anchor carries the owning-block backlink shared by every instruction kind.
type anchor struct {
	block *BasicBlock
}

func (a *anchor) Parent() *BasicBlock     { return a.block }
func (a *anchor) setParent(b *BasicBlock) { a.block = b }

// Call invokes Callee with Args and produces a value of Result type. The
// callee is a plain Value: a FunctionRef makes the call direct, anything else
// is an indirect call through a computed value.
type Call struct {
	anchor
	Callee Value
	Args   []Value
	Result Type
}

func NewCall(callee Value, args []Value, result Type) *Call {
	if result == nil {
		result = Unit
	}
	return &Call{Callee: callee, Args: args, Result: result}
}

func (c *Call) Type() Type { return c.Result }

func (c *Call) Operands() []*Value {
	rands := make([]*Value, 0, len(c.Args)+1)
	rands = append(rands, &c.Callee)
	for i := range c.Args {
		rands = append(rands, &c.Args[i])
	}
	return rands
}

// StaticCallee resolves the called function when the callee is a direct
// reference, and nil for indirect calls.
func (c *Call) StaticCallee() *Function {
	if ref, ok := c.Callee.(*FunctionRef); ok {
		return ref.Fn
	}
	return nil
}

// Op is a generic value-producing instruction for everything the core does not
// model structurally. The frontend lowers arithmetic, memory traffic, and the
// rest of the source IR's vocabulary into Ops; the injector walks past them.
type Op struct {
	anchor
	Name   string
	Args   []Value
	Result Type
}

func NewOp(name string, args []Value, result Type) *Op {
	if result == nil {
		result = Unit
	}
	return &Op{Name: name, Args: args, Result: result}
}

func (o *Op) Type() Type { return o.Result }

func (o *Op) Operands() []*Value {
	rands := make([]*Value, len(o.Args))
	for i := range o.Args {
		rands[i] = &o.Args[i]
	}
	return rands
}

// Trap aborts execution unconditionally when reached at runtime. It is not a
// terminator; the crash stub pairs it with an Unreachable.
type Trap struct {
	anchor
}

func NewTrap() *Trap { return &Trap{} }

func (t *Trap) Operands() []*Value { return nil }

// Unreachable asserts that control never reaches this point.
type Unreachable struct {
	anchor
}

func NewUnreachable() *Unreachable { return &Unreachable{} }

func (u *Unreachable) Operands() []*Value { return nil }
func (u *Unreachable) terminator()        {}

// Return leaves the function, yielding zero or more results.
type Return struct {
	anchor
	Results []Value
}

func NewReturn(results ...Value) *Return { return &Return{Results: results} }

func (r *Return) Operands() []*Value {
	rands := make([]*Value, len(r.Results))
	for i := range r.Results {
		rands[i] = &r.Results[i]
	}
	return rands
}

func (r *Return) terminator() {}

// Br transfers control unconditionally to Target.
type Br struct {
	anchor
	Target *BasicBlock
}

func NewBr(target *BasicBlock) *Br { return &Br{Target: target} }

func (b *Br) Operands() []*Value { return nil }
func (b *Br) terminator()        {}

// CondBr transfers control to Then or Else depending on Cond.
type CondBr struct {
	anchor
	Cond Value
	Then *BasicBlock
	Else *BasicBlock
}

func NewCondBr(cond Value, then, els *BasicBlock) *CondBr {
	return &CondBr{Cond: cond, Then: then, Else: els}
}

func (b *CondBr) Operands() []*Value { return []*Value{&b.Cond} }
func (b *CondBr) terminator()        {}
