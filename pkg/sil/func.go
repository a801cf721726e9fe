package sil

import "fmt"

// Linkage controls whether a function is visible outside its module. The only
// consumer in this codebase is the crash stub, which is always Internal, but
// the printer surfaces it so dumps match the source IR's conventions.
type Linkage int

const (
	Public Linkage = iota
	Internal
)

func (l Linkage) String() string {
	if l == Internal {
		return "internal"
	}
	return "public"
}

// Function is a named control-flow graph. A function with zero blocks is a
// declaration; appending the first block turns it into a definition.
type Function struct {
	Linkage Linkage
	// Bare marks a raw body that must not be touched by instrumentation
	// passes. Synthesized stubs are bare.
	Bare   bool
	Params []*Param
	Blocks []*BasicBlock

	name   string
	sig    *FuncType
	module *Module
}

func (f *Function) Name() string         { return f.name }
func (f *Function) Signature() *FuncType { return f.sig }
func (f *Function) Module() *Module      { return f.module }

// IsDefinition reports whether the function has a body.
func (f *Function) IsDefinition() bool { return len(f.Blocks) > 0 }

// Entry returns the entry block of a definition, nil for declarations.
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// NewBlock appends a fresh block to the function. An empty label gets a
// positional one so dumps always have something to branch to.
func (f *Function) NewBlock(label string) *BasicBlock {
	if label == "" {
		label = fmt.Sprintf("bb%d", len(f.Blocks))
	}
	b := &BasicBlock{Label: label, fn: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// AddParam declares a formal parameter and returns it for use as an operand.
func (f *Function) AddParam(name string, t Type) *Param {
	p := &Param{Name: name, Typ: t}
	f.Params = append(f.Params, p)
	return p
}

// ReplaceAllUsesWith rewrites every operand slot in the function that holds
// old to hold new, returning the number of slots rewritten. Uses are scoped to
// the owning function: a value produced here cannot be referenced from another
// function's body.
func (f *Function) ReplaceAllUsesWith(old, new Value) int {
	if old == nil || old == new {
		return 0
	}
	replaced := 0
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			for _, slot := range in.Operands() {
				if *slot == old {
					*slot = new
					replaced++
				}
			}
		}
	}
	return replaced
}

// NumInstructions counts instructions across all blocks.
func (f *Function) NumInstructions() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Instrs)
	}
	return n
}
