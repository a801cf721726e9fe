package sil

import (
	"strings"
	"testing"
)

// buildCaller constructs a minimal definition calling target once and
// returning the call's result through an arithmetic use.
func buildCaller(m *Module, name string, target *Function) (*Function, *Call, *Op) {
	fn := m.GetOrCreateFunction(name, &FuncType{Result: Int})
	bb := fn.NewBlock("entry")
	call := NewCall(NewFunctionRef(target), nil, Int)
	bb.Append(call)
	use := NewOp("binop.+", []Value{call, call}, Int)
	bb.Append(use)
	bb.Append(NewReturn(use))
	return fn, call, use
}

func TestGetOrCreateFunctionIdempotent(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	a := m.GetOrCreateFunction("f", &FuncType{Result: Int})
	b := m.GetOrCreateFunction("f", &FuncType{Result: Bool})

	if a != b {
		t.Fatal("expected the same function for the same name")
	}
	if got := a.Signature().ResultType(); got != Int {
		t.Errorf("second lookup must not change the signature, got result %s", got)
	}
	if len(m.Functions()) != 1 {
		t.Errorf("expected 1 function in module, got %d", len(m.Functions()))
	}
}

func TestDeclarationBecomesDefinition(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	f := m.GetOrCreateFunction("f", &FuncType{})
	if f.IsDefinition() {
		t.Fatal("fresh function must be a declaration")
	}
	bb := f.NewBlock("")
	bb.Append(NewReturn())
	if !f.IsDefinition() {
		t.Fatal("function with a block must be a definition")
	}
	if bb.Label != "bb0" {
		t.Errorf("expected positional label bb0, got %q", bb.Label)
	}
	if f.Entry() != bb {
		t.Error("entry block mismatch")
	}
}

func TestAppendPastTerminatorPanics(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	f := m.GetOrCreateFunction("f", nil)
	bb := f.NewBlock("entry")
	bb.Append(NewReturn())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic appending past a terminator")
		}
	}()
	bb.Append(NewTrap())
}

func TestInsertBeforeAndRemove(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	target := m.GetOrCreateFunction("target", &FuncType{Result: Int})
	_, call, _ := buildCaller(m, "caller", target)

	bb := call.Parent()
	marker := NewOp("marker", nil, Unit)
	if err := bb.InsertBefore(call, marker); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}
	if bb.Index(marker) != 0 || bb.Index(call) != 1 {
		t.Errorf("unexpected order after insert: marker=%d call=%d", bb.Index(marker), bb.Index(call))
	}

	if err := bb.Remove(call); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if bb.Index(call) != -1 {
		t.Error("removed instruction still present")
	}
	if call.Parent() != nil {
		t.Error("removed instruction still claims a parent block")
	}
}

func TestRemoveTerminatorRefused(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	f := m.GetOrCreateFunction("f", nil)
	bb := f.NewBlock("entry")
	ret := NewReturn()
	bb.Append(ret)

	if err := bb.Remove(ret); err == nil {
		t.Fatal("expected error removing a terminator")
	}
	if !bb.Terminated() {
		t.Error("block lost its terminator")
	}
}

func TestReplaceAllUsesWith(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	target := m.GetOrCreateFunction("target", &FuncType{Result: Int})
	fn, call, use := buildCaller(m, "caller", target)

	undef := NewUndef(call.Type())
	n := fn.ReplaceAllUsesWith(call, undef)
	// Two operands of the arithmetic use; the return references the use, not
	// the call, and must stay untouched.
	if n != 2 {
		t.Fatalf("expected 2 rewritten uses, got %d", n)
	}
	for _, slot := range use.Operands() {
		if *slot != Value(undef) {
			t.Error("operand not rewritten to undef")
		}
	}

	if got := fn.ReplaceAllUsesWith(call, undef); got != 0 {
		t.Errorf("second replacement found %d stale uses", got)
	}
	if got := fn.ReplaceAllUsesWith(nil, undef); got != 0 {
		t.Errorf("nil old value rewrote %d slots", got)
	}
}

func TestPrinterDeterministic(t *testing.T) {
	t.Parallel()
	build := func() *Module {
		m := NewModule("m")
		target := m.GetOrCreateFunction("target", &FuncType{Result: Int})
		buildCaller(m, "caller", target)
		return m
	}
	a, b := build().String(), build().String()
	if a != b {
		t.Fatalf("two identical graphs printed differently:\n%s\n--\n%s", a, b)
	}
}

func TestPrinterOutput(t *testing.T) {
	t.Parallel()
	m := NewModule("demo")
	target := m.GetOrCreateFunction("target", &FuncType{Result: Int})
	fn, _, _ := buildCaller(m, "caller", target)

	out := fn.String()
	for _, want := range []string{
		"func @caller() -> Int {",
		"entry:",
		"%v0 = call @target()",
		"%v1 = binop.+ %v0, %v0",
		"return %v1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	decl := target.String()
	if !strings.Contains(decl, "declare @target : func() -> Int") {
		t.Errorf("unexpected declaration rendering: %s", decl)
	}

	mod := m.String()
	if !strings.Contains(mod, "module demo") {
		t.Errorf("missing module header in:\n%s", mod)
	}
}

func TestPrinterAttributes(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	f := m.GetOrCreateFunction("stub", &FuncType{Result: Unit})
	f.Linkage = Internal
	f.Bare = true
	bb := f.NewBlock("entry")
	bb.Append(NewTrap())
	bb.Append(NewUnreachable())

	out := f.String()
	if !strings.Contains(out, "[internal bare]") {
		t.Errorf("missing attribute rendering in:\n%s", out)
	}
	if !strings.Contains(out, "  trap\n  unreachable\n") {
		t.Errorf("unexpected body rendering:\n%s", out)
	}
}

func TestCondBrAndBranches(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	f := m.GetOrCreateFunction("f", &FuncType{Params: []Type{Bool}, Result: Int})
	cond := f.AddParam("flag", Bool)
	then := f.NewBlock("then")
	els := f.NewBlock("else")
	entry := f.NewBlock("entry")
	entry.Append(NewCondBr(cond, then, els))
	then.Append(NewReturn(&Const{Typ: Int, Text: "1"}))
	els.Append(NewBr(then))

	out := f.String()
	if !strings.Contains(out, "cond_br %flag, then, else") {
		t.Errorf("unexpected cond_br rendering:\n%s", out)
	}
	if !strings.Contains(out, "br then") {
		t.Errorf("unexpected br rendering:\n%s", out)
	}
	if !strings.Contains(out, "return const(1)") {
		t.Errorf("unexpected const rendering:\n%s", out)
	}
}

func TestStaticCallee(t *testing.T) {
	t.Parallel()
	m := NewModule("m")
	target := m.GetOrCreateFunction("target", nil)

	direct := NewCall(NewFunctionRef(target), nil, nil)
	if direct.StaticCallee() != target {
		t.Error("direct call lost its static callee")
	}

	indirect := NewCall(&Param{Name: "fp", Typ: target.Signature()}, nil, nil)
	if indirect.StaticCallee() != nil {
		t.Error("indirect call reported a static callee")
	}
}
