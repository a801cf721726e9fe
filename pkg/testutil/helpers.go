package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/BlackVectorOps/faultseed/pkg/sil"
)

// FindFunction locates a function by exact name first, then by suffix match
// for package-qualified names (e.g. "target" matches "testmod.target").
// Exported for use in external test packages.
func FindFunction(m *sil.Module, name string) *sil.Function {
	if fn := m.Lookup(name); fn != nil {
		return fn
	}
	for _, fn := range m.Functions() {
		if strings.HasSuffix(fn.Name(), "."+name) {
			return fn
		}
	}
	return nil
}

// CountCallsTo counts direct call sites to the named callee across the whole
// module. Indirect calls never count; they have no static callee.
func CountCallsTo(m *sil.Module, callee string) int {
	n := 0
	for _, fn := range m.Functions() {
		for _, b := range fn.Blocks {
			for _, in := range b.Instrs {
				call, ok := in.(*sil.Call)
				if !ok {
					continue
				}
				if c := call.StaticCallee(); c != nil && c.Name() == callee {
					n++
				}
			}
		}
	}
	return n
}

// NewCallerModule builds an in-memory module with a declared target function
// and callers callers of it, each shaped like real lowered output: the call
// result feeds a use before the return. Most injector tests start here
// because hand-built IR pins down the exact shape under mutation.
func NewCallerModule(target string, callers int) *sil.Module {
	m := sil.NewModule("testmod")
	tgt := m.GetOrCreateFunction(target, &sil.FuncType{Result: sil.Int})
	for i := 0; i < callers; i++ {
		AddCaller(m, callerName(i), tgt)
	}
	return m
}

// AddCaller defines a function in m that calls tgt once, uses the result, and
// returns it.
func AddCaller(m *sil.Module, name string, tgt *sil.Function) *sil.Function {
	fn := m.GetOrCreateFunction(name, &sil.FuncType{Result: sil.Int})
	bb := fn.NewBlock("entry")
	call := sil.NewCall(sil.NewFunctionRef(tgt), nil, tgt.Signature().ResultType())
	bb.Append(call)
	use := sil.NewOp("binop.+", []sil.Value{call, call}, sil.Int)
	bb.Append(use)
	bb.Append(sil.NewReturn(use))
	return fn
}

func callerName(i int) string {
	return fmt.Sprintf("caller%d", i)
}

// AssertContains fails the test when s does not contain substr.
func AssertContains(t *testing.T, s, substr, context string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: expected %q in:\n%s", context, substr, s)
	}
}
