package fault

import (
	"fmt"
	"io"

	"github.com/BlackVectorOps/faultseed/pkg/sil"
)

// CrashStubName is the well-known name of the synthesized trap function. The
// name is shared with the bug-reduction tooling that greps dumps for it, so
// it is part of the tool's external contract.
const CrashStubName = "bug_reducer_runtime_crasher_func"

// Outcome reports what a visit did to the graph.
type Outcome int

const (
	// OutcomeNone: nothing matched or the run is disabled/spent.
	OutcomeNone Outcome = iota
	// OutcomeMiscompiled: the target call was silently deleted.
	OutcomeMiscompiled
	// OutcomeTrapped: the target call was replaced by a call to the crash stub.
	OutcomeTrapped
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:        "none",
	OutcomeMiscompiled: "miscompiled",
	OutcomeTrapped:     "trapped",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// GetOrCreateCrashStub returns the module's trap stub, materializing it on
// first use: no parameters, unit result, internal linkage, bare, with a body
// of exactly [trap, unreachable]. A stub that is already a definition is
// returned untouched, so repeated injections across a module share one stub
// and never redefine it.
func GetOrCreateCrashStub(m *sil.Module) *sil.Function {
	f := m.GetOrCreateFunction(CrashStubName, &sil.FuncType{Result: sil.Unit})
	if f.IsDefinition() {
		return f
	}
	f.Linkage = sil.Internal
	f.Bare = true
	bb := f.NewBlock("entry")
	bb.Append(sil.NewTrap())
	bb.Append(sil.NewUnreachable())
	return f
}

// inject performs the configured mutation at site. The caller has already
// checked the guard and matched the site; this only dispatches on kind.
// It returns the outcome for the destructive paths and does not return at all
// on the optimizer-crash path unless the abort hook itself returns.
func (r *Run) inject(m *sil.Module, site CallSite) Outcome {
	switch r.cfg.Kind {
	case OptimizerCrash:
		// Deliberate, unrecoverable failure at the moment the call is
		// visited. The graph is left untouched: abort fires before any
		// mutation so reducers can trust pre-crash dumps.
		r.abort(fmt.Sprintf("found target call to %q in function %q", site.Callee.Name(), site.Fn.Name()))
		return OutcomeNone

	case RuntimeMiscompile:
		r.deleteCall(site)
		r.injected = true
		return OutcomeMiscompiled

	case RuntimeCrash:
		stub := GetOrCreateCrashStub(m)
		fmt.Fprintln(r.sink, "runtime crasher stub:")
		io.WriteString(r.sink, stub.String())

		trapCall := sil.NewCall(sil.NewFunctionRef(stub), nil, sil.Unit)
		if err := site.Block.InsertBefore(site.Call, trapCall); err != nil {
			// The site came from a match on this very block moments ago.
			panic(fmt.Sprintf("fault: stale call site: %v", err))
		}
		r.deleteCall(site)
		r.injected = true
		return OutcomeTrapped
	}
	return OutcomeNone
}

// deleteCall rewires every use of the call's result to a fresh undef of the
// same type, then removes the call from its block.
func (r *Run) deleteCall(site CallSite) {
	site.Fn.ReplaceAllUsesWith(site.Call, sil.NewUndef(site.Call.Type()))
	if err := site.Block.Remove(site.Call); err != nil {
		panic(fmt.Sprintf("fault: stale call site: %v", err))
	}
}
