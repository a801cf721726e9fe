package fault

import "github.com/BlackVectorOps/faultseed/pkg/sil"

// CallSite is a matched call together with its resolved callee and position.
// Index records where the call sat in its block at match time; injection
// happens immediately after matching, so the position is still valid when the
// injector uses it.
type CallSite struct {
	Fn     *sil.Function
	Block  *sil.BasicBlock
	Call   *sil.Call
	Callee *sil.Function
	Index  int
}

// FindTargetCall scans fn in program order (blocks in definition order,
// instructions front to back) for the first direct call whose callee resolves
// by name to target. Indirect calls are skipped even if the computed value
// happens to alias the target at runtime: the matcher only trusts what the
// graph states statically. No side effects; an unchanged function always
// yields the same answer.
func FindTargetCall(fn *sil.Function, target string) (CallSite, bool) {
	if target == "" {
		return CallSite{}, false
	}
	for _, b := range fn.Blocks {
		for idx, in := range b.Instrs {
			call, ok := in.(*sil.Call)
			if !ok {
				continue
			}
			callee := call.StaticCallee()
			if callee == nil || callee.Name() != target {
				continue
			}
			return CallSite{
				Fn:     fn,
				Block:  b,
				Call:   call,
				Callee: callee,
				Index:  idx,
			}, true
		}
	}
	return CallSite{}, false
}
