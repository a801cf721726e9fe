// Package lower translates Go SSA into the mutable IR the injector works on.
// The translation is lossy on purpose: arithmetic, memory traffic, and every
// other instruction the injector walks past collapse into generic Ops, while
// calls, branches, and returns keep their structure so call sites can be
// located and rewritten.
package lower

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"

	"github.com/BlackVectorOps/faultseed/pkg/sil"
)

// Target loads the Go code at target, builds SSA, and lowers it into a single
// module. This is the one-call entry point the CLI uses.
func Target(target string) (*sil.Module, error) {
	initialPkgs, err := LoadPackages(target)
	if err != nil {
		return nil, err
	}
	prog, err := BuildSSA(initialPkgs)
	if err != nil {
		return nil, err
	}
	return Module(prog, initialPkgs)
}

// Module lowers every function of the initial packages into one IR module.
// Functions are visited in a deterministic order: packages as given, members
// sorted by name, anonymous functions depth-first after their parent. Called
// functions outside the initial packages become declarations.
func Module(prog *ssa.Program, initialPkgs []*packages.Package) (*sil.Module, error) {
	if prog == nil {
		return nil, fmt.Errorf("ssa program is nil")
	}
	if len(initialPkgs) == 0 {
		return nil, fmt.Errorf("input packages list is empty")
	}

	root := initialPkgs[0].Types
	if root == nil {
		return nil, fmt.Errorf("package %s has no type information", initialPkgs[0].PkgPath)
	}

	l := &lowerer{
		mod:  sil.NewModule(root.Path()),
		root: root,
	}

	for _, p := range initialPkgs {
		if p.Types == nil {
			continue
		}
		ssaPkg := prog.Package(p.Types)
		if ssaPkg == nil {
			continue
		}
		for _, name := range sortedMemberNames(ssaPkg) {
			switch m := ssaPkg.Members[name].(type) {
			case *ssa.Function:
				l.functionAndAnons(m)
			case *ssa.Type:
				if named, ok := m.Type().(*types.Named); ok {
					for i := 0; i < named.NumMethods(); i++ {
						if fn := prog.FuncValue(named.Method(i)); fn != nil {
							l.functionAndAnons(fn)
						}
					}
				}
			}
		}
	}

	return l.mod, nil
}

type lowerer struct {
	mod  *sil.Module
	root *types.Package
}

func sortedMemberNames(pkg *ssa.Package) []string {
	names := make([]string, 0, len(pkg.Members))
	for name := range pkg.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *lowerer) functionAndAnons(fn *ssa.Function) {
	// Synthetic wrappers and bound-method thunks stay out of the module;
	// nothing a user names with --target-func lives there. Package init is
	// the one synthetic worth keeping, it holds lowered global initializers.
	if fn.Synthetic != "" && fn.Name() != "init" {
		return
	}
	l.function(fn)
	for _, anon := range fn.AnonFuncs {
		l.functionAndAnons(anon)
	}
}

// funcName renders a stable module-level name. Functions of the root package
// come out unqualified so --target-func matches what users wrote in source;
// everything else carries its package path.
func (l *lowerer) funcName(fn *ssa.Function) string {
	return fn.RelString(l.root)
}

// declare ensures fn exists in the module, as a declaration if it has not been
// lowered yet. Used for call targets outside the lowering set.
func (l *lowerer) declare(fn *ssa.Function) *sil.Function {
	return l.mod.GetOrCreateFunction(l.funcName(fn), lowerSignature(fn.Signature))
}

// function lowers one SSA function body. Bodies are built in two passes:
// the first allocates an IR instruction per SSA instruction so every value
// has a home, the second fills in operands. Without the split, back edges
// (phi arguments defined later in the block order) would dangle.
func (l *lowerer) function(fn *ssa.Function) {
	f := l.mod.GetOrCreateFunction(l.funcName(fn), lowerSignature(fn.Signature))
	if f.IsDefinition() || len(fn.Blocks) == 0 {
		return
	}

	env := make(map[ssa.Value]sil.Value)
	for _, p := range fn.Params {
		env[p] = f.AddParam(p.Name(), lowerType(p.Type()))
	}
	for _, fv := range fn.FreeVars {
		env[fv] = f.AddParam(fv.Name(), lowerType(fv.Type()))
	}

	blocks := make(map[*ssa.BasicBlock]*sil.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blocks[b] = f.NewBlock(fmt.Sprintf("bb%d", b.Index))
	}

	type slot struct {
		src ssa.Instruction
		dst sil.Instruction
	}
	var pending []slot

	for _, b := range fn.Blocks {
		sb := blocks[b]
		for _, in := range b.Instrs {
			if _, ok := in.(*ssa.DebugRef); ok {
				continue
			}
			dst := l.shell(in, blocks)
			if dst == nil {
				continue
			}
			sb.Append(dst)
			if v, isVal := in.(ssa.Value); isVal {
				if sv, isSilVal := dst.(sil.Value); isSilVal {
					env[v] = sv
				}
			}
			pending = append(pending, slot{src: in, dst: dst})
			// An SSA panic terminates its block; the IR models that as a
			// generic op followed by an explicit unreachable.
			if _, isPanic := in.(*ssa.Panic); isPanic {
				sb.Append(sil.NewUnreachable())
			}
		}
		if !sb.Terminated() {
			sb.Append(sil.NewUnreachable())
		}
	}

	for _, s := range pending {
		l.fill(s.src, s.dst, env)
	}
}

// shell builds an operand-less IR instruction of the right shape for in.
func (l *lowerer) shell(in ssa.Instruction, blocks map[*ssa.BasicBlock]*sil.BasicBlock) sil.Instruction {
	switch i := in.(type) {
	case *ssa.Call:
		if i.Call.IsInvoke() {
			// Interface dispatch has no static callee; keep it as an opaque
			// op named after the method so dumps stay readable.
			return sil.NewOp("invoke."+i.Call.Method.Name(), nil, lowerType(i.Type()))
		}
		return sil.NewCall(nil, nil, lowerType(i.Type()))
	case *ssa.If:
		return sil.NewCondBr(nil, blocks[i.Block().Succs[0]], blocks[i.Block().Succs[1]])
	case *ssa.Jump:
		return sil.NewBr(blocks[i.Block().Succs[0]])
	case *ssa.Return:
		return sil.NewReturn()
	case *ssa.Panic:
		return sil.NewOp("panic", nil, sil.Unit)
	default:
		name := opName(in)
		if v, ok := in.(ssa.Value); ok {
			return sil.NewOp(name, nil, lowerType(v.Type()))
		}
		return sil.NewOp(name, nil, sil.Unit)
	}
}

// fill resolves the operands of dst now that every value in the function has
// an IR counterpart.
func (l *lowerer) fill(src ssa.Instruction, dst sil.Instruction, env map[ssa.Value]sil.Value) {
	switch d := dst.(type) {
	case *sil.Call:
		call, ok := src.(*ssa.Call)
		if !ok {
			return
		}
		common := call.Common()
		if static := common.StaticCallee(); static != nil {
			d.Callee = sil.NewFunctionRef(l.declare(static))
		} else {
			d.Callee = l.value(common.Value, env)
		}
		d.Args = l.values(common.Args, env)
	case *sil.CondBr:
		if ifInstr, ok := src.(*ssa.If); ok {
			d.Cond = l.value(ifInstr.Cond, env)
		}
	case *sil.Return:
		if ret, ok := src.(*ssa.Return); ok {
			d.Results = l.values(ret.Results, env)
		}
	case *sil.Op:
		rands := src.Operands(nil)
		args := make([]sil.Value, 0, len(rands))
		for _, r := range rands {
			if r == nil || *r == nil {
				continue
			}
			args = append(args, l.value(*r, env))
		}
		d.Args = args
	}
}

func (l *lowerer) values(vs []ssa.Value, env map[ssa.Value]sil.Value) []sil.Value {
	if len(vs) == 0 {
		return nil
	}
	out := make([]sil.Value, len(vs))
	for i, v := range vs {
		out[i] = l.value(v, env)
	}
	return out
}

func (l *lowerer) value(v ssa.Value, env map[ssa.Value]sil.Value) sil.Value {
	if sv, ok := env[v]; ok {
		return sv
	}
	switch c := v.(type) {
	case *ssa.Const:
		text := "nil"
		if c.Value != nil {
			text = c.Value.String()
		}
		return &sil.Const{Typ: lowerType(c.Type()), Text: text}
	case *ssa.Function:
		return sil.NewFunctionRef(l.declare(c))
	case *ssa.Global:
		return &sil.Const{Typ: lowerType(c.Type()), Text: "global:" + c.RelString(l.root)}
	case *ssa.Builtin:
		return &sil.Const{Typ: lowerType(c.Type()), Text: "builtin:" + c.Name()}
	}
	// A value produced by an instruction the shell pass skipped, or one
	// escaping from another function. Undef keeps the body well formed.
	return sil.NewUndef(lowerType(v.Type()))
}

// opName derives a mnemonic from the SSA instruction kind, with the operator
// folded in for binary and unary ops so fingerprints distinguish a+b from a-b.
func opName(in ssa.Instruction) string {
	kind := strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", in), "*ssa."))
	switch i := in.(type) {
	case *ssa.BinOp:
		return kind + "." + i.Op.String()
	case *ssa.UnOp:
		return kind + "." + i.Op.String()
	}
	return kind
}

// lowerSignature maps a Go signature onto the IR's flat function type.
// Multiple results collapse into one opaque tuple type.
func lowerSignature(sig *types.Signature) *sil.FuncType {
	ft := &sil.FuncType{}
	if sig == nil {
		return ft
	}
	if recv := sig.Recv(); recv != nil {
		ft.Params = append(ft.Params, lowerType(recv.Type()))
	}
	for i := 0; i < sig.Params().Len(); i++ {
		ft.Params = append(ft.Params, lowerType(sig.Params().At(i).Type()))
	}
	switch sig.Results().Len() {
	case 0:
		ft.Result = sil.Unit
	case 1:
		ft.Result = lowerType(sig.Results().At(0).Type())
	default:
		ft.Result = &sil.OpaqueType{Name: types.TypeString(sig.Results(), nil)}
	}
	return ft
}

func lowerType(t types.Type) sil.Type {
	if t == nil {
		return sil.Unit
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsBoolean != 0:
			return sil.Bool
		case info&types.IsInteger != 0:
			return sil.Int
		case info&types.IsString != 0:
			return sil.String
		}
	case *types.Tuple:
		if u.Len() == 0 {
			return sil.Unit
		}
	case *types.Signature:
		return lowerSignature(u)
	}
	return &sil.OpaqueType{Name: types.TypeString(t, nil)}
}
