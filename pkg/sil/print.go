package sil

import (
	"fmt"
	"strings"
)

// The printer renders functions into a stable textual form. It is used for
// the diagnostic dumps the injector emits, for the dump CLI command, and as
// the preimage for function fingerprints, so the output must be a pure
// function of the graph: registers are numbered in program order, never from
// pointer identity.

type printer struct {
	names map[Value]string
	sb    strings.Builder
}

// String renders the whole module in definition order.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)
	for _, f := range m.funcs {
		sb.WriteString("\n")
		sb.WriteString(f.String())
	}
	return sb.String()
}

// String renders one function. Declarations print as a single line.
func (f *Function) String() string {
	p := &printer{names: make(map[Value]string)}
	p.function(f)
	return p.sb.String()
}

func (p *printer) function(f *Function) {
	if !f.IsDefinition() {
		fmt.Fprintf(&p.sb, "declare @%s : %s\n", f.Name(), f.Signature().String())
		return
	}

	// Name everything up front so forward references render identically to
	// backward ones.
	for i, param := range f.Params {
		if param.Name != "" {
			p.names[param] = "%" + param.Name
		} else {
			p.names[param] = fmt.Sprintf("%%p%d", i)
		}
	}
	reg := 0
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if v, ok := in.(Value); ok && v.Type() != Unit {
				p.names[v] = fmt.Sprintf("%%v%d", reg)
				reg++
			}
		}
	}

	fmt.Fprintf(&p.sb, "func @%s(", f.Name())
	for i, param := range f.Params {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		fmt.Fprintf(&p.sb, "%s: %s", strings.TrimPrefix(p.names[param], "%"), param.Typ.String())
	}
	fmt.Fprintf(&p.sb, ") -> %s", f.Signature().ResultType().String())
	if f.Linkage == Internal || f.Bare {
		p.sb.WriteString(" [")
		attrs := []string{}
		if f.Linkage == Internal {
			attrs = append(attrs, "internal")
		}
		if f.Bare {
			attrs = append(attrs, "bare")
		}
		p.sb.WriteString(strings.Join(attrs, " "))
		p.sb.WriteString("]")
	}
	p.sb.WriteString(" {\n")

	for _, b := range f.Blocks {
		fmt.Fprintf(&p.sb, "%s:\n", b.Label)
		for _, in := range b.Instrs {
			p.instruction(in)
		}
	}
	p.sb.WriteString("}\n")
}

func (p *printer) instruction(in Instruction) {
	p.sb.WriteString("  ")
	if v, ok := in.(Value); ok && v.Type() != Unit {
		fmt.Fprintf(&p.sb, "%s = ", p.names[v])
	}

	switch i := in.(type) {
	case *Call:
		fmt.Fprintf(&p.sb, "call %s(", p.operand(i.Callee))
		p.operandList(i.Args)
		p.sb.WriteString(")")
	case *Op:
		p.sb.WriteString(i.Name)
		if len(i.Args) > 0 {
			p.sb.WriteString(" ")
			p.operandList(i.Args)
		}
	case *Trap:
		p.sb.WriteString("trap")
	case *Unreachable:
		p.sb.WriteString("unreachable")
	case *Return:
		p.sb.WriteString("return")
		if len(i.Results) > 0 {
			p.sb.WriteString(" ")
			p.operandList(i.Results)
		}
	case *Br:
		fmt.Fprintf(&p.sb, "br %s", i.Target.Label)
	case *CondBr:
		fmt.Fprintf(&p.sb, "cond_br %s, %s, %s", p.operand(i.Cond), i.Then.Label, i.Else.Label)
	default:
		fmt.Fprintf(&p.sb, "<unknown instruction %T>", in)
	}
	p.sb.WriteString("\n")
}

func (p *printer) operandList(vals []Value) {
	for i, v := range vals {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(p.operand(v))
	}
}

func (p *printer) operand(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case *FunctionRef:
		return "@" + val.Fn.Name()
	case *Const:
		return fmt.Sprintf("const(%s)", val.Text)
	case *Undef:
		return fmt.Sprintf("undef : %s", val.Typ.String())
	default:
		if name, ok := p.names[v]; ok {
			return name
		}
		// A value from outside the printed function, or one whose defining
		// instruction was removed without rewriting its uses.
		return "<unnamed>"
	}
}
