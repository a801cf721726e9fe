package sil

import "strings"

// Type describes the result type of a value. The injector only ever needs to
// know a type well enough to mint an Undef of it, so the hierarchy stays flat:
// a handful of builtins, function signatures, and an opaque escape hatch for
// anything the frontend does not model.
type Type interface {
	String() string
	typ()
}

type basicType struct {
	name string
}

func (t *basicType) String() string { return t.name }
func (t *basicType) typ()           {}

// Builtin types are singletons so frontends and tests can compare them with ==.
var (
	Unit   Type = &basicType{name: "Unit"}
	Bool   Type = &basicType{name: "Bool"}
	Int    Type = &basicType{name: "Int"}
	String Type = &basicType{name: "String"}
)

// FuncType is the signature of a Function. A nil Result is normalized to Unit
// at the access points so callers never have to nil-check.
type FuncType struct {
	Params []Type
	Result Type
}

func (t *FuncType) typ() {}

func (t *FuncType) ResultType() Type {
	if t.Result == nil {
		return Unit
	}
	return t.Result
}

func (t *FuncType) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(t.ResultType().String())
	return sb.String()
}

// OpaqueType names a type the frontend chose not to model structurally.
// Two opaque types are interchangeable iff their names match, which is all the
// printer and the fingerprints need.
type OpaqueType struct {
	Name string
}

func (t *OpaqueType) typ() {}

func (t *OpaqueType) String() string {
	if t.Name == "" {
		return "opaque"
	}
	return t.Name
}
