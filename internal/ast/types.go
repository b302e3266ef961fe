package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/arena"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// TypeKind enumerates syntactic type forms.
type TypeKind uint8

const (
	TypeMock TypeKind = iota
	TypeVoid
	// TypePrim is a builtin such as i32 or f64.
	TypePrim
	// TypeNamed refers to a user-defined type.
	TypeNamed
	TypePtr
	TypeArray
	TypeFn
)

var typeKindNames = [...]string{
	TypeMock:  "MockType",
	TypeVoid:  "Void",
	TypePrim:  "Prim",
	TypeNamed: "Named",
	TypePtr:   "Ptr",
	TypeArray: "Array",
	TypeFn:    "FnType",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "Type?"
}

// Type is the header of a type node.
type Type struct {
	Kind    TypeKind
	Span    source.Span
	Payload PayloadID
	Ext     ExtID
}

type TypeNameData struct {
	Name source.StringID
}

type TypePtrData struct {
	Elem TypeID
}

// TypeArrayData is [Elem; Size]; Size is a constant expression.
type TypeArrayData struct {
	Elem TypeID
	Size ExprID
}

type TypeFnData struct {
	Params []TypeID
	Ret    TypeID
}

var primitives = map[string]struct{}{
	"u1": {}, "u8": {}, "u16": {}, "u32": {}, "u64": {}, "u128": {},
	"i8": {}, "i16": {}, "i32": {}, "i64": {}, "i128": {},
	"f16": {}, "f32": {}, "f64": {}, "f128": {},
	"bool": {},
}

// IsPrimitive reports whether name spells a builtin type.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// Types manages allocation of type nodes.
type Types struct {
	Arena  *arena.Typed[Type]
	Names  *arena.Typed[TypeNameData]
	Ptrs   *arena.Typed[TypePtrData]
	Arrays *arena.Typed[TypeArrayData]
	Fns    *arena.Typed[TypeFnData]
}

func NewTypes() *Types {
	return &Types{
		Arena:  arena.NewTyped[Type](),
		Names:  arena.NewTyped[TypeNameData](),
		Ptrs:   arena.NewTyped[TypePtrData](),
		Arrays: arena.NewTyped[TypeArrayData](),
		Fns:    arena.NewTyped[TypeFnData](),
	}
}

func (t *Types) new(kind TypeKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(Type{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (t *Types) Get(id TypeID) *Type {
	return t.Arena.Get(uint32(id))
}

func (t *Types) payload(id TypeID, kinds ...TypeKind) (uint32, bool) {
	typ := t.Get(id)
	if typ == nil {
		return 0, false
	}
	for _, k := range kinds {
		if typ.Kind == k {
			return uint32(typ.Payload), true
		}
	}
	return 0, false
}

func (t *Types) NewMock(span source.Span) TypeID { return t.new(TypeMock, span, 0) }
func (t *Types) NewVoid(span source.Span) TypeID { return t.new(TypeVoid, span, 0) }

// NewName creates a Prim or Named type depending on kind.
func (t *Types) NewName(kind TypeKind, span source.Span, name source.StringID) TypeID {
	if kind != TypePrim && kind != TypeNamed {
		panic("ast: NewName with kind " + kind.String())
	}
	return t.new(kind, span, t.Names.Allocate(TypeNameData{Name: name}))
}

// Name returns the payload of Prim and Named types.
func (t *Types) Name(id TypeID) (*TypeNameData, bool) {
	p, ok := t.payload(id, TypePrim, TypeNamed)
	if !ok {
		return nil, false
	}
	return t.Names.Get(p), true
}

func (t *Types) NewPtr(span source.Span, elem TypeID) TypeID {
	return t.new(TypePtr, span, t.Ptrs.Allocate(TypePtrData{Elem: elem}))
}

func (t *Types) Ptr(id TypeID) (*TypePtrData, bool) {
	p, ok := t.payload(id, TypePtr)
	if !ok {
		return nil, false
	}
	return t.Ptrs.Get(p), true
}

func (t *Types) NewArray(span source.Span, elem TypeID, size ExprID) TypeID {
	return t.new(TypeArray, span, t.Arrays.Allocate(TypeArrayData{Elem: elem, Size: size}))
}

func (t *Types) Array(id TypeID) (*TypeArrayData, bool) {
	p, ok := t.payload(id, TypeArray)
	if !ok {
		return nil, false
	}
	return t.Arrays.Get(p), true
}

func (t *Types) NewFn(span source.Span, params []TypeID, ret TypeID) TypeID {
	return t.new(TypeFn, span, t.Fns.Allocate(TypeFnData{Params: params, Ret: ret}))
}

func (t *Types) Fn(id TypeID) (*TypeFnData, bool) {
	p, ok := t.payload(id, TypeFn)
	if !ok {
		return nil, false
	}
	return t.Fns.Get(p), true
}
