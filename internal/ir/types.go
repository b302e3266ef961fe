package ir

import "fmt"

// TypeID identifies a type inside a TypeManager. Only the low 40 bits are used.
type TypeID uint64

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// MaxTypeID is the largest id a TypeManager hands out.
const MaxTypeID TypeID = 1<<40 - 1

// TypeKind enumerates every IR type.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeU1
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeU128
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeI128
	TypeF16
	TypeF32
	TypeF64
	TypeF128
	TypeVoid
	TypePtr
	TypeConst
	TypeOpaque
	TypeStruct
	TypeUnion
	TypeArray
	TypeFn
	TypeTmp
)

var typeKindNames = [...]string{
	TypeInvalid: "invalid",
	TypeU1:      "u1",
	TypeU8:      "u8",
	TypeU16:     "u16",
	TypeU32:     "u32",
	TypeU64:     "u64",
	TypeU128:    "u128",
	TypeI8:      "i8",
	TypeI16:     "i16",
	TypeI32:     "i32",
	TypeI64:     "i64",
	TypeI128:    "i128",
	TypeF16:     "f16",
	TypeF32:     "f32",
	TypeF64:     "f64",
	TypeF128:    "f128",
	TypeVoid:    "void",
	TypePtr:     "ptr",
	TypeConst:   "const",
	TypeOpaque:  "opaque",
	TypeStruct:  "struct",
	TypeUnion:   "union",
	TypeArray:   "array",
	TypeFn:      "fn",
	TypeTmp:     "tmp",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// IsPrimitive reports whether k is a stateless kind with a fixed id.
func (k TypeKind) IsPrimitive() bool { return k >= TypeU1 && k <= TypeVoid }

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k TypeKind) IsInteger() bool { return k >= TypeU1 && k <= TypeI128 }

// IsSigned reports whether k is a signed integer kind.
func (k TypeKind) IsSigned() bool { return k >= TypeI8 && k <= TypeI128 }

// IsFloat reports whether k is a floating point kind.
func (k TypeKind) IsFloat() bool { return k >= TypeF16 && k <= TypeF128 }

// IsNumeric reports whether k is an integer or float kind.
func (k TypeKind) IsNumeric() bool { return k.IsInteger() || k.IsFloat() }

var primByName = map[string]TypeKind{
	"u1": TypeU1, "bool": TypeU1,
	"u8": TypeU8, "u16": TypeU16, "u32": TypeU32, "u64": TypeU64, "u128": TypeU128,
	"i8": TypeI8, "i16": TypeI16, "i32": TypeI32, "i64": TypeI64, "i128": TypeI128,
	"f16": TypeF16, "f32": TypeF32, "f64": TypeF64, "f128": TypeF128,
	"void": TypeVoid,
}

// PrimByName maps a builtin type name to its kind.
func PrimByName(name string) (TypeKind, bool) {
	k, ok := primByName[name]
	return k, ok
}

// Type is a compact descriptor for any IR type.
type Type struct {
	Kind     TypeKind
	Elem     TypeID   // Ptr, Const, Array
	Count    uint64   // Array
	Fields   []TypeID // Struct, Union
	Params   []TypeID // Fn
	Ret      TypeID   // Fn
	Variadic bool     // Fn
	Name     string   // Opaque, Tmp, named Struct/Union
}

// Descriptor helpers ---------------------------------------------------------

// MakePtr describes a pointer to elem.
func MakePtr(elem TypeID) Type { return Type{Kind: TypePtr, Elem: elem} }

// MakeConst describes a read-only view of elem.
func MakeConst(elem TypeID) Type { return Type{Kind: TypeConst, Elem: elem} }

// MakeOpaque describes a named type with no known layout.
func MakeOpaque(name string) Type { return Type{Kind: TypeOpaque, Name: name} }

// MakeStruct describes a packed record of fields.
func MakeStruct(name string, fields ...TypeID) Type {
	return Type{Kind: TypeStruct, Name: name, Fields: fields}
}

// MakeUnion describes overlapping fields.
func MakeUnion(name string, fields ...TypeID) Type {
	return Type{Kind: TypeUnion, Name: name, Fields: fields}
}

// MakeArray describes count elements of elem.
func MakeArray(elem TypeID, count uint64) Type {
	return Type{Kind: TypeArray, Elem: elem, Count: count}
}

// MakeFn describes a function signature.
func MakeFn(params []TypeID, ret TypeID, variadic bool) Type {
	return Type{Kind: TypeFn, Params: params, Ret: ret, Variadic: variadic}
}

// MakeTmp describes a placeholder for a type that could not be resolved.
func MakeTmp(name string) Type { return Type{Kind: TypeTmp, Name: name} }
