package ir

import (
	"fmt"
	"math/bits"

	"fortio.org/safecast"
)

// primTypes are shared by every TypeManager: a primitive kind k always has id TypeID(k).
var primTypes = func() []Type {
	out := make([]Type, TypeVoid+1)
	for k := TypeU1; k <= TypeVoid; k++ {
		out[k] = Type{Kind: k}
	}
	return out
}()

// Prim returns the fixed id of a primitive kind.
func Prim(k TypeKind) TypeID {
	if !k.IsPrimitive() {
		panic(fmt.Sprintf("ir: %s is not a primitive type", k))
	}
	return TypeID(k)
}

// TypeManager is the append-only table of a module's types.
// Structural types are not deduplicated: every Add returns a fresh id.
type TypeManager struct {
	types []Type
}

// NewTypeManager returns a table seeded with the primitive types.
func NewTypeManager() *TypeManager {
	tm := &TypeManager{types: make([]Type, len(primTypes), len(primTypes)+64)}
	copy(tm.types, primTypes)
	return tm
}

// Add stores t and returns its id. Primitive kinds return their fixed id.
func (tm *TypeManager) Add(t Type) TypeID {
	if t.Kind == TypeInvalid {
		return NoTypeID
	}
	if t.Kind.IsPrimitive() {
		return Prim(t.Kind)
	}
	n, err := safecast.Conv[uint64](len(tm.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	if id > MaxTypeID {
		panic(fmt.Sprintf("ir: type table exceeds %d entries", MaxTypeID))
	}
	tm.types = append(tm.types, t)
	return id
}

// Set replaces the descriptor of a structural type. It is used to close
// recursive definitions whose id had to exist before their fields.
func (tm *TypeManager) Set(id TypeID, t Type) {
	if id <= TypeID(TypeVoid) || int(id) >= len(tm.types) {
		panic(fmt.Sprintf("ir: cannot redefine type %d", id))
	}
	tm.types[id] = t
}

// Lookup returns the descriptor for id.
func (tm *TypeManager) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || uint64(id) >= uint64(len(tm.types)) {
		return Type{}, false
	}
	return tm.types[id], true
}

// MustLookup is Lookup that panics on an unknown id.
func (tm *TypeManager) MustLookup(id TypeID) Type {
	t, ok := tm.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("ir: invalid TypeID %d", id))
	}
	return t
}

// Kind returns the kind of id, TypeInvalid when unknown.
func (tm *TypeManager) Kind(id TypeID) TypeKind {
	t, ok := tm.Lookup(id)
	if !ok {
		return TypeInvalid
	}
	return t.Kind
}

// Len returns the number of stored types including primitives.
func (tm *TypeManager) Len() int { return len(tm.types) }

// IsSame reports structural identity of two types.
func (tm *TypeManager) IsSame(a, b TypeID) bool {
	return tm.isSame(a, b, 0)
}

func (tm *TypeManager) isSame(a, b TypeID, depth int) bool {
	if a == b {
		return true
	}
	// recursive structs through pointers
	if depth > 64 {
		return true
	}
	ta, okA := tm.Lookup(a)
	tb, okB := tm.Lookup(b)
	if !okA || !okB || ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case TypePtr, TypeConst:
		return tm.isSame(ta.Elem, tb.Elem, depth+1)
	case TypeArray:
		return ta.Count == tb.Count && tm.isSame(ta.Elem, tb.Elem, depth+1)
	case TypeOpaque, TypeTmp:
		return ta.Name == tb.Name
	case TypeStruct, TypeUnion:
		return tm.sameList(ta.Fields, tb.Fields, depth)
	case TypeFn:
		return ta.Variadic == tb.Variadic &&
			tm.isSame(ta.Ret, tb.Ret, depth+1) &&
			tm.sameList(ta.Params, tb.Params, depth)
	default:
		// primitives have fixed ids, a == b was checked above
		return false
	}
}

func (tm *TypeManager) sameList(a, b []TypeID, depth int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tm.isSame(a[i], b[i], depth+1) {
			return false
		}
	}
	return true
}

// SizeBits returns the bit size of id. ptrBytes is the native pointer width.
// The second result is false when the size is unknown.
func (tm *TypeManager) SizeBits(id TypeID, ptrBytes int) (uint64, bool) {
	return tm.sizeBits(id, ptrBytes, 0)
}

func (tm *TypeManager) sizeBits(id TypeID, ptrBytes, depth int) (uint64, bool) {
	t, ok := tm.Lookup(id)
	if !ok || depth > 256 {
		return 0, false
	}
	switch t.Kind {
	case TypeU1, TypeU8, TypeI8:
		// u1 is stored in a byte
		return 8, true
	case TypeU16, TypeI16, TypeF16:
		return 16, true
	case TypeU32, TypeI32, TypeF32:
		return 32, true
	case TypeU64, TypeI64, TypeF64:
		return 64, true
	case TypeU128, TypeI128, TypeF128:
		return 128, true
	case TypeVoid:
		return 0, true
	case TypePtr, TypeFn:
		if ptrBytes <= 0 {
			return 0, false
		}
		bytes, err := safecast.Conv[uint64](ptrBytes)
		if err != nil {
			return 0, false
		}
		return bytes * 8, true
	case TypeConst:
		return tm.sizeBits(t.Elem, ptrBytes, depth+1)
	case TypeArray:
		elem, ok := tm.sizeBits(t.Elem, ptrBytes, depth+1)
		if !ok {
			return 0, false
		}
		hi, lo := bits.Mul64(elem, t.Count)
		if hi != 0 {
			// не влезает в uint64: размер неизвестен
			return 0, false
		}
		return lo, true
	case TypeStruct:
		var total, carry uint64
		for _, f := range t.Fields {
			sz, ok := tm.sizeBits(f, ptrBytes, depth+1)
			if !ok {
				return 0, false
			}
			total, carry = bits.Add64(total, sz, 0)
			if carry != 0 {
				return 0, false
			}
		}
		return total, true
	case TypeUnion:
		var largest uint64
		for _, f := range t.Fields {
			sz, ok := tm.sizeBits(f, ptrBytes, depth+1)
			if !ok {
				return 0, false
			}
			largest = max(largest, sz)
		}
		return largest, true
	case TypeOpaque, TypeTmp:
		return 0, false
	default:
		panic(fmt.Sprintf("ir: SizeBits: unhandled type kind %s", t.Kind))
	}
}

// Format renders id the way types are written in source.
func (tm *TypeManager) Format(id TypeID) string {
	return tm.format(id, 0)
}

func (tm *TypeManager) format(id TypeID, depth int) string {
	t, ok := tm.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	if depth > 8 {
		return "..."
	}
	switch t.Kind {
	case TypePtr:
		return "*" + tm.format(t.Elem, depth+1)
	case TypeConst:
		return "const " + tm.format(t.Elem, depth+1)
	case TypeArray:
		return fmt.Sprintf("[%s; %d]", tm.format(t.Elem, depth+1), t.Count)
	case TypeOpaque:
		return "opaque(" + t.Name + ")"
	case TypeTmp:
		if t.Name == "" {
			return "?"
		}
		return "?" + t.Name
	case TypeStruct, TypeUnion:
		if t.Name != "" {
			return t.Name
		}
		s := t.Kind.String() + " {"
		for i, f := range t.Fields {
			if i > 0 {
				s += ","
			}
			s += " " + tm.format(f, depth+1)
		}
		return s + " }"
	case TypeFn:
		s := "fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += tm.format(p, depth+1)
		}
		if t.Variadic {
			if len(t.Params) > 0 {
				s += ", "
			}
			s += "..."
		}
		return s + "): " + tm.format(t.Ret, depth+1)
	default:
		return t.Kind.String()
	}
}
