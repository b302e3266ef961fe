package serial

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags a decoded Value.
type ValueKind uint8

const (
	NullValue ValueKind = iota
	BoolValue
	UintValue
	IntValue
	DoubleValue
	StrValue
	ArrValue
	ObjValue
)

func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "null"
	case BoolValue:
		return "bool"
	case UintValue:
		return "uint"
	case IntValue:
		return "int"
	case DoubleValue:
		return "double"
	case StrValue:
		return "str"
	case ArrValue:
		return "arr"
	case ObjValue:
		return "obj"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object; order is preserved.
type Member struct {
	Key string
	Val Value
}

// Value is a decoded document in either wire format.
type Value struct {
	Kind ValueKind
	B    bool
	U    uint64
	I    int64
	F    float64
	S    string
	Arr  []Value
	Obj  []Member
}

// Visit replays v into vis, so a document can be re-encoded in another format.
func (v Value) Visit(vis Visitor) {
	switch v.Kind {
	case NullValue:
		vis.Null()
	case BoolValue:
		vis.Bool(v.B)
	case UintValue:
		vis.Uint(v.U)
	case IntValue:
		// the visitor has no signed form
		vis.Double(float64(v.I))
	case DoubleValue:
		vis.Double(v.F)
	case StrValue:
		vis.Str(v.S)
	case ArrValue:
		vis.BeginArr(len(v.Arr))
		for _, e := range v.Arr {
			e.Visit(vis)
		}
		vis.EndArr()
	case ObjValue:
		vis.BeginObj(len(v.Obj))
		for _, m := range v.Obj {
			vis.Str(m.Key)
			m.Val.Visit(vis)
		}
		vis.EndObj()
	}
}

// AsUint accepts unsigned values and integral doubles.
func (v Value) AsUint() (uint64, bool) {
	switch v.Kind {
	case UintValue:
		return v.U, true
	case IntValue:
		if v.I >= 0 {
			return uint64(v.I), true
		}
	case DoubleValue:
		if v.F >= 0 && v.F == float64(uint64(v.F)) {
			return uint64(v.F), true
		}
	}
	return 0, false
}

// AsDouble accepts any numeric value.
func (v Value) AsDouble() (float64, bool) {
	switch v.Kind {
	case UintValue:
		return float64(v.U), true
	case IntValue:
		return float64(v.I), true
	case DoubleValue:
		return v.F, true
	}
	return 0, false
}

// Field looks up an object member.
func (v Value) Field(key string) (Value, bool) {
	for _, m := range v.Obj {
		if m.Key == key {
			return m.Val, true
		}
	}
	return Value{}, false
}

// String renders v as compact JSON-like text for error messages and tests.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.Kind {
	case NullValue:
		sb.WriteString("null")
	case BoolValue:
		sb.WriteString(strconv.FormatBool(v.B))
	case UintValue:
		sb.WriteString(strconv.FormatUint(v.U, 10))
	case IntValue:
		sb.WriteString(strconv.FormatInt(v.I, 10))
	case DoubleValue:
		sb.WriteString(strconv.FormatFloat(v.F, 'g', -1, 64))
	case StrValue:
		sb.WriteString(strconv.Quote(v.S))
	case ArrValue:
		sb.WriteByte('[')
		for i, e := range v.Arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case ObjValue:
		sb.WriteByte('{')
		for i, m := range v.Obj {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(m.Key))
			sb.WriteByte(':')
			m.Val.write(sb)
		}
		sb.WriteByte('}')
	}
}

// ShapeError reports a document that does not match the expected framing.
type ShapeError struct {
	Path string
	Want string
	Got  Value
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("serial: %s: expected %s, got %s", e.Path, e.Want, e.Got.Kind)
}
