package serial

// Visitor receives a serialized value depth-first.
// Inside an object, values alternate key (Str) then value.
type Visitor interface {
	Str(s string)
	Uint(v uint64)
	Double(v float64)
	Bool(v bool)
	Null()
	BeginObj(n int)
	EndObj()
	BeginArr(n int)
	EndArr()
}

// Writer is a Visitor that produces bytes.
type Writer interface {
	Visitor
	// Err returns the first write error.
	Err() error
	Bytes() []byte
}

// Format selects a wire backend.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgPack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgPack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// NewWriter returns an in-memory writer for f.
func NewWriter(f Format) Writer {
	if f == FormatMsgPack {
		return NewMsgPackWriter()
	}
	return NewJSONWriter()
}

// Decode parses data written in format f.
func Decode(f Format, data []byte) (Value, error) {
	if f == FormatMsgPack {
		return ParseMsgPack(data)
	}
	return ParseJSON(data)
}
