package serial

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// maxNesting bounds reader recursion on hostile input.
const maxNesting = 10000

var errTooDeep = errors.New("serial: document nested too deeply")

// ParseJSON decodes a single JSON document, keeping object member order.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec, 0)
	if err != nil {
		return Value{}, fmt.Errorf("serial: json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("serial: json: trailing data after document")
	}
	return v, nil
}

func readJSON(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxNesting {
		return Value{}, errTooDeep
	}
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Value{Kind: NullValue}, nil
	case bool:
		return Value{Kind: BoolValue, B: t}, nil
	case string:
		return Value{Kind: StrValue, S: t}, nil
	case json.Number:
		return jsonNumber(t)
	case json.Delim:
		switch t {
		case '[':
			out := Value{Kind: ArrValue}
			for dec.More() {
				e, err := readJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				out.Arr = append(out.Arr, e)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return out, nil
		case '{':
			out := Value{Kind: ObjValue}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T", kt)
				}
				val, err := readJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				out.Obj = append(out.Obj, Member{Key: key, Val: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return out, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func jsonNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if strings.HasPrefix(s, "-") {
			i, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return Value{Kind: IntValue, I: i}, nil
			}
		} else if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return Value{Kind: UintValue, U: u}, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("bad number %q: %w", s, err)
	}
	return Value{Kind: DoubleValue, F: f}, nil
}

// ParseMsgPack decodes a single MsgPack document, keeping map member order.
func ParseMsgPack(data []byte) (Value, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	v, err := readMsgPack(dec, 0)
	if err != nil {
		return Value{}, fmt.Errorf("serial: msgpack: %w", err)
	}
	if r.Len() != 0 {
		return Value{}, fmt.Errorf("serial: msgpack: %d trailing bytes after document", r.Len())
	}
	return v, nil
}

func readMsgPack(dec *msgpack.Decoder, depth int) (Value, error) {
	if depth > maxNesting {
		return Value{}, errTooDeep
	}
	c, err := dec.PeekCode()
	if err != nil {
		return Value{}, err
	}
	switch {
	case c == msgpcode.Nil:
		return Value{Kind: NullValue}, dec.DecodeNil()
	case c == msgpcode.True || c == msgpcode.False:
		b, err := dec.DecodeBool()
		return Value{Kind: BoolValue, B: b}, err
	case c <= msgpcode.PosFixedNumHigh || c == msgpcode.Uint8 || c == msgpcode.Uint16 ||
		c == msgpcode.Uint32 || c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		return Value{Kind: UintValue, U: u}, err
	case msgpcode.IsFixedNum(c) || c == msgpcode.Int8 || c == msgpcode.Int16 ||
		c == msgpcode.Int32 || c == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		return Value{Kind: IntValue, I: i}, err
	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		return Value{Kind: DoubleValue, F: f}, err
	case msgpcode.IsString(c) || msgpcode.IsBin(c):
		s, err := dec.DecodeString()
		return Value{Kind: StrValue, S: s}, err
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, err
		}
		out := Value{Kind: ArrValue, Arr: make([]Value, 0, max(n, 0))}
		for i := 0; i < n; i++ {
			e, err := readMsgPack(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Arr = append(out.Arr, e)
		}
		return out, nil
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, err
		}
		out := Value{Kind: ObjValue, Obj: make([]Member, 0, max(n, 0))}
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return Value{}, err
			}
			val, err := readMsgPack(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Obj = append(out.Obj, Member{Key: key, Val: val})
		}
		return out, nil
	}
	return Value{}, fmt.Errorf("unsupported code 0x%02x", c)
}
