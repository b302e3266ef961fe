package serial

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

type jsonFrame struct {
	obj   bool
	count int
}

// JSONWriter writes compact JSON with no whitespace.
type JSONWriter struct {
	buf   bytes.Buffer
	stack []jsonFrame
	err   error
}

func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

func (w *JSONWriter) Bytes() []byte  { return w.buf.Bytes() }
func (w *JSONWriter) String() string { return w.buf.String() }
func (w *JSONWriter) Err() error     { return w.err }

// sep writes the separator that precedes the next value.
func (w *JSONWriter) sep() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	switch {
	case top.obj && top.count%2 == 1:
		w.buf.WriteByte(':')
	case top.count > 0:
		w.buf.WriteByte(',')
	}
	top.count++
}

func (w *JSONWriter) Str(s string) {
	w.sep()
	writeJSONString(&w.buf, s)
}

func (w *JSONWriter) Uint(v uint64) {
	w.sep()
	w.buf.WriteString(strconv.FormatUint(v, 10))
}

func (w *JSONWriter) Double(v float64) {
	w.sep()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.buf.WriteString("null")
		return
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	w.buf.WriteString(s)
}

func (w *JSONWriter) Bool(v bool) {
	w.sep()
	if v {
		w.buf.WriteString("true")
	} else {
		w.buf.WriteString("false")
	}
}

func (w *JSONWriter) Null() {
	w.sep()
	w.buf.WriteString("null")
}

func (w *JSONWriter) BeginObj(int) {
	w.sep()
	w.buf.WriteByte('{')
	w.stack = append(w.stack, jsonFrame{obj: true})
}

func (w *JSONWriter) EndObj() {
	w.pop(true)
	w.buf.WriteByte('}')
}

func (w *JSONWriter) BeginArr(int) {
	w.sep()
	w.buf.WriteByte('[')
	w.stack = append(w.stack, jsonFrame{})
}

func (w *JSONWriter) EndArr() {
	w.pop(false)
	w.buf.WriteByte(']')
}

func (w *JSONWriter) pop(obj bool) {
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].obj != obj {
		if w.err == nil {
			w.err = fmt.Errorf("json: unbalanced end (object=%t)", obj)
		}
		return
	}
	top := w.stack[len(w.stack)-1]
	if obj && top.count%2 == 1 && w.err == nil {
		w.err = fmt.Errorf("json: object key without value")
	}
	w.stack = w.stack[:len(w.stack)-1]
}

const hexDigits = "0123456789abcdef"

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf.WriteByte('\\')
				buf.WriteByte(c)
			case c == '\n':
				buf.WriteString(`\n`)
			case c == '\r':
				buf.WriteString(`\r`)
			case c == '\t':
				buf.WriteString(`\t`)
			case c < 0x20 || c == 0x7f:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			default:
				buf.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString(`\ufffd`)
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
