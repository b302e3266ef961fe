package serial

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackWriter encodes visitor calls with the compact MsgPack forms
// (fixint, fixstr, fixarray where they fit).
type MsgPackWriter struct {
	buf bytes.Buffer
	enc *msgpack.Encoder
	err error
}

func NewMsgPackWriter() *MsgPackWriter {
	w := &MsgPackWriter{}
	w.enc = msgpack.NewEncoder(&w.buf)
	return w
}

func (w *MsgPackWriter) Bytes() []byte { return w.buf.Bytes() }
func (w *MsgPackWriter) Err() error    { return w.err }

func (w *MsgPackWriter) keep(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

func (w *MsgPackWriter) Str(s string)     { w.keep(w.enc.EncodeString(s)) }
func (w *MsgPackWriter) Uint(v uint64)    { w.keep(w.enc.EncodeUint(v)) }
func (w *MsgPackWriter) Double(v float64) { w.keep(w.enc.EncodeFloat64(v)) }
func (w *MsgPackWriter) Bool(v bool)      { w.keep(w.enc.EncodeBool(v)) }
func (w *MsgPackWriter) Null()            { w.keep(w.enc.EncodeNil()) }
func (w *MsgPackWriter) BeginObj(n int)   { w.keep(w.enc.EncodeMapLen(n)) }
func (w *MsgPackWriter) EndObj()          {}
func (w *MsgPackWriter) BeginArr(n int)   { w.keep(w.enc.EncodeArrayLen(n)) }
func (w *MsgPackWriter) EndArr()          {}
