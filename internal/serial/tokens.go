package serial

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// TokenRecord is a token as it appears on the wire: no file, resolved positions.
type TokenRecord struct {
	Kind  token.Kind
	Text  string
	Start source.LineCol
	End   source.LineCol
}

// Same compares kind and text, ignoring positions.
func (r TokenRecord) Same(t token.Token) bool {
	return r.Kind == t.Kind && r.Text == wireValue(t)
}

func wireValue(t token.Token) string {
	if t.Kind.IsKeyword() || t.Kind.IsOperator() || t.Kind.IsPunct() {
		return t.Kind.String()
	}
	return t.Text
}

func wireTokens(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.EOF || t.Kind == token.Invalid {
			continue
		}
		out = append(out, t)
	}
	return out
}

// WriteTokens writes toks as [[category, value, startLine, startCol, endLine, endCol], ...].
// EOF and invalid tokens are not written.
func WriteTokens(v Visitor, fs *source.FileSet, toks []token.Token) {
	toks = wireTokens(toks)
	v.BeginArr(len(toks))
	for _, t := range toks {
		start, end := fs.Resolve(t.Span)
		v.BeginArr(6)
		v.Uint(uint64(t.Kind.Category()))
		v.Str(wireValue(t))
		v.Uint(uint64(start.Line))
		v.Uint(uint64(start.Col))
		v.Uint(uint64(end.Line))
		v.Uint(uint64(end.Col))
		v.EndArr()
	}
	v.EndArr()
}

// EncodeTokens is WriteTokens into a fresh writer of format f.
func EncodeTokens(f Format, fs *source.FileSet, toks []token.Token) ([]byte, error) {
	w := NewWriter(f)
	WriteTokens(w, fs, toks)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ReadTokens rebuilds token records from a decoded token document.
func ReadTokens(doc Value) ([]TokenRecord, error) {
	if doc.Kind != ArrValue {
		return nil, &ShapeError{Path: "tokens", Want: "array", Got: doc}
	}
	out := make([]TokenRecord, 0, len(doc.Arr))
	for i, e := range doc.Arr {
		path := fmt.Sprintf("tokens[%d]", i)
		if e.Kind != ArrValue || len(e.Arr) != 6 {
			return nil, &ShapeError{Path: path, Want: "6-element array", Got: e}
		}
		cat, ok := e.Arr[0].AsUint()
		if !ok {
			return nil, &ShapeError{Path: path + "[0]", Want: "category", Got: e.Arr[0]}
		}
		if e.Arr[1].Kind != StrValue {
			return nil, &ShapeError{Path: path + "[1]", Want: "string", Got: e.Arr[1]}
		}
		c, err := safecast.Conv[uint8](cat)
		if err != nil {
			return nil, fmt.Errorf("serial: %s: category: %w", path, err)
		}
		kind, ok := token.FromCategory(token.Category(c), e.Arr[1].S)
		if !ok || kind == token.EOF {
			return nil, fmt.Errorf("serial: %s: bad token %d %q", path, cat, e.Arr[1].S)
		}
		var pos [4]uint32
		for j := range pos {
			n, ok := e.Arr[2+j].AsUint()
			if !ok {
				return nil, &ShapeError{Path: fmt.Sprintf("%s[%d]", path, 2+j), Want: "position", Got: e.Arr[2+j]}
			}
			if pos[j], err = safecast.Conv[uint32](n); err != nil {
				return nil, fmt.Errorf("serial: %s: position: %w", path, err)
			}
		}
		out = append(out, TokenRecord{
			Kind:  kind,
			Text:  e.Arr[1].S,
			Start: source.LineCol{Line: pos[0], Col: pos[1]},
			End:   source.LineCol{Line: pos[2], Col: pos[3]},
		})
	}
	return out, nil
}

// DecodeTokens parses data in format f and reads token records from it.
func DecodeTokens(f Format, data []byte) ([]TokenRecord, error) {
	doc, err := Decode(f, data)
	if err != nil {
		return nil, err
	}
	return ReadTokens(doc)
}
