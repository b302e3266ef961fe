package macro

import (
	"errors"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

func isNameByte(b byte) bool {
	return b == '_' || b == '.' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func isFunctionDefinition(body string) bool {
	if !strings.HasPrefix(body, "fn") || len(body) < 3 {
		return false
	}
	switch body[2] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// rewriteFunction turns `fn name(params) { body }` into
// `function name(params) body end`.
func rewriteFunction(def string) (name, src string, err error) {
	rest := strings.TrimSpace(def[2:])
	i := 0
	for i < len(rest) && isNameByte(rest[i]) {
		i++
	}
	name = rest[:i]
	if name == "" {
		return "", "", errors.New("macro function needs a name")
	}
	rest = strings.TrimSpace(rest[i:])
	if !strings.HasPrefix(rest, "(") {
		return "", "", errors.New("macro function '" + name + "': expected '(' after the name")
	}
	closing := strings.IndexByte(rest, ')')
	if closing < 0 {
		return "", "", errors.New("macro function '" + name + "': unterminated parameter list")
	}
	params := rest[1:closing]
	rest = strings.TrimSpace(rest[closing+1:])
	if !strings.HasPrefix(rest, "{") || !strings.HasSuffix(rest, "}") {
		return "", "", errors.New("macro function '" + name + "': body must be enclosed in braces")
	}
	body := rest[1 : len(rest)-1]
	return name, "function " + name + "(" + params + ")\n" + body + "\nend", nil
}

// rawChunk lets a block be a bare expression: `@(1 + 2)` yields 3.
func rawChunk(c *Core, body string) string {
	if _, err := c.L.LoadString("return " + body); err == nil {
		return "return " + body
	}
	return body
}

// splitCall separates "name(args)" into its parts.
func splitCall(text string) (name, args string, hasArgs bool) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return text, "", false
	}
	return text[:open], text[open+1 : len(text)-1], true
}

// isFunction resolves a possibly dotted name to a Lua function.
func (c *Core) isFunction(name string) bool {
	parts := strings.Split(name, ".")
	v := c.L.GetGlobal(parts[0])
	for _, p := range parts[1:] {
		if _, ok := v.(*lua.LTable); !ok {
			return false
		}
		v = c.L.GetField(v, p)
	}
	return v.Type() == lua.LTFunction
}
