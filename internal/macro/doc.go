// Package macro implements the Sequencer: a token stream that sits between the
// lexer and the parser and expands macros with an embedded Lua interpreter.
//
// Three token shapes trigger expansion:
//
//	name         a definition bound under "def.name" in the environment
//	@( ... )     a Lua block; "fn name(args) { body }" defines a macro function
//	@name(args)  a call of a macro function; the result is re-tokenized
//
// Expansion text is scanned by a child sequencer one level deeper, so macros
// can produce macros. The depth is bounded and exceeding it stops the unit.
package macro
