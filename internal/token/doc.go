// Package token defines lexical token kinds for Nitrate source.
// Invariants:
//   - Token.Text is the exact source slice for the token, quotes included for
//     string and char literals.
//   - Scoped names (a::b::c) are a single Ident token.
//   - Comments are Note tokens; the lexer produces them only when asked to.
//   - Primitive type names (u8, i32, f64, ...) are identifiers, resolved by the parser.
package token
