// Package serial implements the visitor contract used to serialize tokens,
// AST and IR, with JSON and MsgPack backends and a reader for both.
//
// Nodes are framed as arrays: [kind, payload..., startLine, startCol, endLine, endCol].
package serial
