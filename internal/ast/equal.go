package ast

import (
	"bytes"

	"github.com/cespare/xxhash/v2"

	"github.com/Kracken256/nitrate-sub001/internal/serial"
)

// Structural identity is defined over the position-free MsgPack encoding:
// two trees are equal when they encode to the same bytes.

func (b *Builder) stmtBytes(id StmtID) []byte {
	w := serial.NewMsgPackWriter()
	NewEncoder(w, b, nil, false).Stmt(id)
	return w.Bytes()
}

func (b *Builder) exprBytes(id ExprID) []byte {
	w := serial.NewMsgPackWriter()
	NewEncoder(w, b, nil, false).Expr(id)
	return w.Bytes()
}

// StmtHash returns a structural hash that ignores positions and comments.
func (b *Builder) StmtHash(id StmtID) uint64 {
	return xxhash.Sum64(b.stmtBytes(id))
}

// ExprHash is StmtHash for expressions.
func (b *Builder) ExprHash(id ExprID) uint64 {
	return xxhash.Sum64(b.exprBytes(id))
}

// StmtEqual compares two statements structurally. The trees may live in
// different builders.
func StmtEqual(a *Builder, x StmtID, b *Builder, y StmtID) bool {
	if a == b && x == y {
		return true
	}
	return bytes.Equal(a.stmtBytes(x), b.stmtBytes(y))
}

// ExprEqual compares two expressions structurally.
func ExprEqual(a *Builder, x ExprID, b *Builder, y ExprID) bool {
	if a == b && x == y {
		return true
	}
	return bytes.Equal(a.exprBytes(x), b.exprBytes(y))
}
