package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Builder owns every node of one compilation unit.
type Builder struct {
	Strings *source.Interner
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *Types
	Exts    *Exts
}

// NewBuilder creates an empty builder. A nil interner selects the process-wide table.
func NewBuilder(strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.Strings()
	}
	return &Builder{
		Strings: strings,
		Stmts:   NewStmts(),
		Exprs:   NewExprs(),
		Types:   NewTypes(),
		Exts:    NewExts(),
	}
}

// Intern is a shortcut for b.Strings.Intern.
func (b *Builder) Intern(s string) source.StringID {
	return b.Strings.Intern(s)
}

// Str resolves an interned string; NoStringID yields "".
func (b *Builder) Str(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	return b.Strings.MustLookup(id)
}

// StmtExt returns the extension record of a statement, creating it on demand.
func (b *Builder) StmtExt(id StmtID) *Ext {
	st := b.Stmts.Get(id)
	if st == nil {
		return nil
	}
	if !st.Ext.IsValid() {
		st.Ext = b.Exts.New(Ext{})
	}
	return b.Exts.Get(st.Ext)
}

// Comments returns the comments attached to a statement.
func (b *Builder) Comments(id StmtID) []string {
	st := b.Stmts.Get(id)
	if st == nil || !st.Ext.IsValid() {
		return nil
	}
	ext := b.Exts.Get(st.Ext)
	out := make([]string, len(ext.Comments))
	for i, c := range ext.Comments {
		out[i] = b.Str(c)
	}
	return out
}
