package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/arena"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Ext holds rarely used node metadata outside the node headers:
// a resolved location pair and the comments attached to the node.
type Ext struct {
	Start    source.LineCol
	End      source.LineCol
	Comments []source.StringID
}

// Exts is the extension side-table of one Builder.
type Exts struct {
	Arena *arena.Typed[Ext]
}

func NewExts() *Exts {
	return &Exts{Arena: arena.NewTyped[Ext]()}
}

func (e *Exts) New(ext Ext) ExtID {
	return ExtID(e.Arena.Allocate(ext))
}

func (e *Exts) Get(id ExtID) *Ext {
	return e.Arena.Get(uint32(id))
}
