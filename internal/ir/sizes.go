package ir

import (
	"fmt"
	"sort"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// PassSizes is the bookkeeping name of ComputeSizes.
const PassSizes = "size_bits"

// SizeBits returns the bit size of t using the module's pointer width.
func (m *Module) SizeBits(t TypeID) (uint64, bool) {
	return m.Types.SizeBits(t, m.GetConf().PtrSize())
}

// ComputeSizes fills m.Sizes for every named type. Unknown sizes are
// reported at Info level and never fail the pass.
func ComputeSizes(m *Module) bool {
	return m.ApplyPass(PassSizes, func() bool {
		rep := m.Diag.Reporter(m.Ticket(PassSizes))
		names := make([]string, 0, len(m.TypeDefs))
		for name := range m.TypeDefs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sz, ok := m.SizeBits(m.TypeDefs[name])
			if !ok {
				rep.Report(diag.SemaUnknownSize, diag.SevInfo, source.Span{},
					fmt.Sprintf("size of '%s' is unknown", name), nil)
				continue
			}
			m.Sizes[name] = sz
		}
		return true
	})
}
