package ir

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
)

// PassCheckReturns is the bookkeeping name of CheckReturns.
const PassCheckReturns = "check_returns"

// CheckReturns verifies every function with a body against its declared
// return type. Declarations are skipped. No implicit numeric conversion is
// applied; untyped literals adopt the declared type of their own family.
// It reports false when any function failed.
func CheckReturns(m *Module) bool {
	return m.ApplyPass(PassCheckReturns, func() bool {
		rep := m.Diag.Reporter(m.Ticket(PassCheckReturns))
		fast := m.GetConf().FastError()
		ok := true
		for _, fn := range m.fnOrder {
			if checkFnReturns(m, fn, rep) {
				continue
			}
			ok = false
			if fast {
				n := m.Node(fn)
				rep.Report(diag.SemaFastErrorAbort, diag.SevFatal, n.Span, "return check aborted after first error (-ffasterror)", nil)
				break
			}
		}
		return ok
	})
}

func checkFnReturns(m *Module, fn NodeID, rep diag.Reporter) bool {
	fd, ok := m.Fn(fn)
	if !ok || fd.IsDecl() {
		return true
	}
	span := m.Node(fn).Span
	want := fd.Ret
	isVoid := m.Types.Kind(want) == TypeVoid

	var rets []NodeID
	m.Walk(fd.Body, func(id NodeID, n *Node) bool {
		switch n.Kind {
		case NodeRet:
			rets = append(rets, id)
		case NodeFn:
			return false
		}
		return true
	})

	if len(rets) == 0 {
		if isVoid {
			return true
		}
		rep.Report(diag.SemaMissingReturn, diag.SevError, span,
			fmt.Sprintf("function '%s' returns %s but has no return statement", fd.Name, m.Types.Format(want)), nil)
		return false
	}

	ok = true
	for _, r := range rets {
		n := m.Node(r)
		rd, _ := n.Data.(*RetData)
		if !rd.Value.IsValid() {
			if !isVoid {
				rep.Report(diag.SemaReturnTypeMismatch, diag.SevError, n.Span,
					fmt.Sprintf("return without a value in '%s', which returns %s", fd.Name, m.Types.Format(want)), nil)
				ok = false
			}
			continue
		}
		if lk, untyped := UntypedLiteral(m, rd.Value); untyped && literalFits(m, lk, want) {
			continue
		}
		got, inferred := InferType(m, rd.Value)
		if !inferred {
			rep.Report(diag.SemaTypeInference, diag.SevError, m.Node(rd.Value).Span,
				fmt.Sprintf("cannot infer the type of the value returned from '%s'", fd.Name), nil)
			ok = false
			continue
		}
		if !m.Types.IsSame(got, want) {
			rep.Report(diag.SemaReturnTypeMismatch, diag.SevError, n.Span,
				fmt.Sprintf("'%s' returns %s, but this returns %s", fd.Name, m.Types.Format(want), m.Types.Format(got)), nil)
			ok = false
		}
	}
	return ok
}
