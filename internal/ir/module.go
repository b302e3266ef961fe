package ir

import (
	"fmt"
	"sort"
	"sync"

	"fortio.org/safecast"

	"github.com/Kracken256/nitrate-sub001/internal/arena"
	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// ModuleID is a slot in a Registry.
type ModuleID uint16

// Field is a named member of a struct or union definition.
type Field struct {
	Name    string
	Type    TypeID
	Default NodeID
}

// Module owns the IR of one compilation unit.
type Module struct {
	id   ModuleID
	name string

	Types   *TypeManager
	Strings *source.Interner
	Diag    *diag.Manager

	nodes *arena.Typed[Node]
	Root  NodeID

	Functions map[string]NodeID
	Globals   map[string]NodeID
	TypeDefs  map[string]TypeID
	Fields    map[TypeID][]Field
	Constants map[string]NodeID
	Imports   []string
	// Sizes is filled by ComputeSizes; absent names have unknown size.
	Sizes map[string]uint64

	fnOrder    []NodeID
	ptrCache   map[TypeID]TypeID
	arrayCache map[arrayKey]TypeID

	mu      sync.Mutex
	conf    config.Conf
	passes  map[string]bool
	tickets map[string]diag.Ticket
}

func newModule(id ModuleID, name string) *Module {
	return &Module{
		id:        id,
		name:      name,
		Types:     NewTypeManager(),
		Strings:   source.NewInterner(),
		Diag:      diag.NewManager(nil),
		nodes:     arena.NewTyped[Node](),
		Functions: make(map[string]NodeID),
		Globals:   make(map[string]NodeID),
		TypeDefs:  make(map[string]TypeID),
		Fields:    make(map[TypeID][]Field),
		Constants: make(map[string]NodeID),
		Sizes:     make(map[string]uint64),
		conf:      config.Default(),
		passes:    make(map[string]bool),
		tickets:   make(map[string]diag.Ticket),
	}
}

// NewModule creates a module outside any registry. Its id is 0.
func NewModule(name string) *Module { return newModule(0, name) }

func (m *Module) ID() ModuleID { return m.id }
func (m *Module) Name() string { return m.name }

// SetConf replaces the module's option store.
func (m *Module) SetConf(c config.Conf) {
	m.mu.Lock()
	m.conf = c
	m.mu.Unlock()
}

// GetConf returns the module's option store.
func (m *Module) GetConf() config.Conf {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conf
}

// UseFileSet makes diagnostics of this module resolvable against fs.
// Diagnostics pushed before the call are kept.
func (m *Module) UseFileSet(fs *source.FileSet) {
	old := m.Diag
	m.Diag = diag.NewManager(fs)
	for name, t := range m.tickets {
		nt := m.Diag.NewTicket()
		for _, d := range old.Items(t) {
			m.Diag.Push(nt, d)
		}
		m.tickets[name] = nt
	}
}

// Ticket returns the diagnostics channel of a pass, allocating it on first use.
func (m *Module) Ticket(pass string) diag.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tickets[pass]; ok {
		return t
	}
	t := m.Diag.NewTicket()
	m.tickets[pass] = t
	return t
}

// ApplyPass runs fn once per pass name; later calls return the first result.
func (m *Module) ApplyPass(name string, fn func() bool) bool {
	m.mu.Lock()
	if ok, done := m.passes[name]; done {
		m.mu.Unlock()
		return ok
	}
	m.mu.Unlock()
	ok := fn()
	m.mu.Lock()
	m.passes[name] = ok
	m.mu.Unlock()
	return ok
}

// HasPass reports whether the named pass ran.
func (m *Module) HasPass(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, done := m.passes[name]
	return done
}

// Passes returns the names of applied passes, sorted.
func (m *Module) Passes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.passes))
	for name := range m.passes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Nodes ---------------------------------------------------------------------

// New allocates a node and returns its handle.
func (m *Module) New(kind NodeKind, span source.Span, data NodeData) NodeID {
	return NodeID(m.nodes.Allocate(Node{Kind: kind, Span: span, Data: data}))
}

// Node returns the node for id, nil for NoNodeID.
func (m *Module) Node(id NodeID) *Node {
	return m.nodes.Get(uint32(id))
}

// NodeCount returns the number of allocated nodes.
func (m *Module) NodeCount() int {
	n, err := safecast.Conv[int](m.nodes.Len())
	if err != nil {
		panic(fmt.Errorf("node count overflow: %w", err))
	}
	return n
}

// Fn returns the payload of a Fn node.
func (m *Module) Fn(id NodeID) (*FnData, bool) {
	n := m.Node(id)
	if n == nil || n.Kind != NodeFn {
		return nil, false
	}
	d, ok := n.Data.(*FnData)
	return d, ok
}

// Local returns the payload of a Local node.
func (m *Module) Local(id NodeID) (*LocalData, bool) {
	n := m.Node(id)
	if n == nil || n.Kind != NodeLocal {
		return nil, false
	}
	d, ok := n.Data.(*LocalData)
	return d, ok
}

// FunctionsInOrder returns every registered Fn node in declaration order.
func (m *Module) FunctionsInOrder() []NodeID {
	return append([]NodeID(nil), m.fnOrder...)
}

// Walk visits id and its children depth-first. Returning false from fn skips the children.
func (m *Module) Walk(id NodeID, fn func(id NodeID, n *Node) bool) {
	n := m.Node(id)
	if n == nil {
		return
	}
	if !fn(id, n) {
		return
	}
	for _, c := range n.Children() {
		m.Walk(c, fn)
	}
}
