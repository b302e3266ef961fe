package diag

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Ticket identifies an audit channel inside a Manager.
type Ticket int32

const (
	// TicketAll aggregates every channel.
	TicketAll Ticket = -1
	// TicketLast is the most recently touched channel.
	TicketLast Ticket = -2
)

type channel struct {
	items []Diagnostic
	seen  map[uint64]struct{}
}

// Manager keeps diagnostics per audit ticket. A diagnostic with the same code,
// location and text is stored once per channel.
type Manager struct {
	mu       sync.Mutex
	fs       *source.FileSet
	channels map[Ticket]*channel
	last     Ticket
	next     Ticket
}

// NewManager creates a manager; fs is used for rendering and may be nil.
func NewManager(fs *source.FileSet) *Manager {
	return &Manager{
		fs:       fs,
		channels: make(map[Ticket]*channel),
	}
}

// FileSet returns the file set used to resolve locations.
func (m *Manager) FileSet() *source.FileSet { return m.fs }

// NewTicket allocates a fresh channel id.
func (m *Manager) NewTicket() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.next
	m.next++
	return t
}

// Push records d in channel t and reports whether it was new.
func (m *Manager) Push(t Ticket, d Diagnostic) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch t {
	case TicketAll:
		panic("diag: push into TicketAll")
	case TicketLast:
		t = m.last
	}
	ch := m.channels[t]
	if ch == nil {
		ch = &channel{seen: make(map[uint64]struct{})}
		m.channels[t] = ch
	}
	m.last = t
	if t >= m.next {
		m.next = t + 1
	}
	h := hashDiagnostic(d)
	if _, dup := ch.seen[h]; dup {
		return false
	}
	ch.seen[h] = struct{}{}
	ch.items = append(ch.items, d)
	return true
}

// Count returns the number of stored diagnostics for t.
func (m *Manager) Count(t Ticket) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ch := range m.resolve(t) {
		n += len(ch.items)
	}
	return n
}

// Clear drops the diagnostics of t.
func (m *Manager) Clear(t Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t == TicketAll {
		m.channels = make(map[Ticket]*channel)
		return
	}
	if t == TicketLast {
		t = m.last
	}
	delete(m.channels, t)
}

// Items returns the diagnostics of t. For TicketAll channels are ordered by id.
func (m *Manager) Items(t Ticket) []Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Diagnostic
	for _, ch := range m.resolve(t) {
		out = append(out, ch.items...)
	}
	return out
}

// HasErrors reports whether t holds a diagnostic at SevError or above.
func (m *Manager) HasErrors(t Ticket) bool {
	for _, d := range m.Items(t) {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Render formats every diagnostic of t and passes each to handler.
func (m *Manager) Render(t Ticket, handler func(string), style Style) {
	items := m.Items(t)
	r := newRenderer(m.fs, style)
	for i := range items {
		handler(r.format(&items[i]))
	}
}

// Reporter returns a Reporter that pushes into channel t.
func (m *Manager) Reporter(t Ticket) Reporter {
	return ticketReporter{m: m, t: t}
}

func (m *Manager) resolve(t Ticket) []*channel {
	switch t {
	case TicketAll:
		ids := make([]Ticket, 0, len(m.channels))
		for id := range m.channels {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out := make([]*channel, 0, len(ids))
		for _, id := range ids {
			out = append(out, m.channels[id])
		}
		return out
	case TicketLast:
		t = m.last
	}
	if ch := m.channels[t]; ch != nil {
		return []*channel{ch}
	}
	return nil
}

type ticketReporter struct {
	m *Manager
	t Ticket
}

func (r ticketReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	r.m.Push(r.t, Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

func hashDiagnostic(d Diagnostic) uint64 {
	var buf [14]byte
	binary.LittleEndian.PutUint16(buf[0:], uint16(d.Code))
	binary.LittleEndian.PutUint32(buf[2:], uint32(d.Primary.File))
	binary.LittleEndian.PutUint32(buf[6:], d.Primary.Start)
	binary.LittleEndian.PutUint32(buf[10:], d.Primary.End)
	h := xxhash.New()
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(d.Message)
	return h.Sum64()
}

// FormatShort renders one line per diagnostic: "SEVERITY CODE path:line:col message".
// Diagnostics are sorted by location so the output is stable.
func FormatShort(items []Diagnostic, fs *source.FileSet) string {
	sorted := make([]Diagnostic, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Primary, sorted[j].Primary
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})
	out := ""
	for i, d := range sorted {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%s %s %s %s", d.Severity, d.Code.ID(), locationOf(fs, d.Primary), d.Message)
	}
	return out
}

func locationOf(fs *source.FileSet, sp source.Span) string {
	if fs == nil || int(sp.File) >= fs.Len() {
		return fmt.Sprintf("<%d>:%d", sp.File, sp.Start)
	}
	return fs.Location(sp).String()
}
