package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Style selects how Render colours its output.
type Style uint8

const (
	StylePlain Style = iota
	StyleANSI16
	StyleTrueColor
)

// ParseStyle maps "plain", "ansi" and "truecolor" to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "", "plain", "none":
		return StylePlain, nil
	case "ansi", "ansi16", "16":
		return StyleANSI16, nil
	case "truecolor", "rgb", "24bit":
		return StyleTrueColor, nil
	}
	return StylePlain, fmt.Errorf("unknown render style %q", s)
}

type palette struct {
	sev   map[Severity]*color.Color
	loc   *color.Color
	caret *color.Color
	gut   *color.Color
}

func newPalette(style Style) *palette {
	var p *palette
	switch style {
	case StyleANSI16:
		p = &palette{
			sev: map[Severity]*color.Color{
				SevDebug:   color.New(color.FgBlue),
				SevInfo:    color.New(color.FgCyan, color.Bold),
				SevWarning: color.New(color.FgYellow, color.Bold),
				SevError:   color.New(color.FgRed, color.Bold),
				SevFatal:   color.New(color.FgMagenta, color.Bold),
			},
			loc:   color.New(color.Bold),
			caret: color.New(color.FgGreen, color.Bold),
			gut:   color.New(color.FgBlue),
		}
	case StyleTrueColor:
		p = &palette{
			sev: map[Severity]*color.Color{
				SevDebug:   color.RGB(130, 170, 255),
				SevInfo:    color.RGB(95, 215, 255).Add(color.Bold),
				SevWarning: color.RGB(255, 200, 87).Add(color.Bold),
				SevError:   color.RGB(255, 95, 95).Add(color.Bold),
				SevFatal:   color.RGB(215, 95, 255).Add(color.Bold),
			},
			loc:   color.New(color.Bold),
			caret: color.RGB(135, 255, 135).Add(color.Bold),
			gut:   color.RGB(120, 120, 160),
		}
	default:
		return nil
	}
	// стиль выбран явно, не зависим от детекта терминала
	for _, c := range p.sev {
		c.EnableColor()
	}
	p.loc.EnableColor()
	p.caret.EnableColor()
	p.gut.EnableColor()
	return p
}

type renderer struct {
	fs  *source.FileSet
	pal *palette
}

func newRenderer(fs *source.FileSet, style Style) *renderer {
	return &renderer{fs: fs, pal: newPalette(style)}
}

func (r *renderer) paint(c *color.Color, s string) string {
	if r.pal == nil || c == nil {
		return s
	}
	return c.Sprint(s)
}

func (r *renderer) format(d *Diagnostic) string {
	var b strings.Builder
	var sevColor, locColor, caretColor, gutColor *color.Color
	if r.pal != nil {
		sevColor, locColor, caretColor, gutColor = r.pal.sev[d.Severity], r.pal.loc, r.pal.caret, r.pal.gut
	}

	b.WriteString(r.paint(locColor, locationOf(r.fs, d.Primary)))
	b.WriteString(": ")
	b.WriteString(r.paint(sevColor, fmt.Sprintf("%s[%s]", d.Severity.label(), d.Code.ID())))
	b.WriteString(": ")
	b.WriteString(d.Message)

	if r.fs != nil && int(d.Primary.File) < r.fs.Len() {
		f := r.fs.Get(d.Primary.File)
		start, end := r.fs.Resolve(d.Primary)
		line := f.GetLine(start.Line)
		if line != "" {
			num := fmt.Sprintf("%d", start.Line)
			pad := strings.Repeat(" ", len(num))
			b.WriteString("\n ")
			b.WriteString(r.paint(gutColor, num+" |"))
			b.WriteString(" ")
			b.WriteString(line)
			b.WriteString("\n ")
			b.WriteString(r.paint(gutColor, pad+" |"))
			b.WriteString(" ")
			b.WriteString(caretIndent(line, start.Col))
			b.WriteString(r.paint(caretColor, underline(line, start, end)))
		}
	}
	for _, n := range d.Notes {
		b.WriteString("\n  note: ")
		b.WriteString(n.Msg)
		if r.fs != nil && int(n.Span.File) < r.fs.Len() {
			b.WriteString(" (")
			b.WriteString(locationOf(r.fs, n.Span))
			b.WriteString(")")
		}
	}
	return b.String()
}

// caretIndent reproduces the display width of line[:col-1], keeping tabs as tabs.
func caretIndent(line string, col uint32) string {
	prefix := line
	if int(col-1) < len(line) {
		prefix = line[:col-1]
	}
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(line string, start, end source.LineCol) string {
	from := int(start.Col - 1)
	if from > len(line) {
		from = len(line)
	}
	to := len(line)
	if end.Line == start.Line && int(end.Col-1) <= len(line) {
		to = int(end.Col - 1)
	}
	width := 1
	if to > from {
		width = max(1, runewidth.StringWidth(line[from:to]))
	}
	return "^" + strings.Repeat("~", width-1)
}
