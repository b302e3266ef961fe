package macro

import (
	"strings"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// Sequencer yields macro-expanded tokens. Only the root sequencer (depth 0)
// runs deferred callbacks; children are created internally per expansion.
type Sequencer struct {
	core  *Core
	lx    *lexer.Lexer
	buf   []token.Token // expanded tokens waiting in front of the lexer
	look  *token.Token
	depth int
	last  source.Span

	pending []string // n.emit / n.import text of the running chunk
}

// New creates a root sequencer over file with its own interpreter.
func New(file *source.File, opts Options) *Sequencer {
	c := newCore(opts)
	return &Sequencer{
		core: c,
		lx:   lexer.New(file, lexer.Options{Reporter: c.reporter, KeepNotes: c.keepNotes}),
		last: source.Span{File: file.ID},
	}
}

// Core returns the shared interpreter state.
func (s *Sequencer) Core() *Core { return s.core }

// SetFetchModule installs the resolver used by @import.
func (s *Sequencer) SetFetchModule(fn FetchFunc) { s.core.fetch = fn }

// Failed reports whether expansion hit an unrecoverable error.
func (s *Sequencer) Failed() bool { return s.core.Failed() }

// Err returns the cause of the failure, or nil.
func (s *Sequencer) Err() error { return s.core.Err() }

// Close releases the interpreter. The sequencer must not be used afterwards.
func (s *Sequencer) Close() { s.core.Close() }

// Next returns the next expanded token. After a failure it returns EOF.
func (s *Sequencer) Next() token.Token {
	if s.look != nil {
		t := *s.look
		s.look = nil
		return t
	}
	return s.next()
}

// Peek returns the next expanded token without consuming it.
func (s *Sequencer) Peek() token.Token {
	if s.look == nil {
		t := s.next()
		s.look = &t
	}
	return *s.look
}

// Drain reads the remaining tokens, without the trailing EOF.
func (s *Sequencer) Drain() []token.Token {
	var out []token.Token
	for {
		t := s.Next()
		if t.Kind == token.EOF {
			return out
		}
		out = append(out, t)
	}
}

func (s *Sequencer) eof() token.Token {
	return token.Token{Kind: token.EOF, Span: source.Span{File: s.last.File, Start: s.last.End, End: s.last.End}}
}

func (s *Sequencer) next() token.Token {
	for {
		if s.core.Failed() {
			return s.eof()
		}
		tok, buffered := s.fetch()
		if tok.Kind == token.EOF {
			return tok
		}
		s.last = tok.Span
		if !buffered {
			switch tok.Kind {
			case token.Ident:
				if text, ok := s.core.env.Definition(tok.Text); ok {
					s.expand(tok, text)
					continue
				}
			case token.MacroBlock:
				s.execBlock(tok)
				continue
			case token.MacroCall:
				s.execCall(tok)
				continue
			}
		}
		if s.depth == 0 && !s.core.vote(s, tok) {
			continue
		}
		if s.core.Failed() {
			return s.eof()
		}
		return tok
	}
}

// fetch pops the buffer first. Buffered tokens are already expanded.
func (s *Sequencer) fetch() (token.Token, bool) {
	if len(s.buf) > 0 {
		t := s.buf[0]
		s.buf = s.buf[1:]
		return t, true
	}
	return s.lx.Next(), false
}

func (s *Sequencer) rawPeek() token.Token {
	if len(s.buf) > 0 {
		return s.buf[0]
	}
	return s.lx.Peek()
}

func (s *Sequencer) expand(origin token.Token, text string) {
	if s.core.tracer.Enabled() {
		trace.Debug(s.core.tracer, trace.ScopeMacro, "macro.expand", "origin", origin.Text)
	}
	toks, ok := s.core.expandText(s.depth+1, origin, text)
	if !ok || len(toks) == 0 {
		return
	}
	s.buf = append(toks, s.buf...)
}

// execBlock runs @( ... ). Function definitions are rewritten to Lua syntax;
// anything else is a raw chunk whose value, if any, is expanded in place.
func (s *Sequencer) execBlock(tok token.Token) {
	body := strings.TrimSpace(tok.Text)
	var chunk string
	if isFunctionDefinition(body) {
		name, src, err := rewriteFunction(body)
		if err != nil {
			s.core.fail(ErrScript, diag.MacBadDefinition, diag.SevError, tok.Span, err.Error())
			return
		}
		trace.Debug(s.core.tracer, trace.ScopeMacro, "macro.define", "name", name)
		chunk = src
	} else {
		chunk = rawChunk(s.core, body)
	}
	s.finish(tok, chunk)
}

// execCall runs @name or @name(args).
func (s *Sequencer) execCall(tok token.Token) {
	name, args, hasArgs := splitCall(tok.Text)
	if name == "import" && !hasArgs {
		s.importSugar(tok)
		return
	}
	if !s.core.isFunction(name) {
		s.core.fail(ErrScript, diag.MacUndefinedFunction, diag.SevError, tok.Span,
			"undefined macro function '"+name+"'")
		return
	}
	s.finish(tok, "return "+name+"("+args+")")
}

// importSugar handles `@import "name"`.
func (s *Sequencer) importSugar(tok token.Token) {
	arg, _ := s.fetch()
	if arg.Kind != token.StringLit {
		s.core.fail(ErrImport, diag.MacImportFailed, diag.SevError, tok.Span, "@import expects a string literal")
		return
	}
	name, err := lexer.Unquote(arg.Text)
	if err != nil {
		s.core.fail(ErrImport, diag.MacImportFailed, diag.SevError, arg.Span, err.Error())
		return
	}
	text, ok := s.core.importText(tok.Span.Cover(arg.Span), name)
	if !ok {
		return
	}
	s.expand(tok, text)
}

// finish runs chunk and expands the emitted text followed by the result.
func (s *Sequencer) finish(origin token.Token, chunk string) {
	saved := s.pending
	s.pending = nil
	ret, ok := s.core.run(s, origin, chunk)
	emitted := s.pending
	s.pending = saved
	if !ok {
		return
	}
	text, err := valueText(ret)
	if err != nil {
		s.core.fail(ErrScript, diag.MacScriptError, diag.SevError, origin.Span, err.Error())
		return
	}
	if text != "" {
		emitted = append(emitted, text)
	}
	if len(emitted) > 0 {
		s.expand(origin, strings.Join(emitted, "\n"))
	}
}
