package macro

import (
	"errors"

	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/env"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// FetchFunc resolves "@import name" to source text.
type FetchFunc func(name string) ([]byte, error)

// Options configures a Sequencer. Zero values select defaults.
type Options struct {
	Env      *env.Env        // nil: a fresh environment
	FileSet  *source.FileSet // receives virtual files for expansion text
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Conf supplies -fmaxdepth.
	Conf      config.Conf
	KeepNotes bool
	Fetch     FetchFunc
}

var (
	ErrRecursionExceeded = errors.New("macro recursion depth exceeded")
	ErrAborted           = errors.New("macro expansion aborted")
	ErrScript            = errors.New("macro script error")
	ErrImport            = errors.New("macro import failed")
)

// Action is the vote of a deferred callback for one token.
type Action uint8

const (
	ActionEmit Action = iota
	ActionSkip
	ActionUninstall
)

func (a Action) String() string {
	switch a {
	case ActionEmit:
		return "emit"
	case ActionSkip:
		return "skip"
	case ActionUninstall:
		return "uninstall"
	default:
		return "unknown"
	}
}

func parseAction(s string) (Action, bool) {
	switch s {
	case "emit":
		return ActionEmit, true
	case "skip":
		return ActionSkip, true
	case "uninstall":
		return ActionUninstall, true
	default:
		return ActionEmit, false
	}
}
