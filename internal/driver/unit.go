package driver

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/env"
	"github.com/Kracken256/nitrate-sub001/internal/ir"
	"github.com/Kracken256/nitrate-sub001/internal/macro"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// SourceExt is the extension picked up when a directory is given.
const SourceExt = ".nit"

// Unit is one compilation unit: a source file in its own file set.
// Macro expansions of the unit are added to the same file set.
type Unit struct {
	FileSet *source.FileSet
	File    *source.File
}

// Name returns the unit's path.
func (u *Unit) Name() string { return u.File.Path }

// LoadUnit reads path from disk.
func LoadUnit(path string) (*Unit, error) {
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &Unit{FileSet: fset, File: fset.Get(id)}, nil
}

// VirtualUnit wraps in-memory source (stdin, tests).
func VirtualUnit(name string, src []byte) *Unit {
	fset := source.NewFileSet()
	id := fset.AddVirtual(name, src)
	return &Unit{FileSet: fset, File: fset.Get(id)}
}

// ListSources expands directories into their *.nit files, sorted.
// Plain files are kept as given.
func ListSources(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == p && !d.IsDir() {
				out = append(out, path)
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(out)
	return out, nil
}

// Options configures every stage. Zero values select defaults.
type Options struct {
	Conf config.Conf
	// Env seeds the macro environment; each unit gets its own clone.
	Env   *env.Env
	Fetch macro.FetchFunc
	// Registry owns the modules; nil means ir.Default().
	Registry  *ir.Registry
	KeepNotes bool
	// Jobs bounds BuildAll; <= 0 means GOMAXPROCS.
	Jobs     int
	Observer Observer
}

func (o Options) conf() config.Conf {
	if len(o.Conf.Keys()) == 0 {
		return config.Default()
	}
	return o.Conf
}

func (o Options) env() *env.Env {
	if o.Env == nil {
		return env.New()
	}
	return o.Env.Clone()
}

func (o Options) registry() *ir.Registry {
	if o.Registry == nil {
		return ir.Default()
	}
	return o.Registry
}
