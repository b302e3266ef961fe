// Package config holds the keyed option store handed to the sequencer, the
// parser and IR modules, plus its TOML loader.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Well-known keys.
const (
	FlagCrashGuard = "-fcrashguard"
	FlagFastError  = "-ffasterror"
	FlagPtrSize    = "-fptrsize"
	FlagMaxDepth   = "-fmaxdepth"
	FlagMaxErrors  = "-fmaxerrors"
)

// Defaults.
const (
	DefaultPtrSize   = 8
	DefaultMaxDepth  = 10000
	DefaultMaxErrors = 100
)

// Conf is an immutable key/value option store. The zero value is empty and usable.
type Conf struct {
	values map[string]string
}

// Default returns the configuration used when nothing is specified.
func Default() Conf {
	return Conf{}.
		With(FlagCrashGuard, "true").
		With(FlagPtrSize, strconv.Itoa(DefaultPtrSize)).
		With(FlagMaxDepth, strconv.Itoa(DefaultMaxDepth)).
		With(FlagMaxErrors, strconv.Itoa(DefaultMaxErrors))
}

// With returns a copy of c with key set to value.
func (c Conf) With(key, value string) Conf {
	next := make(map[string]string, len(c.values)+1)
	for k, v := range c.values {
		next[k] = v
	}
	next[key] = value
	return Conf{values: next}
}

// Get returns the raw value for key.
func (c Conf) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Bool reads key as a boolean; missing or malformed values are false.
func (c Conf) Bool(key string) bool {
	v, ok := c.values[key]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// Int reads key as an integer, falling back to def.
func (c Conf) Int(key string, def int) int {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Keys returns the sorted keys.
func (c Conf) Keys() []string {
	out := make([]string, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c Conf) FastError() bool  { return c.Bool(FlagFastError) }
func (c Conf) CrashGuard() bool { return c.Bool(FlagCrashGuard) }
func (c Conf) PtrSize() int     { return c.Int(FlagPtrSize, DefaultPtrSize) }
func (c Conf) MaxDepth() int    { return c.Int(FlagMaxDepth, DefaultMaxDepth) }
func (c Conf) MaxErrors() int   { return c.Int(FlagMaxErrors, DefaultMaxErrors) }

type fileConfig struct {
	Parser    parserSection     `toml:"parser"`
	Sequencer sequencerSection  `toml:"sequencer"`
	IR        irSection         `toml:"ir"`
	Flags     map[string]string `toml:"flags"`
}

type parserSection struct {
	FastError bool `toml:"fast_error"`
	MaxErrors int  `toml:"max_errors"`
}

type sequencerSection struct {
	MaxDepth int `toml:"max_depth"`
}

type irSection struct {
	PointerSize int  `toml:"pointer_size"`
	CrashGuard  bool `toml:"crash_guard"`
}

// Load reads a nitrate.toml file on top of Default.
func Load(path string) (Conf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Conf{}, fmt.Errorf("%s: %w", path, err)
	}
	c, err := Decode(string(data))
	if err != nil {
		return Conf{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses TOML text on top of Default. Unknown keys are an error.
func Decode(text string) (Conf, error) {
	var fc fileConfig
	meta, err := toml.Decode(text, &fc)
	if err != nil {
		return Conf{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Conf{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	c := Default()
	if meta.IsDefined("parser", "fast_error") {
		c = c.With(FlagFastError, strconv.FormatBool(fc.Parser.FastError))
	}
	if meta.IsDefined("parser", "max_errors") {
		c = c.With(FlagMaxErrors, strconv.Itoa(fc.Parser.MaxErrors))
	}
	if meta.IsDefined("sequencer", "max_depth") {
		if fc.Sequencer.MaxDepth <= 0 {
			return Conf{}, fmt.Errorf("[sequencer].max_depth must be positive, got %d", fc.Sequencer.MaxDepth)
		}
		c = c.With(FlagMaxDepth, strconv.Itoa(fc.Sequencer.MaxDepth))
	}
	if meta.IsDefined("ir", "pointer_size") {
		switch fc.IR.PointerSize {
		case 1, 2, 4, 8, 16:
		default:
			return Conf{}, fmt.Errorf("[ir].pointer_size must be 1, 2, 4, 8 or 16, got %d", fc.IR.PointerSize)
		}
		c = c.With(FlagPtrSize, strconv.Itoa(fc.IR.PointerSize))
	}
	if meta.IsDefined("ir", "crash_guard") {
		c = c.With(FlagCrashGuard, strconv.FormatBool(fc.IR.CrashGuard))
	}
	keys := make([]string, 0, len(fc.Flags))
	for k := range fc.Flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, "-f") {
			return Conf{}, fmt.Errorf("[flags]: key %q must start with -f", k)
		}
		c = c.With(k, fc.Flags[k])
	}
	return c, nil
}
