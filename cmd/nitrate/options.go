package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/driver"
	"github.com/Kracken256/nitrate-sub001/internal/env"
)

// applyColorMode resolves --color once for every command.
func applyColorMode(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readUIMode("color", value)
	if err != nil {
		return err
	}
	color.NoColor = !enabledFor(mode, os.Stderr)
	return nil
}

// diagStyle is plain whenever colour is off.
func diagStyle(cmd *cobra.Command) (diag.Style, error) {
	if color.NoColor {
		return diag.StylePlain, nil
	}
	value, err := cmd.Root().PersistentFlags().GetString("style")
	if err != nil {
		return diag.StylePlain, fmt.Errorf("failed to get style flag: %w", err)
	}
	return diag.ParseStyle(value)
}

// driverOptions builds the shared options from --config, -f and -D.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	pf := cmd.Root().PersistentFlags()
	var opts driver.Options

	path, err := pf.GetString("config")
	if err != nil {
		return opts, fmt.Errorf("failed to get config flag: %w", err)
	}
	conf := config.Default()
	if path != "" {
		if conf, err = config.Load(path); err != nil {
			return opts, err
		}
	}

	e := env.New()
	flags, err := pf.GetStringArray("flag")
	if err != nil {
		return opts, fmt.Errorf("failed to get flag flag: %w", err)
	}
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			value = "true"
		}
		// принимаем и "fasterror", и "-ffasterror"
		name = strings.TrimPrefix(name, "-f")
		if name == "" {
			return opts, fmt.Errorf("empty compiler flag in %q", f)
		}
		conf = conf.With("-f"+name, value)
		// макросы видят флаги через n.get("flag.<name>")
		e.SetFlag(name, value)
	}

	defines, err := pf.GetStringArray("define")
	if err != nil {
		return opts, fmt.Errorf("failed to get define flag: %w", err)
	}
	for _, d := range defines {
		name, text, _ := strings.Cut(d, "=")
		if name == "" {
			return opts, fmt.Errorf("empty macro name in %q", d)
		}
		e.Define(name, text)
	}

	notes, err := pf.GetBool("notes")
	if err != nil {
		return opts, fmt.Errorf("failed to get notes flag: %w", err)
	}

	opts.Conf = conf
	opts.Env = e
	opts.KeepNotes = notes
	opts.Fetch = fetchBeside
	return opts, nil
}

// fetchBeside resolves @import "name" to name or name.nit on disk.
func fetchBeside(name string) ([]byte, error) {
	candidates := []string{name}
	if !strings.HasSuffix(name, driver.SourceExt) {
		candidates = append(candidates, name+driver.SourceExt)
	}
	var firstErr error
	for _, c := range candidates {
		// #nosec G304 -- import names come from the source being compiled
		data, err := os.ReadFile(c)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// readUnit loads path, or stdin for "-".
func readUnit(cmd *cobra.Command, path string) (*driver.Unit, error) {
	if path != "-" {
		return driver.LoadUnit(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return driver.VirtualUnit("<stdin>", data), nil
}

// printDiagnostics renders every channel of m to stderr.
func printDiagnostics(cmd *cobra.Command, m *diag.Manager) error {
	if m == nil || m.Count(diag.TicketAll) == 0 {
		return nil
	}
	style, err := diagStyle(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	m.Render(diag.TicketAll, func(s string) { fmt.Fprintln(out, s) }, style)
	return nil
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return quiet
}
