package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Kracken256/nitrate-sub001/internal/trace"
	"github.com/Kracken256/nitrate-sub001/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "nitrate",
	Short:         "Nitrate front end: macro expansion, parsing and IR lowering",
	Long:          `nitrate tokenizes, expands, parses and lowers Nitrate sources and reports diagnostics`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyColorMode(cmd)
	},
}

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("style", "ansi", "diagnostic colour style when colour is on (plain|ansi|truecolor)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.String("config", "", "path to a nitrate.toml configuration file")
	pf.StringArrayP("flag", "f", nil, "compiler flag name[=value], e.g. -f fasterror -f ptrsize=4")
	pf.StringArrayP("define", "D", nil, "macro definition NAME=TEXT")
	pf.Bool("notes", false, "keep comments and attach them to the next statement")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level ("+trace.LevelNames()+")")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "text", "trace format (text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.String("cpu-profile", "", "write a CPU profile of lower/build to file")
	pf.String("mem-profile", "", "write a heap profile after lower/build to file")
	pf.String("runtime-trace", "", "write a Go runtime trace of lower/build to file")
}

// main runs the root command. Any command error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
