package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Kracken256/nitrate-sub001/internal/driver"
	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.nit",
	Short: "Tokenize a Nitrate source file",
	Long:  `Tokenize runs the bare lexer; macro blocks are printed as single tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var expandCmd = &cobra.Command{
	Use:   "expand [flags] file.nit",
	Short: "Run macros and print the resulting token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	addFormatFlag(tokenizeCmd)
	addFormatFlag(expandCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	return tokenStage(cmd, args[0], false)
}

func runExpand(cmd *cobra.Command, args []string) error {
	return tokenStage(cmd, args[0], true)
}

func tokenStage(cmd *cobra.Command, path string, expand bool) error {
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	u, err := readUnit(cmd, path)
	if err != nil {
		return err
	}

	var result *driver.TokenizeResult
	if expand {
		result = driver.Expand(cmd.Context(), u, opts)
	} else {
		result = driver.Tokenize(u, opts)
	}

	// Выводим диагностику в stderr, если есть
	if err := printDiagnostics(cmd, result.Diag); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatPretty:
		err = printTokens(out, u.FileSet, result.Tokens)
	default:
		var data []byte
		data, err = serial.EncodeTokens(wireFormat(format), u.FileSet, result.Tokens)
		if err == nil {
			err = writeDocument(out, format, data)
		}
	}
	if err != nil {
		return err
	}
	if result.Failed {
		return fmt.Errorf("%s: macro expansion failed", u.Name())
	}
	return nil
}

// printTokens writes one token per line: start-end, category, text.
func printTokens(out io.Writer, fs *source.FileSet, toks []token.Token) error {
	w := bufio.NewWriter(out)
	for _, tok := range toks {
		start, end := fs.Resolve(tok.Span)
		fmt.Fprintf(w, "%d:%d-%d:%d\t%-8s\t%q\n", start.Line, start.Col, end.Line, end.Col, tok.Kind.Category(), tok.Text)
	}
	return w.Flush()
}
