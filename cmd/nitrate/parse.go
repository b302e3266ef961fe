package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/driver"
	"github.com/Kracken256/nitrate-sub001/internal/serial"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.nit",
	Short: "Parse a Nitrate source file and print its syntax tree",
	Long:  `Parse expands macros, parses the unit and prints the syntax tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	addFormatFlag(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
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
	u, err := readUnit(cmd, args[0])
	if err != nil {
		return err
	}

	result := driver.Parse(cmd.Context(), u, opts)
	if err := printDiagnostics(cmd, result.Diag); err != nil {
		return err
	}

	data, err := encode(format, func(v serial.Visitor) {
		ast.Serialize(v, result.Builder, u.FileSet, result.Root)
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == formatPretty {
		err = writeIndented(out, data)
	} else {
		err = writeDocument(out, format, data)
	}
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s: parse failed", u.Name())
	}
	return nil
}
