package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kracken256/nitrate-sub001/internal/driver"
	"github.com/Kracken256/nitrate-sub001/internal/ir"
	"github.com/Kracken256/nitrate-sub001/internal/serial"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] file.nit",
	Short: "Lower a Nitrate source file to IR and print the module",
	Long:  `Lower runs the full pipeline over one unit and prints the IR module`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	addFormatFlag(lowerCmd)
	lowerCmd.Flags().Bool("timings", false, "print stage timings to stderr")
}

func runLower(cmd *cobra.Command, args []string) error {
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	u, err := readUnit(cmd, args[0])
	if err != nil {
		return err
	}

	res, err := driver.Build(cmd.Context(), u, opts)
	defer res.Release()
	if errors.Is(err, driver.ErrUnitPanic) {
		dumpRing(cmd, cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, res.Diag()); err != nil {
		return err
	}
	if timings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", u.Name(), driver.FormatTimings(res.Timings))
	}

	// после ошибки разбора модуль пуст, печатать нечего
	if res.Module.HasPass(ir.PassLower) {
		out := cmd.OutOrStdout()
		if format == formatPretty {
			err = ir.Dump(out, res.Module)
		} else {
			var data []byte
			data, err = encode(format, func(v serial.Visitor) { ir.Serialize(v, res.Module) })
			if err == nil {
				err = writeDocument(out, format, data)
			}
		}
		if err != nil {
			return err
		}
	}
	if !res.OK {
		return fmt.Errorf("%s: build failed", u.Name())
	}
	return nil
}
