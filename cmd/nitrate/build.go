package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kracken256/nitrate-sub001/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] path...",
	Short: "Build every Nitrate source under the given paths",
	Long:  `Build runs macro expansion, parsing, lowering and the IR passes over many units in parallel`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().IntP("jobs", "j", 0, "max parallel units (0 = GOMAXPROCS)")
	buildCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	buildCmd.Flags().Bool("timings", false, "print stage timings per unit")
}

func runBuild(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode("ui", uiValue)
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
	opts.Jobs = jobs

	paths, err := driver.ListSources(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", driver.SourceExt)
	}
	units, loadErr := driver.LoadAll(paths)
	errOut := cmd.ErrOrStderr()
	if loadErr != nil {
		fmt.Fprintln(errOut, loadErr)
	}

	var results []*driver.Result
	if enabledFor(mode, os.Stderr) && !isQuiet(cmd) {
		results, err = runBuildWithUI(cmd.Context(), "build", units, opts)
	} else {
		results, err = driver.BuildAll(cmd.Context(), units, opts)
	}
	defer func() {
		for _, r := range results {
			r.Release()
		}
	}()
	if err != nil {
		return err
	}

	failed := reportResults(cmd, errOut, results, timings)
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "built %d of %d units\n", len(results)-failed, len(paths))
	}
	if failed > 0 || loadErr != nil {
		return fmt.Errorf("%d units failed", failed+len(paths)-len(units))
	}
	return nil
}

// reportResults prints diagnostics and errors per unit and counts failures.
func reportResults(cmd *cobra.Command, errOut io.Writer, results []*driver.Result, timings bool) int {
	failed := 0
	dumped := false
	for _, r := range results {
		if err := printDiagnostics(cmd, r.Diag()); err != nil {
			fmt.Fprintln(errOut, err)
		}
		if r.Err != nil {
			fmt.Fprintf(errOut, "error: %v\n", r.Err)
			if errors.Is(r.Err, driver.ErrUnitPanic) && !dumped {
				dumpRing(cmd, errOut)
				dumped = true
			}
		}
		if timings {
			fmt.Fprintf(errOut, "%s: %s\n", r.Unit.Name(), driver.FormatTimings(r.Timings))
		}
		if !r.OK || r.Err != nil {
			failed++
		}
	}
	return failed
}
