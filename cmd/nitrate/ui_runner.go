package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kracken256/nitrate-sub001/internal/driver"
	"github.com/Kracken256/nitrate-sub001/internal/ui"
)

type buildOutcome struct {
	results []*driver.Result
	err     error
}

// runBuildWithUI builds units while a progress view reads the observer events.
func runBuildWithUI(ctx context.Context, title string, units []*driver.Unit, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		opts.Observer = driver.ChannelObserver(events)
		results, err := driver.BuildAll(ctx, units, opts)
		outcomeCh <- buildOutcome{results: results, err: err}
		close(events)
	}()

	files := make([]string, len(units))
	for i, u := range units {
		files[i] = u.Name()
	}
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// если UI упал раньше времени, сборка не должна зависнуть на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
