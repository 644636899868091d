package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"enumgen/internal/driver"
	"enumgen/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI executes the driver while a Bubble Tea progress model consumes
// its events. Package names are discovered during the run, so the model
// starts empty.
func runWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		res, err := driver.Run(ctx, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The model stops receiving once it quits; keep draining so a driver
	// blocked on a full channel can finish and deliver its outcome.
	go drainEvents(events)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func drainEvents(events <-chan driver.Event) {
	for range events {
	}
}
