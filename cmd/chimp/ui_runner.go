package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"chimp/internal/driver"
	"chimp/internal/ui"
)

type resolveOutcome struct {
	results []*driver.UnitResult
	err     error
}

// runResolveWithUI resolves files while a progress model renders driver
// events to out.
func runResolveWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.ResolveOptions) ([]*driver.UnitResult, error) {
	// queued events for every file are sent before any worker starts
	events := make(chan driver.Event, len(files)+256)
	outcomeCh := make(chan resolveOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ResolveUnits(ctx, files, optsCopy)
		outcomeCh <- resolveOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so workers never block on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
