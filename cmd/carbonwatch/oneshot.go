package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/carbonwatch/carbonwatch/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunOneshot fetches the carbon intensity once.
// The exit code is 1 if the fetch failed or the alert is active.
func (cmd *CarbonwatchCommand) RunOneshot(ctx context.Context, s *store.Store) (exitCode int) {
	a, err := cmd.newApp(s)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 2
	}

	fetchErr := a.Scheduler.Refresh(ctx)

	rec, ok := s.LastRecord(a.Client.Target())
	if !ok {
		fmt.Fprintln(cmd.ErrStream, "error: no result")
		return 1
	}

	snap, _ := a.Cache.Get()

	if isTerminal(cmd.OutStream) {
		if fetchErr != nil {
			fmt.Fprintf(cmd.OutStream, "%s\t%s\t%s\n", rec.Target, rec.Status, rec.Message)
		} else {
			state := "inactive"
			if snap.Alert {
				state = "ACTIVE"
			}
			fmt.Fprintf(
				cmd.OutStream,
				"%s\t%s\t%s gCO2eq/kWh\talert %s (%s)\n",
				rec.Target,
				rec.Status,
				humanize.Commaf(snap.Intensity),
				state,
				cmd.Config.AlertConfig(),
			)
		}
	} else {
		fmt.Fprintln(cmd.OutStream, rec)
	}

	if fetchErr != nil || snap.Alert {
		return 1
	}
	return 0
}
