package collect

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hayeah/collect/internal/journal"
)

const timeLayout = "2006-01-02 15:04:05"

func (app *App) runHistory(cmd *HistoryCmd) error {
	if app.Journal == nil {
		return errors.New("the journal is disabled; set journal in the config file to record copy runs")
	}
	out := app.Console.Stdout

	if cmd.Run != 0 {
		paths, err := app.Journal.RunFiles(cmd.Run)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	runs, err := app.Journal.ListRuns(cmd.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No copy runs recorded.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STARTED", "FROM", "TO", "EXTENSIONS", "FILES", "STATUS")
	for _, run := range runs {
		t.Row(
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Local().Format(timeLayout),
			run.Source,
			run.Destination,
			run.Extensions,
			strconv.Itoa(run.FileCount),
			runStatus(run),
		)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func runStatus(run journal.Run) string {
	switch {
	case run.Error.Valid:
		return "failed: " + run.Error.String
	case !run.FinishedAt.Valid:
		return "unfinished"
	default:
		return "ok"
	}
}
