package collect

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hayeah/collect/fstree"
	"github.com/hayeah/collect/internal/journal"
	"github.com/hayeah/collect/internal/progress"
	"github.com/hayeah/collect/internal/tui"
	"github.com/hayeah/collect/internal/worker"
)

func (app *App) runCopy(cmd *CopyCmd) error {
	src, err := absDir(cmd.Source)
	if err != nil {
		return err
	}
	dest, err := absDir(cmd.Dest)
	if err != nil {
		return err
	}

	exts := app.Config.extensions(cmd.Extensions)
	tree, err := app.scanTree(src, exts, cmd.Gitignore || app.Config.Gitignore)
	if err != nil {
		return err
	}

	out := app.Console.Stdout
	if tree == nil {
		fmt.Fprintf(out, "No matching files found under %s\n", src)
		return nil
	}

	leaves := fstree.Leaves(tree)
	if !cmd.Yes && app.Console.Interactive {
		var ok bool
		leaves, ok, err = tui.Prune(src, tree, app.Console.Stderr)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted, nothing copied.")
			return nil
		}
	}
	if len(leaves) == 0 {
		fmt.Fprintln(out, "Nothing left to copy.")
		return nil
	}

	selected, err := fstree.BuildTree(leaves)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		if err := fstree.WriteDiagram(out, dest, selected); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d files would be copied\nFrom: %s\nTo: %s\n", len(leaves), src, dest)
		return nil
	}

	count, err := app.copyTree(src, dest, exts, selected)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w (the copier never overwrites existing files)", err)
		}
		return err
	}

	fmt.Fprintf(out, "%d files copied\nFrom: %s\nTo: %s\n", count, src, dest)
	return nil
}

// copyTree copies selected from src into dest in the background, recording the run in
// the journal when one is open. An interrupt waits for the copy and its journal entry
// before the process exits.
func (app *App) copyTree(src, dest string, exts []string, selected *fstree.Directory) (count int, err error) {
	err = app.blockExit(func() error {
		count, err = app.copyAndRecord(src, dest, exts, selected)
		return err
	})
	return count, err
}

func (app *App) copyAndRecord(src, dest string, exts []string, selected *fstree.Directory) (int, error) {
	var rec *journal.Recorder
	if app.Journal != nil {
		var err error
		rec, err = app.Journal.Begin(src, dest, exts)
		if err != nil {
			return 0, err
		}
	}

	logger := app.jobLogger()
	var recordErr error
	task := worker.Start("copy", progress.DefaultInterval, logger, func(onVisit fstree.VisitFunc) (int, error) {
		return fstree.Copy(src, dest, selected, "", func(path string) {
			onVisit(path)
			if rec == nil || recordErr != nil {
				return
			}
			if recordErr = rec.Record(path); recordErr != nil {
				logger.Warn("journal stopped recording", "err", recordErr)
			}
		})
	})

	res, err := wait(app, "Copying…", task)
	if err != nil {
		// the run stays unfinished in the journal
		return 0, err
	}
	app.Logger.Info("copy finished", "copied", res.Value, "elapsed", res.Elapsed, "err", res.Err)

	if rec != nil {
		if err := rec.Finish(res.Value, res.Err); err != nil {
			app.Logger.Warn("failed to finish journal run", "run", rec.RunID, "err", err)
		}
	}
	return res.Value, res.Err
}
