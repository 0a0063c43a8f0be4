package collect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hayeah/collect/fstree"
	"github.com/hayeah/collect/ignore"
	"github.com/hayeah/collect/internal/chart"
	"github.com/hayeah/collect/internal/progress"
	"github.com/hayeah/collect/internal/set"
	"github.com/hayeah/collect/internal/tui"
	"github.com/hayeah/collect/internal/worker"
)

// absDir resolves dir (default: the working directory) to an absolute path.
func absDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}

// scanTree scans root in the background, showing the progress screen when interactive.
// It returns nil when nothing matched.
func (app *App) scanTree(root string, exts []string, gitignore bool) (*fstree.Directory, error) {
	scanner := &fstree.Scanner{Match: fstree.ExtensionFilter(exts)}
	if gitignore {
		ig, err := ignore.NewIgnore(root)
		if err != nil {
			return nil, err
		}
		scanner.Skip = ig.Skip
	}

	app.Logger.Info("scanning", "root", root, "extensions", set.New(exts...).Sorted(), "gitignore", gitignore)
	task := worker.Start("scan", progress.DefaultInterval, app.jobLogger(), func(onVisit fstree.VisitFunc) (fstree.Item, error) {
		scanner.OnVisit = onVisit
		return scanner.Scan(root)
	})

	res, err := wait(app, "Scanning…", task)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	app.Logger.Info("scan finished", "visited", res.Visited, "elapsed", res.Elapsed)

	dir, _ := res.Value.(*fstree.Directory)
	return dir, nil
}

// wait collects a task's result, through the progress screen when interactive.
func wait[T any](app *App, title string, task *worker.Task[T]) (worker.Result[T], error) {
	if app.Console.Interactive {
		return tui.RunTask(title, task, app.Console.Stderr)
	}
	res := task.Wait(func(ev progress.Event) {
		app.Logger.Debug(task.Name(), "path", ev.Path, "count", ev.Count)
	})
	return res, nil
}

func (app *App) runScan(cmd *ScanCmd) error {
	root, err := absDir(cmd.Dir)
	if err != nil {
		return err
	}

	tree, err := app.scanTree(root, app.Config.extensions(cmd.Extensions), cmd.Gitignore || app.Config.Gitignore)
	if err != nil {
		return err
	}

	out := app.Console.Stdout
	if tree == nil {
		fmt.Fprintf(out, "No matching files found under %s\n", root)
		return nil
	}
	if cmd.Chart {
		if err := chart.Print(tree, chart.DefaultOptions(app.Console.width, out)); err != nil {
			return err
		}
	} else if err := fstree.WriteDiagram(out, root, tree); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d files found\n", fstree.CountFiles(tree))
	return nil
}
