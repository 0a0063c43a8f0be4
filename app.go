package collect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/charmbracelet/x/term"
	"github.com/google/wire"
	"github.com/hayeah/goo"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-isatty"

	"github.com/hayeah/collect/internal/journal"
)

// collect all the necessary providers
var Wires = wire.NewSet(
	// lifecycle, logging and migrations from goo. The journal database is provided by
	// ProvideJournalDB because journaling can be disabled.
	goo.ProvideShutdownContext,
	goo.ProvideSlog,
	goo.ProvideDBMigrator,
	goo.ProvideMain,
	// provide the base config for goo library
	ProvideGooConfig,

	// app specific providers
	ProvideArgs,
	ProvideConfig,
	ProvideJournalDB,
	ProvideJournal,
	ProvideConsole,

	// provide a goo.Runner interface for Main function, by using interface binding
	wire.Struct(new(App), "*"),
	wire.Bind(new(goo.Runner), new(*App)),
)

type ScanCmd struct {
	Extensions []string `arg:"-e,--ext,separate" help:"File extension to match (repeatable)"`
	Gitignore  bool     `arg:"--gitignore" help:"Skip paths ignored by .gitignore files"`
	Chart      bool     `arg:"--chart" help:"Print a bar chart of where matching files live instead of the tree"`
	Dir        string   `arg:"positional" help:"Directory to scan (default: current directory)"`
}

type CopyCmd struct {
	Extensions []string `arg:"-e,--ext,separate" help:"File extension to match (repeatable)"`
	Gitignore  bool     `arg:"--gitignore" help:"Skip paths ignored by .gitignore files"`
	Yes        bool     `arg:"-y,--yes" help:"Copy every match without opening the pruning screen"`
	DryRun     bool     `arg:"--dry-run" help:"Print what would be copied and stop"`
	Source     string   `arg:"positional,required" help:"Directory to collect files from"`
	Dest       string   `arg:"positional,required" help:"Directory to copy files into"`
}

type HistoryCmd struct {
	Limit int   `arg:"-n,--limit" default:"20" help:"Number of runs to list"`
	Run   int64 `arg:"-r,--run" help:"List the files copied by this run"`
}

type Args struct {
	Config  string      `arg:"--config,env:COLLECT_CONFIG" help:"Config file path"`
	Debug   bool        `arg:"--debug" help:"Verbose development logging"`
	Scan    *ScanCmd    `arg:"subcommand:scan" help:"Print the tree of matching files"`
	Copy    *CopyCmd    `arg:"subcommand:copy" help:"Pick matching files and copy them into a directory"`
	History *HistoryCmd `arg:"subcommand:history" help:"List recorded copy runs"`
}

func (Args) Description() string {
	return "collect finds files by extension, lets you prune the result, and copies them without overwriting anything.\n"
}

// ParseArgs parses a command line without the program name.
func ParseArgs(argv []string) (*Args, *arg.Parser, error) {
	args := &Args{}
	parser, err := arg.NewParser(arg.Config{Program: "collect"}, args)
	if err != nil {
		return nil, nil, err
	}
	if err := parser.Parse(argv); err != nil {
		return nil, parser, err
	}
	if parser.Subcommand() == nil {
		return nil, parser, errors.New("missing command: use scan, copy or history")
	}
	return args, parser, nil
}

// ProvideArgs parses cli args
func ProvideArgs() (*Args, error) {
	args, parser, err := ParseArgs(os.Args[1:])
	switch {
	case errors.Is(err, arg.ErrHelp):
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	case err != nil && parser != nil:
		parser.Fail(err.Error())
	}
	return args, err
}

// Console is where commands write, and whether a person is watching.
type Console struct {
	Stdout io.Writer
	Stderr io.Writer
	// Interactive enables the progress and pruning screens.
	Interactive bool
	// Width reports the terminal width; nil means 80 columns.
	Width func() int
}

func ProvideConsole() *Console {
	return &Console{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd()),
		Width: func() int {
			w, _, err := term.GetSize(os.Stdout.Fd())
			if err != nil || w <= 0 {
				return 80
			}
			return w
		},
	}
}

func (c *Console) width() int {
	if c.Width == nil {
		return 80
	}
	return c.Width()
}

// ProvideGooConfig maps the config onto goo's: the journal file becomes the sqlite3
// database, and --debug switches to devslog console output at debug level.
func ProvideGooConfig(args *Args, cfg *Config) (*goo.Config, error) {
	gcfg := &goo.Config{
		Logging: &goo.LoggerConfig{LogLevel: cfg.LogLevel, LogFormat: cfg.LogFormat},
	}
	if args.Debug {
		gcfg.Logging.LogLevel = "debug"
		gcfg.Logging.LogFormat = "console"
	}

	if cfg.Journal != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Journal), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		gcfg.Database = &goo.DatabaseConfig{
			Dialect: "sqlite3",
			DSN:     journal.DSN(cfg.Journal),
		}
	}
	return gcfg, nil
}

// ProvideJournalDB opens the journal database, closed on exit by the shutdown context.
// It returns nil when journaling is disabled.
func ProvideJournalDB(gcfg *goo.Config, down *goo.ShutdownContext, logger *slog.Logger) (*sqlx.DB, error) {
	if gcfg.Database == nil {
		return nil, nil
	}
	return goo.ProvideSQLX(gcfg, down, logger)
}

// ProvideJournal migrates the journal schema. It returns a nil store when journaling
// is disabled.
func ProvideJournal(db *sqlx.DB, migrator *goo.DBMigrator, logger *slog.Logger) (*journal.Store, error) {
	if db == nil {
		return nil, nil
	}
	return journal.New(db, migrator, logger)
}

type App struct {
	Args     *Args
	Config   *Config
	Shutdown *goo.ShutdownContext
	Logger   *slog.Logger
	Journal  *journal.Store
	Console  *Console
}

// Run runs the chosen command and reports its error on stderr.
func (app *App) Run() error {
	err := app.run()
	if err != nil {
		fmt.Fprintf(app.Console.Stderr, "Error: %v\n", err)
	}
	return err
}

func (app *App) run() error {
	args := app.Args

	switch {
	case args.Scan != nil:
		return app.runScan(args.Scan)
	case args.Copy != nil:
		return app.runCopy(args.Copy)
	case args.History != nil:
		return app.runHistory(args.History)
	default:
		return fmt.Errorf("no subcommand specified, use 'scan', 'copy', or 'history'")
	}
}

// jobLogger is the logger handed to background jobs. Screens own the terminal while
// they run, so job logs are dropped unless debugging.
func (app *App) jobLogger() *slog.Logger {
	if app.Console.Interactive && !app.Args.Debug {
		return slog.New(slog.DiscardHandler)
	}
	return app.Logger
}

// blockExit holds off a SIGINT shutdown until fn returns.
func (app *App) blockExit(fn func() error) error {
	if app.Shutdown == nil {
		return fn()
	}
	return app.Shutdown.BlockExit(fn)
}
