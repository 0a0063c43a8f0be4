package collect

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alexflint/go-arg"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/collect/internal/assert"
	"github.com/hayeah/collect/internal/journal"
)

type testApp struct {
	*App
	out *bytes.Buffer
}

func newTestApp(t *testing.T, args *Args, cfg *Config) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var store *journal.Store
	if cfg.Journal != "" {
		var err error
		store, err = journal.Open(cfg.Journal, logger)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}

	out := &bytes.Buffer{}
	return &testApp{
		App: &App{
			Args:    args,
			Config:  cfg,
			Logger:  logger,
			Journal: store,
			Console: &Console{Stdout: out, Stderr: io.Discard},
		},
		out: out,
	}
}

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Journal = filepath.Join(t.TempDir(), "journal.db")
	return cfg
}

func TestParseArgs(t *testing.T) {
	assert := assert.New(t)

	args, _, err := ParseArgs([]string{"copy", "-e", "jpg", "-e", ".PNG", "-y", "src", "dst"})
	assert.NoError(err)
	assert.NotNil(args.Copy)
	assert.Equal([]string{"jpg", ".PNG"}, args.Copy.Extensions)
	assert.True(args.Copy.Yes)
	assert.False(args.Copy.DryRun)
	assert.Equal("src", args.Copy.Source)
	assert.Equal("dst", args.Copy.Dest)

	args, _, err = ParseArgs([]string{"--debug", "scan", "--gitignore"})
	assert.NoError(err)
	assert.True(args.Debug)
	assert.NotNil(args.Scan)
	assert.True(args.Scan.Gitignore)
	assert.Equal("", args.Scan.Dir)

	args, _, err = ParseArgs([]string{"history"})
	assert.NoError(err)
	assert.Equal(20, args.History.Limit)

	_, _, err = ParseArgs([]string{})
	assert.Error(err)

	_, _, err = ParseArgs([]string{"copy", "only-source"})
	assert.Error(err)

	_, _, err = ParseArgs([]string{"--help"})
	assert.True(errors.Is(err, arg.ErrHelp))
}

func TestParseArgs_ConfigFromEnv(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("COLLECT_CONFIG", "/etc/collect.toml")

	args, _, err := ParseArgs([]string{"scan"})
	assert.NoError(err)
	assert.Equal("/etc/collect.toml", args.Config)

	args, _, err = ParseArgs([]string{"--config", "other.toml", "scan"})
	assert.NoError(err)
	assert.Equal("other.toml", args.Config)
}

func TestApp_RunScan(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"2019/a.jpg":      "a",
		"2019/notes.txt":  "n",
		"2020/trip/b.PNG": "b",
		"docs/readme.md":  "r",
		"top.gif":         "t",
	})

	app := newTestApp(t, &Args{Scan: &ScanCmd{Dir: root}}, testConfig(t))
	assert.NoError(app.Run())
	assert.Equal(root+`
├── 2019/
│   └── a.jpg
├── 2020/
│   └── trip/
│       └── b.PNG
└── top.gif

3 files found
`, app.out.String())
}

func TestApp_RunScanNothingFound(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{"a.txt": "a"})
	app := newTestApp(t, &Args{Scan: &ScanCmd{Dir: root}}, testConfig(t))
	assert.NoError(app.Run())
	assert.Equal("No matching files found under "+root+"\n", app.out.String())
}

func TestApp_RunScanExtensionsAndGitignore(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		".gitignore":  "build/\n",
		"a.txt":       "a",
		"b.jpg":       "b",
		"build/c.txt": "c",
		"sub/d.TXT":   "d",
	})

	app := newTestApp(t, &Args{Scan: &ScanCmd{Dir: root, Extensions: []string{".txt"}, Gitignore: true}}, testConfig(t))
	assert.NoError(app.Run())
	assert.Contains(app.out.String(), "a.txt")
	assert.Contains(app.out.String(), "d.TXT")
	assert.NotContains(app.out.String(), "build")
	assert.NotContains(app.out.String(), "b.jpg")
	assert.Contains(app.out.String(), "2 files found")
}

func TestApp_NoSubcommand(t *testing.T) {
	app := newTestApp(t, &Args{}, testConfig(t))
	require.Error(t, app.Run())
}

func TestApp_RunReportsErrorOnStderr(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Journal = ""
	app := newTestApp(t, &Args{History: &HistoryCmd{Limit: 10}}, cfg)
	stderr := &bytes.Buffer{}
	app.Console.Stderr = stderr

	err := app.Run()
	assert.ErrorContains(err, "journal is disabled")
	assert.Equal("Error: "+err.Error()+"\n", stderr.String())
	assert.Empty(app.out.String())
}

func TestApp_RunScanChart(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"2019/a.jpg":      "a",
		"2020/trip/b.PNG": "b",
		"top.gif":         "t",
	})

	app := newTestApp(t, &Args{Scan: &ScanCmd{Dir: root, Chart: true}}, testConfig(t))
	assert.NoError(app.Run())
	out := app.out.String()
	assert.Contains(out, "2020/trip/b.PNG")
	assert.Contains(out, "TOTAL")
	assert.Contains(out, "3 files found")
	assert.NotContains(out, "└──")
}
