// Package chart draws an ASCII bar chart of where the files of a tree live. All state
// is passed in, nothing reads the terminal directly.
package chart

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hayeah/collect/fstree"
)

// Options controls layout and I/O behaviour.
type Options struct {
	BarWidth     int        // 0 = auto (35 % of term, at most 30)
	FillRune     rune       // default '█'
	ThresholdPct float64    // directories holding less than this share are collapsed
	TermWidth    func() int // must return columns
	Writer       io.Writer
}

// DefaultOptions collapses directories holding less than 1% of the files.
func DefaultOptions(termWidthFn func() int, w io.Writer) Options {
	return Options{
		FillRune:     '█',
		ThresholdPct: 1,
		TermWidth:    termWidthFn,
		Writer:       w,
	}
}

// Print writes one bar per file or directory bucket of dir, smallest first, then a total.
func Print(dir *fstree.Directory, opt Options) error {
	total := fstree.CountFiles(dir)
	buckets := collapseSmallDirs(dir, total, opt.ThresholdPct)
	for _, ln := range layoutChart(buckets, total, opt) {
		if _, err := fmt.Fprintln(opt.Writer, ln); err != nil {
			return err
		}
	}
	return nil
}

type bucket struct {
	Label string
	Files int
}

// collapseSmallDirs descends into every entry holding at least thresholdPct of total
// files. Smaller entries of a directory are summed into one "dir/**" bucket.
func collapseSmallDirs(root *fstree.Directory, total int, thresholdPct float64) []bucket {
	var out []bucket
	thresh := float64(total) * thresholdPct / 100

	var walk func(dir *fstree.Directory, prefix string)
	walk = func(dir *fstree.Directory, prefix string) {
		var smallSum int
		for _, name := range dir.Names() {
			item, _ := dir.Get(name)
			files := fstree.CountFiles(item)
			if float64(files) < thresh {
				smallSum += files
				continue
			}
			label := path.Join(prefix, name)
			if sub, ok := item.(*fstree.Directory); ok {
				walk(sub, label)
			} else {
				out = append(out, bucket{Label: label, Files: files})
			}
		}
		if smallSum > 0 {
			out = append(out, bucket{Label: path.Join(prefix, "**"), Files: smallSum})
		}
	}
	walk(root, "")
	return out
}

func layoutChart(buckets []bucket, total int, opt Options) []string {
	if len(buckets) == 0 {
		return []string{"No files"}
	}
	const pctW, filesW, gapW = 6, 6, 2

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Files < buckets[j].Files })

	barW := opt.BarWidth
	if barW <= 0 {
		barW = min(int(float64(opt.TermWidth())*0.35), 30)
	}
	keyW := max(opt.TermWidth()-(barW+pctW+filesW+gapW*3), 8)

	maxFiles := 0
	for _, b := range buckets {
		maxFiles = max(maxFiles, b.Files)
	}

	fill := string(opt.FillRune)
	if opt.FillRune == 0 {
		fill = "█"
	}
	var lines []string
	for _, b := range buckets {
		barLen := int(float64(b.Files)/float64(maxFiles)*float64(barW) + 0.5)
		if barLen == 0 && b.Files > 0 {
			barLen = 1
		}
		lines = append(lines, fmt.Sprintf("%-*s  %5.1f%%  %*d  %s",
			barW, strings.Repeat(fill, barLen), pct(b.Files, total), filesW, b.Files, trimLeft(b.Label, keyW)))
	}

	lines = append(lines, fmt.Sprintf("%-*s  %5.1f%%  %*d  %s",
		barW, strings.Repeat("─", barW), 100.0, filesW, total, "TOTAL"))
	return lines
}

// trimLeft keeps the longest tail of s that fits in width terminal cells, marking the
// cut with "…".
func trimLeft(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if tail := string(runes[i:]); lipgloss.Width(tail) < width {
			return "…" + tail
		}
	}
	return "…"
}

func pct(part, total int) float64 { return float64(part) * 100 / float64(total) }
