package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// query filters paths by space-separated terms, all of which must hold:
//
//	foo    fuzzy match
//	'foo   exact substring
//	'foo'  whole word
//	^foo   prefix
//	foo$   suffix
//	!foo   must not contain foo
type query struct {
	terms []queryTerm
}

type queryTerm struct {
	raw        string
	text       string // lower-cased core text
	fuzzy      bool
	negate     bool
	anchorHead bool
	anchorTail bool
	wordExact  bool
}

func parseQuery(pattern string) (query, error) {
	parts := strings.Fields(pattern)
	terms := make([]queryTerm, 0, len(parts))

	for _, p := range parts {
		t := queryTerm{raw: p}

		if strings.HasPrefix(p, "!") {
			t.negate = true
			p = p[1:]
		}

		exact := false
		if strings.HasPrefix(p, "'") {
			exact = true
			p = p[1:]
			if len(p) > 1 && strings.HasSuffix(p, "'") {
				t.wordExact = true
				p = p[:len(p)-1]
			}
		}
		if strings.HasPrefix(p, "^") {
			t.anchorHead = true
			p = p[1:]
		}
		if strings.HasSuffix(p, "$") {
			t.anchorTail = true
			p = p[:len(p)-1]
		}
		if p == "" {
			return query{}, fmt.Errorf("empty term in %q", t.raw)
		}

		t.text = strings.ToLower(p)
		t.fuzzy = !exact && !t.negate && !t.anchorHead && !t.anchorTail
		terms = append(terms, t)
	}
	return query{terms: terms}, nil
}

// filter returns the indices of the paths satisfying every term, in input order.
func (q query) filter(paths []string) []int {
	idx := make([]int, len(paths))
	for i := range paths {
		idx[i] = i
	}

	for _, t := range q.terms {
		if t.fuzzy {
			candidates := make([]string, len(idx))
			for i, j := range idx {
				candidates[i] = paths[j]
			}
			keep := make([]bool, len(idx))
			for _, m := range fuzzy.Find(t.text, candidates) {
				keep[m.Index] = true
			}
			next := idx[:0]
			for i, j := range idx {
				if keep[i] {
					next = append(next, j)
				}
			}
			idx = next
			continue
		}

		next := idx[:0]
		for _, j := range idx {
			if t.matches(strings.ToLower(paths[j])) {
				next = append(next, j)
			}
		}
		idx = next
	}
	return idx
}

func (t queryTerm) matches(path string) bool {
	return t.contains(path) != t.negate
}

func (t queryTerm) contains(path string) bool {
	if t.anchorHead && t.anchorTail && !t.wordExact {
		return path == t.text
	}

	sub := path
	if t.anchorHead {
		if !strings.HasPrefix(path, t.text) {
			return false
		}
		sub = path[:len(t.text)]
	}
	if t.anchorTail {
		if !strings.HasSuffix(path, t.text) {
			return false
		}
		sub = path[len(path)-len(t.text):]
	}

	if t.wordExact {
		// anchored regions are checked against the full path's boundaries
		if t.anchorHead {
			return hasWordBoundary(path, 0, len(t.text))
		}
		if t.anchorTail {
			return hasWordBoundary(path, len(path)-len(t.text), len(t.text))
		}
		return containsWord(path, t.text)
	}
	return strings.Contains(sub, t.text)
}

// containsWord reports whether needle appears in s delimited on both sides by a word
// boundary (start/end of string, or non-word byte).
func containsWord(s, needle string) bool {
	for start := 0; start <= len(s)-len(needle); {
		rel := strings.Index(s[start:], needle)
		if rel < 0 {
			break
		}
		idx := start + rel
		if hasWordBoundary(s, idx, len(needle)) {
			return true
		}
		start = idx + 1
	}
	return false
}

func hasWordBoundary(s string, idx, size int) bool {
	leftOK := idx == 0 || !isWordChar(rune(s[idx-1]))
	rightOK := idx+size == len(s) || !isWordChar(rune(s[idx+size]))
	return leftOK && rightOK
}

// letters, digits and underscore
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
