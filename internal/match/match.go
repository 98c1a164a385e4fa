// Package match resolves free-text slot names against a fixed list of
// display names.
//
// Both sides are reduced with Normalize before comparison, so flags, spacing,
// punctuation and case never block a match. Candidates are scored with the
// go-difflib SequenceMatcher ratio (2*matches/total length) and the best
// candidate is accepted only when its score reaches Cutoff. Equal scores go to
// the candidate that comes first in the list.
//
//	m, err := match.New([]string{"🇩🇪 Germany", "🇫🇷 France"})
//	if err != nil { ... }
//	name, ok := m.Match("gremany") // "🇩🇪 Germany", true
package match

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Cutoff is the minimum similarity a candidate needs to be accepted.
const Cutoff = 0.6

var (
	ErrEmptyKey     = errors.New("name has no letters or digits")
	ErrDuplicateKey = errors.New("names normalize to the same key")
)

// Normalize lower-cases s and keeps only letters and numbers.
func Normalize(s string) string {
	lower := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity returns the SequenceMatcher ratio of a and b in [0, 1].
// Inputs are compared as given; callers normalize first.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(elements(a), elements(b)).Ratio()
}

type Matcher struct {
	keys  []string   // normalized keys in list order
	elems [][]string // keys split into runes
	names map[string]string
}

// New indexes names by their normalized key. Names whose keys are empty or
// collide with an earlier name are rejected.
func New(names []string) (*Matcher, error) {
	m := &Matcher{
		keys:  make([]string, 0, len(names)),
		elems: make([][]string, 0, len(names)),
		names: make(map[string]string, len(names)),
	}
	for _, name := range names {
		key := Normalize(name)
		if key == "" {
			return nil, fmt.Errorf("%q: %w", name, ErrEmptyKey)
		}
		if prev, dup := m.names[key]; dup {
			return nil, fmt.Errorf("%q and %q (key %q): %w", prev, name, key, ErrDuplicateKey)
		}
		m.names[key] = name
		m.keys = append(m.keys, key)
		m.elems = append(m.elems, elements(key))
	}
	return m, nil
}

// Match returns the display name that best matches input.
func (m *Matcher) Match(input string) (string, bool) {
	name, _, ok := m.best(Normalize(input))
	return name, ok
}

// Score is Match plus the winning similarity, mostly for diagnostics.
func (m *Matcher) Score(input string) (string, float64, bool) {
	return m.best(Normalize(input))
}

func (m *Matcher) best(key string) (string, float64, bool) {
	if key == "" {
		return "", 0, false
	}

	// input is sequence B so its index is built once; candidates rotate through A
	sm := difflib.NewMatcher(nil, elements(key))

	best, bestScore := -1, 0.0
	for i := range m.keys {
		sm.SetSeq1(m.elems[i])
		if sm.RealQuickRatio() < Cutoff || sm.QuickRatio() < Cutoff {
			continue
		}
		score := sm.Ratio()
		if score >= Cutoff && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return "", 0, false
	}
	return m.names[m.keys[best]], bestScore, true
}

// Names returns the indexed display names in list order.
func (m *Matcher) Names() []string {
	out := make([]string, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.names[k]
	}
	return out
}

func elements(s string) []string {
	return strings.Split(s, "")
}
