// Package search provides tiered name search over the font catalog index.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dsjohal14/fontstack/internal/scope/catalog"
)

// Tier ranks how a needle matched a family name
type Tier int

const (
	// TierPrefix means the name starts with the needle
	TierPrefix Tier = iota + 1
	// TierWordStart means a later word in the name starts with the needle
	TierWordStart
	// TierContains means the needle occurs inside a word
	TierContains
)

func (t Tier) String() string {
	switch t {
	case TierPrefix:
		return "prefix"
	case TierWordStart:
		return "word"
	case TierContains:
		return "contains"
	default:
		return "unknown"
	}
}

// MarshalText renders the tier by name in JSON
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Match is a ranked search hit
type Match struct {
	Family catalog.Family `json:"family"`
	Tier   Tier           `json:"tier"`
	Offset int            `json:"offset"` // byte offset of the match in the lowercased name
}

// Engine answers name searches against an index
type Engine struct {
	index *catalog.Index
}

// NewEngine creates a search engine over index
func NewEngine(index *catalog.Index) *Engine {
	return &Engine{index: index}
}

// ByName returns the families whose name contains needle, ignoring case.
// Prefix matches come first, then word-start matches, then the rest; each
// group stays in the index's alphabetical order.
func (e *Engine) ByName(needle string) []catalog.Family {
	matches := e.Rank(needle)
	if len(matches) == 0 {
		return nil
	}
	out := make([]catalog.Family, len(matches))
	for i, m := range matches {
		out[i] = m.Family
	}
	return out
}

// Rank is ByName with tier and offset attached to each hit
func (e *Engine) Rank(needle string) []Match {
	return Rank(e.index.Snapshot(), needle)
}

// Rank scans snap once and returns the tiered matches for needle
func Rank(snap *catalog.Snapshot, needle string) []Match {
	lowerNeedle := snap.Fold(needle)

	var prefix, wordStart, contains []Match
	snap.Range(func(f catalog.Family) bool {
		name := f.LowerName()
		idx := strings.Index(name, lowerNeedle)
		if idx < 0 {
			return true
		}

		m := Match{Family: f, Tier: classify(name, idx), Offset: idx}
		switch m.Tier {
		case TierPrefix:
			prefix = append(prefix, m)
		case TierWordStart:
			wordStart = append(wordStart, m)
		default:
			contains = append(contains, m)
		}
		return true
	})

	out := make([]Match, 0, len(prefix)+len(wordStart)+len(contains))
	out = append(out, prefix...)
	out = append(out, wordStart...)
	return append(out, contains...)
}

func classify(name string, idx int) Tier {
	if idx == 0 {
		return TierPrefix
	}
	prev, _ := utf8.DecodeLastRuneInString(name[:idx])
	if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
		return TierContains
	}
	return TierWordStart
}
