package catalog

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Snapshot is one fully built, immutable generation of the index
type Snapshot struct {
	all         []Family
	byClass     map[Classification][]Family
	bySlug      map[string]Family
	byName      map[string]Family
	locale      language.Tag
	fingerprint string
	builtAt     time.Time
}

// Index is a thread-safe font catalog index.
// Readers always see a complete Snapshot; Build swaps in a new one atomically.
// The zero value is an empty index using the root locale.
type Index struct {
	buildMu sync.Mutex
	mu      sync.RWMutex
	current *Snapshot
	locale  language.Tag
	now     func() time.Time
}

// Option configures an Index
type Option func(*Index)

// WithLocale sets the locale used to lowercase names and needles.
// Defaults to language.Und (root case mapping).
func WithLocale(tag language.Tag) Option {
	return func(idx *Index) {
		idx.locale = tag
	}
}

// NewIndex creates an empty index
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		locale: language.Und,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.current = &Snapshot{locale: idx.locale}
	return idx
}

// Build replaces the whole index with one built from families.
// On error the previous snapshot is left untouched.
func (idx *Index) Build(families []Family) error {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	now := idx.now
	if now == nil {
		now = time.Now
	}
	snap, err := newSnapshot(families, idx.locale, now())
	if err != nil {
		return err
	}

	idx.mu.Lock()
	idx.current = snap
	idx.mu.Unlock()
	return nil
}

// Snapshot returns the current generation
func (idx *Index) Snapshot() *Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.current == nil {
		return &Snapshot{locale: idx.locale}
	}
	return idx.current
}

// All returns every family sorted by name (copy)
func (idx *Index) All() []Family { return idx.Snapshot().All() }

// Len returns the number of indexed families
func (idx *Index) Len() int { return idx.Snapshot().Len() }

// ByClassification returns the families tagged with tag, in name order
func (idx *Index) ByClassification(tag Classification) []Family {
	return idx.Snapshot().ByClassification(tag)
}

// BySlug looks up a family by its slug
func (idx *Index) BySlug(slug string) (Family, bool) { return idx.Snapshot().BySlug(slug) }

// ByName looks up a family by its exact display name
func (idx *Index) ByName(name string) (Family, bool) { return idx.Snapshot().ByName(name) }

// Classifications returns per-tag member counts
func (idx *Index) Classifications() []ClassificationCount {
	return idx.Snapshot().Classifications()
}

func newSnapshot(families []Family, locale language.Tag, builtAt time.Time) (*Snapshot, error) {
	for i := range families {
		if families[i].Name == "" {
			return nil, &DataError{Index: i, Field: "name"}
		}
		if families[i].Slug == "" {
			return nil, &DataError{Index: i, Field: "slug"}
		}
	}

	lower := cases.Lower(locale)
	all := make([]Family, len(families))
	for i, f := range families {
		f.Classifications = slices.Clone(f.Classifications)
		f.FVDs = slices.Clone(f.FVDs)
		f.lowerName = lower.String(f.Name)
		all[i] = f
	}

	// The comparator never reports equality; equal names keep input order
	// only because the sort is stable.
	slices.SortStableFunc(all, func(a, b Family) int {
		if a.Name < b.Name {
			return -1
		}
		return 1
	})

	snap := &Snapshot{
		all:     all,
		byClass: make(map[Classification][]Family),
		bySlug:  make(map[string]Family, len(all)),
		byName:  make(map[string]Family, len(all)),
		locale:  locale,
		builtAt: builtAt,
	}

	h := xxhash.New()
	for _, f := range all {
		for _, c := range f.Classifications {
			snap.byClass[c] = append(snap.byClass[c], f)
		}
		snap.bySlug[f.Slug] = f
		snap.byName[f.Name] = f
		writeFingerprint(h, f)
	}
	snap.fingerprint = fmt.Sprintf("%016x", h.Sum64())

	return snap, nil
}

func writeFingerprint(h *xxhash.Digest, f Family) {
	_, _ = h.WriteString(f.Name)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(f.Slug)
	_, _ = h.WriteString("\x00")
	for _, c := range f.Classifications {
		_, _ = h.WriteString(string(c))
		_, _ = h.WriteString(",")
	}
	_, _ = h.WriteString("\x00")
	for _, fvd := range f.FVDs {
		_, _ = h.WriteString(fvd)
		_, _ = h.WriteString(",")
	}
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(f.Subset)
	_, _ = h.WriteString("\n")
}

// Fold lowercases s with the snapshot's locale, the same mapping applied to names
func (s *Snapshot) Fold(v string) string {
	return cases.Lower(s.locale).String(v)
}

// Len returns the number of families
func (s *Snapshot) Len() int {
	return len(s.all)
}

// All returns every family sorted by name (copy)
func (s *Snapshot) All() []Family {
	return slices.Clone(s.all)
}

// Range iterates families in name order.
// The callback should return false to stop iteration.
func (s *Snapshot) Range(fn func(f Family) bool) {
	for _, f := range s.all {
		if !fn(f) {
			return
		}
	}
}

// ByClassification returns the families tagged with tag, or nil
func (s *Snapshot) ByClassification(tag Classification) []Family {
	return slices.Clone(s.byClass[tag])
}

// BySlug looks up a family by slug
func (s *Snapshot) BySlug(slug string) (Family, bool) {
	f, ok := s.bySlug[slug]
	return f, ok
}

// ByName looks up a family by exact display name
func (s *Snapshot) ByName(name string) (Family, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Fingerprint identifies the indexed content; empty for an unbuilt index
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}

// BuiltAt returns when the snapshot was built; zero for an unbuilt index
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Built reports whether a build has populated this snapshot
func (s *Snapshot) Built() bool {
	return !s.builtAt.IsZero()
}

// Classifications lists the known tags in picker order, then any unknown
// tags found in the data sorted lexically, each with its member count.
func (s *Snapshot) Classifications() []ClassificationCount {
	out := make([]ClassificationCount, 0, len(knownClassifications)+len(s.byClass))
	for _, c := range knownClassifications {
		out = append(out, ClassificationCount{Classification: c, Known: true, Count: len(s.byClass[c])})
	}

	var unknown []Classification
	for c := range s.byClass {
		if !c.Known() {
			unknown = append(unknown, c)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, c := range unknown {
		out = append(out, ClassificationCount{Classification: c, Count: len(s.byClass[c])})
	}
	return out
}
