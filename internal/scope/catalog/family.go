// Package catalog builds the in-memory font family index used by search and
// classification lookups.
package catalog

// Classification is a design-style tag attached to a font family
type Classification string

// Known classification tags, in picker order
const (
	Serif       Classification = "serif"
	SansSerif   Classification = "sans-serif"
	SlabSerif   Classification = "slab-serif"
	Script      Classification = "script"
	Blackletter Classification = "blackletter"
	Monospaced  Classification = "monospaced"
	Handmade    Classification = "handmade"
	Decorative  Classification = "decorative"
)

var knownClassifications = []Classification{
	Serif, SansSerif, SlabSerif, Script, Blackletter, Monospaced, Handmade, Decorative,
}

// KnownClassifications returns the closed set of classification tags in picker order
func KnownClassifications() []Classification {
	out := make([]Classification, len(knownClassifications))
	copy(out, knownClassifications)
	return out
}

// Known reports whether c belongs to the closed classification set.
// Unknown tags are still indexed; they just have no label downstream.
func (c Classification) Known() bool {
	for _, k := range knownClassifications {
		if c == k {
			return true
		}
	}
	return false
}

// Family is a font family record as delivered by the catalog service
type Family struct {
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Classifications []Classification `json:"classifications"`
	FVDs            []string         `json:"fvds"`
	Subset          string           `json:"subset"`

	lowerName string
}

// LowerName returns the locale-lowercased name computed at build time.
// It is empty for families that have not passed through Index.Build.
func (f Family) LowerName() string {
	return f.lowerName
}

// HasClassification reports whether the family carries tag
func (f Family) HasClassification(tag Classification) bool {
	for _, c := range f.Classifications {
		if c == tag {
			return true
		}
	}
	return false
}

// ClassificationCount pairs a tag with the number of families bearing it
type ClassificationCount struct {
	Classification Classification `json:"classification"`
	Known          bool           `json:"known"`
	Count          int            `json:"count"`
}
