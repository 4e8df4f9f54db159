// Package include serializes font selections into web font include strings.
package include

import (
	"fmt"
	"strings"
)

// Selection picks variants and a subset of one family
type Selection struct {
	Slug   string   `json:"slug"`
	FVDs   []string `json:"fvds"`
	Subset string   `json:"subset"`
}

// Create joins selections as "slug:fvd1,fvd2:subset" separated by ";"
func Create(selections []Selection) string {
	parts := make([]string, len(selections))
	for i, s := range selections {
		parts[i] = s.Slug + ":" + strings.Join(s.FVDs, ",") + ":" + s.Subset
	}
	return strings.Join(parts, ";")
}

// ScriptTag wraps the include string in a script element loading it from baseURL
func ScriptTag(baseURL string, selections []Selection) string {
	return `<script src="` + baseURL + Create(selections) + `.js"></script>`
}

// ParseSelection parses the "slug:fvd1,fvd2:subset" form of a single selection.
// The fvd list may be empty; slug and subset may not.
func ParseSelection(s string) (Selection, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Selection{}, fmt.Errorf("invalid selection %q: want slug:fvds:subset", s)
	}
	if parts[0] == "" {
		return Selection{}, fmt.Errorf("invalid selection %q: empty slug", s)
	}
	if parts[2] == "" {
		return Selection{}, fmt.Errorf("invalid selection %q: empty subset", s)
	}

	var fvds []string
	if parts[1] != "" {
		fvds = strings.Split(parts[1], ",")
	}
	return Selection{Slug: parts[0], FVDs: fvds, Subset: parts[2]}, nil
}
