package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/dsjohal14/fontstack/internal/scope/search"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMatches(w io.Writer, matches []search.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Family.Name, m.Family.Slug, m.Tier)
	}
	_ = tw.Flush()
}

func printFamilies(w io.Writer, families []catalog.Family) {
	if len(families) == 0 {
		fmt.Fprintln(w, "no families")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range families {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Slug)
	}
	_ = tw.Flush()
}

func printCounts(w io.Writer, counts []catalog.ClassificationCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Classification, c.Count)
	}
	_ = tw.Flush()
}

func printFamily(w io.Writer, f catalog.Family) {
	classes := make([]string, len(f.Classifications))
	for i, c := range f.Classifications {
		classes[i] = string(c)
	}
	fmt.Fprintf(w, "name:            %s\n", f.Name)
	fmt.Fprintf(w, "slug:            %s\n", f.Slug)
	fmt.Fprintf(w, "classifications: %s\n", strings.Join(classes, ", "))
	fmt.Fprintf(w, "fvds:            %s\n", strings.Join(f.FVDs, ", "))
	fmt.Fprintf(w, "subset:          %s\n", f.Subset)
}
