package ui

import (
	"sort"
	"strings"

	strutil "github.com/conduit-lang/schemagen/internal/util/strings"
)

const (
	// DefaultMaxDistance is the largest edit distance still offered as a suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions returned
	DefaultMaxSuggestions = 3
)

// FuzzyMatchOptions configures fuzzy matching behavior
type FuzzyMatchOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

type match struct {
	value      string
	distance   int
	prefixOnly bool
}

// FindSimilar returns the candidates closest to target, best first. A
// candidate matches when it is within MaxDistance edits of target or starts
// with it. Ties are broken by natural name order so the result is stable.
//
//	FindSimilar("Patiant", []string{"Patient", "Practitioner", "Person"}, nil)
//	// ["Patient"]
func FindSimilar(target string, candidates []string, opts *FuzzyMatchOptions) []string {
	o := FuzzyMatchOptions{MaxDistance: DefaultMaxDistance, MaxSuggestions: DefaultMaxSuggestions}
	if opts != nil {
		o.CaseSensitive = opts.CaseSensitive
		if opts.MaxDistance > 0 {
			o.MaxDistance = opts.MaxDistance
		}
		if opts.MaxSuggestions > 0 {
			o.MaxSuggestions = opts.MaxSuggestions
		}
	}

	fold := func(s string) string {
		if o.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	want := fold(target)
	if want == "" {
		return nil
	}

	var matches []match
	for _, c := range candidates {
		got := fold(c)
		d := LevenshteinDistance(want, got)
		switch {
		case d <= o.MaxDistance:
			matches = append(matches, match{value: c, distance: d})
		case strings.HasPrefix(got, want):
			matches = append(matches, match{value: c, distance: d, prefixOnly: true})
		}
	}

	// Edit matches rank before prefix-only matches.
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.prefixOnly != b.prefixOnly {
			return b.prefixOnly
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return strutil.NaturalLessFold(a.value, b.value)
	})

	out := make([]string, 0, o.MaxSuggestions)
	for i := 0; i < len(matches) && i < o.MaxSuggestions; i++ {
		out = append(out, matches[i].value)
	}
	return out
}

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions needed to turn a into b.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// FindBestMatch returns the closest candidate, or "" when none is close.
func FindBestMatch(target string, candidates []string, opts *FuzzyMatchOptions) string {
	if m := FindSimilar(target, candidates, opts); len(m) > 0 {
		return m[0]
	}
	return ""
}
