package domain

import "strings"

// PostFilters narrows a List result. Zero values mean "no constraint".
// Predicates combine conjunctively; the tag filter matches when the post's
// tag set intersects Tags. Offset and Limit apply after all predicates,
// offset first.
type PostFilters struct {
	Search    string
	Tags      []string
	Published *bool
	Limit     int
	Offset    int
}

// ApplyFilters runs the filter predicates over a snapshot of the collection,
// preserving its order. It is the single source of truth for filter
// semantics: every store delegates to it so that a store-side pass and a
// view-side pass can never disagree.
func ApplyFilters(posts []*Post, f PostFilters) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if !Matches(p, f) {
			continue
		}
		out = append(out, p)
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return out[:0]
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// Matches reports whether a single post passes every predicate in f.
// Offset and Limit are ignored here; they are sequence-level concerns.
func Matches(p *Post, f PostFilters) bool {
	if f.Search != "" && !MatchesSearch(p, f.Search) {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(p, f.Tags) {
		return false
	}
	if f.Published != nil && p.IsPublished != *f.Published {
		return false
	}
	return true
}

// MatchesSearch reports whether term occurs case-insensitively in the post's
// title, excerpt, or any tag. The listing view applies the same predicate for
// its live search box, so it is exported on its own.
func MatchesSearch(p *Post, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Excerpt), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// hasAnyTag checks for a non-empty intersection between the post's tags and
// the requested set. Tag comparison is exact, not case-folded.
func hasAnyTag(p *Post, tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
