// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package keywords

import (
	"sort"
	"strings"
)

// Thesaurus answers "which terms are related to this tag" in both
// directions: a tag's own synonyms plus every head term that lists the tag.
type Thesaurus struct {
	related map[string][]string
}

// NewThesaurus indexes a synonym table.
func NewThesaurus(synonyms map[string][]string) *Thesaurus {
	sets := make(map[string]map[string]struct{})
	add := func(from, to string) {
		if from == to {
			return
		}
		if sets[from] == nil {
			sets[from] = make(map[string]struct{})
		}
		sets[from][to] = struct{}{}
	}

	for head, terms := range synonyms {
		h := normalize(head)
		for _, term := range terms {
			t := normalize(term)
			if h == "" || t == "" {
				continue
			}
			add(h, t)
			add(t, h)
		}
	}

	related := make(map[string][]string, len(sets))
	for k, set := range sets {
		list := make([]string, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Strings(list)
		related[k] = list
	}
	return &Thesaurus{related: related}
}

// Related returns the terms related to tag, sorted.
func (t *Thesaurus) Related(tag string) []string {
	if t == nil {
		return nil
	}
	return t.related[normalize(tag)]
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", " ")
}
