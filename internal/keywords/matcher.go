// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package keywords holds the immutable keyword tables used by the scoring
// models and a multi-pattern matcher to scan activity text against them.
package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher finds whole-word occurrences of many keywords in one pass using
// the Aho-Corasick automaton. Matching is case-insensitive, and a keyword
// also matches its plural formed with a trailing "s" ("bar" matches "bars").
//
// A Matcher is immutable after construction and safe for concurrent use.
//
//	m := keywords.NewMatcher([]string{"bar", "jazz club"})
//	m.Contains("Late night Jazz Club") // true
//	m.Contains("barber shop")          // false
type Matcher struct {
	root     *acNode
	patterns []string
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	// output holds indices of patterns ending at this node.
	output []int
}

// Match is a keyword occurrence in the scanned text.
type Match struct {
	Keyword string
	// Start is the byte offset of the match in the lower-cased text.
	Start int
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// NewMatcher builds a matcher over the given keywords. Empty and duplicate
// keywords are ignored.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{root: newACNode()}
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		m.insert(len(m.patterns), kw)
		m.patterns = append(m.patterns, kw)
	}
	m.buildFailureLinks()
	return m
}

func (m *Matcher) insert(index int, pattern string) {
	node := m.root
	for _, ch := range pattern {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, index)
}

// buildFailureLinks wires failure links breadth-first.
func (m *Matcher) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// Len returns the number of distinct keywords.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Find returns every whole-word keyword occurrence in text.
func (m *Matcher) Find(text string) []Match {
	var matches []Match
	m.scan(text, func(match Match) bool {
		matches = append(matches, match)
		return true
	})
	return matches
}

// First returns the first whole-word keyword occurrence in text.
func (m *Matcher) First(text string) (Match, bool) {
	var first Match
	found := false
	m.scan(text, func(match Match) bool {
		first, found = match, true
		return false
	})
	return first, found
}

// Contains reports whether any keyword occurs in text as a whole word.
func (m *Matcher) Contains(text string) bool {
	_, ok := m.First(text)
	return ok
}

// scan walks the automaton and calls emit for every boundary-respecting
// match until emit returns false.
func (m *Matcher) scan(text string, emit func(Match) bool) {
	if m == nil || len(m.patterns) == 0 || text == "" {
		return
	}
	lower := strings.ToLower(text)
	node := m.root

	for i, ch := range lower {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]

		end := i + utf8.RuneLen(ch)
		for _, idx := range node.output {
			kw := m.patterns[idx]
			start := end - len(kw)
			if !boundaryBefore(lower, start) || !boundaryAfter(lower, end) {
				continue
			}
			if !emit(Match{Keyword: kw, Start: start}) {
				return
			}
		}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boundaryBefore(text string, start int) bool {
	if start <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

// boundaryAfter accepts a word end, optionally followed by a plural "s".
func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if !isWordRune(r) {
		return true
	}
	if r == 's' {
		if end+size >= len(text) {
			return true
		}
		next, _ := utf8.DecodeRuneInString(text[end+size:])
		return !isWordRune(next)
	}
	return false
}

// ContainsPhrase reports whether phrase occurs in text as whole words. Both
// arguments are compared case-insensitively. Use a Matcher when scanning the
// same text for many phrases.
func ContainsPhrase(text, phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return false
	}
	lower := strings.ToLower(text)
	offset := 0
	for {
		idx := strings.Index(lower[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(phrase)
		if boundaryBefore(lower, start) && boundaryAfter(lower, end) {
			return true
		}
		offset = start + 1
	}
}
