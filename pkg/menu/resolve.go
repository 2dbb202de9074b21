package menu

import (
	"errors"
	"strings"
)

var (
	// ErrItemNotFound means no catalog entry matched the spoken name.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrCategoryNotFound means no category matched the spoken name.
	ErrCategoryNotFound = errors.New("menu category not found")
)

// tokenOverlapThreshold is the fraction of query tokens that must match
// item-name tokens for a fuzzy hit.
const tokenOverlapThreshold = 0.7

// ResolveItem finds the available catalog entry for a spoken item name.
// Matching is deterministic, in priority order: exact case-insensitive name,
// substring containment either direction, then token overlap. Token matching
// tolerates a single-edit misrecognition ("ceasar" for "caesar"), which is
// common in transcribed speech.
func (s *Snapshot) ResolveItem(name string) (*Item, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, ErrItemNotFound
	}

	for i := range s.Items {
		if s.Items[i].Available && strings.ToLower(s.Items[i].Name) == query {
			return &s.Items[i], nil
		}
	}

	for i := range s.Items {
		if !s.Items[i].Available {
			continue
		}
		candidate := strings.ToLower(s.Items[i].Name)
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			return &s.Items[i], nil
		}
	}

	for i := range s.Items {
		if !s.Items[i].Available {
			continue
		}
		if tokenOverlap(query, strings.ToLower(s.Items[i].Name)) >= tokenOverlapThreshold {
			return &s.Items[i], nil
		}
	}

	return nil, ErrItemNotFound
}

// ResolveCategory finds the active category for a spoken category name, using
// the same matching ladder as ResolveItem.
func (s *Snapshot) ResolveCategory(name string) (*Category, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, ErrCategoryNotFound
	}

	for i := range s.Categories {
		if s.Categories[i].Active && strings.ToLower(s.Categories[i].Name) == query {
			return &s.Categories[i], nil
		}
	}

	for i := range s.Categories {
		if !s.Categories[i].Active {
			continue
		}
		candidate := strings.ToLower(s.Categories[i].Name)
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			return &s.Categories[i], nil
		}
	}

	for i := range s.Categories {
		if !s.Categories[i].Active {
			continue
		}
		if tokenOverlap(query, strings.ToLower(s.Categories[i].Name)) >= tokenOverlapThreshold {
			return &s.Categories[i], nil
		}
	}

	return nil, ErrCategoryNotFound
}

// tokenOverlap returns the fraction of query tokens that match a name token.
func tokenOverlap(query, name string) float64 {
	queryTokens := strings.Fields(query)
	nameTokens := strings.Fields(name)
	if len(queryTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	matched := 0
	for _, qt := range queryTokens {
		for _, nt := range nameTokens {
			if tokensMatch(qt, nt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

// tokensMatch reports whether two tokens are close enough to count as the
// same word: equal, or within one edit (including an adjacent transposition).
// Containment is deliberately not enough here; "pancakes" must not count as
// "cake".
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	return editDistance(a, b) <= 1
}

// editDistance computes the Damerau-Levenshtein distance between two short
// tokens, capped in practice by the <=1 check above.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[lb]
}
