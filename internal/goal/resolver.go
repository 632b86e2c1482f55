package goal

import (
	"fmt"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/realakshayk/good-eats/internal"
)

const (
	acceptThreshold  = 80
	suggestThreshold = 50
	maxSuggestions   = 3
)

// Match is a successful goal resolution.
type Match struct {
	Goal       string `json:"goal"`
	Confidence int    `json:"confidence"`
}

// Resolver maps free-text goal input onto canonical goals. It is
// stateless after construction and safe for concurrent use.
type Resolver struct {
	goals    []Goal
	byName   map[string]Goal
	synonyms map[string]string
	terms    []string
}

func NewResolver() *Resolver {
	idx := buildSynonymIndex(goalTable)
	terms := make([]string, 0, len(idx))
	for term := range idx {
		terms = append(terms, term)
	}
	sort.Strings(terms) // deterministic scan order
	byName := make(map[string]Goal, len(goalTable))
	for _, g := range goalTable {
		byName[g.Name] = g
	}
	return &Resolver{goals: goalTable, byName: byName, synonyms: idx, terms: terms}
}

// Resolve normalizes the input and tries, in order: an exact synonym
// lookup, a token-set similarity match at or above the acceptance
// threshold, and finally a GoalMatchError carrying ranked suggestions.
func (r *Resolver) Resolve(input string) (Match, error) {
	norm := strings.ToLower(strings.TrimSpace(input))
	if norm == "" {
		return Match{}, &internal.ValidationError{Message: "goal must be a non-empty string"}
	}
	if canonical, ok := r.synonyms[norm]; ok {
		return Match{Goal: canonical, Confidence: 100}, nil
	}

	bestScore := 0
	bestGoal := ""
	for _, term := range r.terms {
		score := fuzzy.TokenSetRatio(norm, term)
		if score > bestScore {
			bestScore = score
			bestGoal = r.synonyms[term]
		}
	}
	if bestScore >= acceptThreshold {
		return Match{Goal: bestGoal, Confidence: bestScore}, nil
	}

	return Match{}, &internal.GoalMatchError{
		Message:     fmt.Sprintf("could not confidently match %q to a nutrition goal", input),
		Suggestions: r.Suggest(norm),
	}
}

// Suggest ranks all known terms by similarity and returns up to three
// distinct canonical goals scoring above the suggestion threshold. The
// top-scoring goal is always included so callers never get an empty
// hint list.
func (r *Resolver) Suggest(norm string) []string {
	type scored struct {
		goal  string
		score int
	}
	ranked := make([]scored, 0, len(r.terms))
	for _, term := range r.terms {
		ranked = append(ranked, scored{goal: r.synonyms[term], score: fuzzy.TokenSetRatio(norm, term)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	seen := make(map[string]bool)
	var out []string
	for _, s := range ranked {
		if len(out) >= maxSuggestions {
			break
		}
		if seen[s.goal] {
			continue
		}
		if s.score <= suggestThreshold && len(out) > 0 {
			break
		}
		seen[s.goal] = true
		out = append(out, s.goal)
		if s.score <= suggestThreshold {
			break
		}
	}
	return out
}

// Goals returns the full canonical goal table.
func (r *Resolver) Goals() []Goal {
	return r.goals
}

// Lookup returns the goal definition for a canonical name.
func (r *Resolver) Lookup(name string) (Goal, bool) {
	g, ok := r.byName[name]
	return g, ok
}
