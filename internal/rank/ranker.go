package rank

import (
	"sort"
	"strings"

	"github.com/realakshayk/good-eats/internal"
)

// goalAlignedTags gives fixed weights to tags that signal alignment with
// a nutrition goal; anything not listed counts 1, unhealthy tags subtract.
var goalAlignedTags = map[string]int{
	"high_protein":    3,
	"protein_rich":    3,
	"keto":            3,
	"muscle_building": 3,
	"low_carb":        2,
	"lean":            2,
	"carb_free":       2,
	"fat_burning":     2,
	"low_calorie":     1,
	"vegetarian":      1,
	"vegan":           1,
	"gluten_free":     1,
	"healthy":         1,
	"balanced":        1,
}

var unhealthyTags = map[string]int{
	"fried":      1,
	"deep_fried": 2,
	"sugary":     2,
	"dessert":    2,
	"processed":  1,
}

// Goal-fit analysis marks macro misalignment with these tags. They are
// diagnostic, not descriptive, so they must not count toward the
// "unknown tag" bonus.
var neutralTags = map[string]bool{
	"calorie_mismatch": true,
	"protein_mismatch": true,
	"carb_mismatch":    true,
	"fat_mismatch":     true,
}

// Options controls filtering and truncation of the ranked list.
type Options struct {
	// Strict drops candidates whose combined score is not positive.
	Strict bool
	// Limit truncates the result; zero means no truncation.
	Limit int
}

// TagScore sums the alignment weights of a candidate's tags.
func TagScore(tags []string) int {
	score := 0
	for _, tag := range tags {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), " ", "_")
		if key == "" {
			continue
		}
		if penalty, ok := unhealthyTags[key]; ok {
			score -= penalty
			continue
		}
		if neutralTags[key] {
			continue
		}
		if w, ok := goalAlignedTags[key]; ok {
			score += w
		} else {
			score++
		}
	}
	return score
}

// Rank sorts candidates descending by (relevance_score, tag score) with
// a stable sort so encounter order breaks remaining ties. A panic during
// ranking degrades to the first N candidates unranked rather than
// failing the whole discovery.
func Rank(candidates []internal.MealCandidate, opts Options) (ranked []internal.MealCandidate) {
	defer func() {
		if r := recover(); r != nil {
			ranked = truncated(candidates, opts.Limit)
		}
	}()

	type scored struct {
		meal internal.MealCandidate
		tags int
	}
	out := make([]scored, len(candidates))
	for i, c := range candidates {
		out[i] = scored{meal: c, tags: TagScore(c.Tags)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].meal.RelevanceScore != out[j].meal.RelevanceScore {
			return out[i].meal.RelevanceScore > out[j].meal.RelevanceScore
		}
		return out[i].tags > out[j].tags
	})

	meals := make([]internal.MealCandidate, 0, len(out))
	for _, s := range out {
		if opts.Strict && s.meal.RelevanceScore+float64(s.tags) <= 0 {
			continue
		}
		meals = append(meals, s.meal)
	}
	return truncated(meals, opts.Limit)
}

func truncated(meals []internal.MealCandidate, limit int) []internal.MealCandidate {
	if limit > 0 && len(meals) > limit {
		return meals[:limit]
	}
	return meals
}
