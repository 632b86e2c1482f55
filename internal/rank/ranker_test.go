package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realakshayk/good-eats/internal"
)

func meal(name string, relevance float64, tags ...string) internal.MealCandidate {
	return internal.MealCandidate{Name: name, RelevanceScore: relevance, Tags: tags}
}

func TestRankOrdersByRelevanceFirst(t *testing.T) {
	ranked := Rank([]internal.MealCandidate{
		meal("Salad", 0.4, "healthy"),
		meal("Steak", 0.9, "high_protein"),
		meal("Bowl", 0.7, "balanced"),
	}, Options{})
	assert.Equal(t, []string{"Steak", "Bowl", "Salad"}, names(ranked))
}

func TestRankTagScoreBreaksTies(t *testing.T) {
	ranked := Rank([]internal.MealCandidate{
		meal("Chicken", 0.8, "high_protein", "low_carb"),       // tag score 5
		meal("Steak", 0.8, "high_protein", "keto", "low_carb"), // tag score 8
	}, Options{})
	assert.Equal(t, []string{"Steak", "Chicken"}, names(ranked))
}

func TestRankIsStableOnFullTies(t *testing.T) {
	ranked := Rank([]internal.MealCandidate{
		meal("First", 0.5, "healthy"),
		meal("Second", 0.5, "balanced"),
	}, Options{})
	assert.Equal(t, []string{"First", "Second"}, names(ranked))
}

func TestTagScoreWeights(t *testing.T) {
	assert.Equal(t, 3, TagScore([]string{"high_protein"}))
	assert.Equal(t, 2, TagScore([]string{"low_carb"}))
	assert.Equal(t, 1, TagScore([]string{"vegan"}))
	assert.Equal(t, 1, TagScore([]string{"spicy"})) // unknown still counts
	assert.Equal(t, -2, TagScore([]string{"sugary"}))
	assert.Equal(t, 3, TagScore([]string{"High Protein"})) // normalized
	assert.Equal(t, 0, TagScore(nil))
}

func TestFitMismatchTagsAreNeutral(t *testing.T) {
	assert.Equal(t, 0, TagScore([]string{"calorie mismatch", "protein mismatch"}))
	assert.Equal(t, 0, TagScore([]string{"carb mismatch", "fat mismatch"}))
	// Descriptive tags still score alongside neutral ones.
	assert.Equal(t, 3, TagScore([]string{"high_protein", "calorie mismatch"}))
}

func TestMisalignedMealDoesNotWinTieBreak(t *testing.T) {
	ranked := Rank([]internal.MealCandidate{
		meal("Misfit", 0.5, "calorie mismatch", "protein mismatch"),
		meal("Aligned", 0.5, "balanced"),
	}, Options{})
	assert.Equal(t, []string{"Aligned", "Misfit"}, names(ranked))
}

func TestStrictDropsNonPositiveScores(t *testing.T) {
	ranked := Rank([]internal.MealCandidate{
		meal("Keeper", 0.5, "healthy"),
		meal("Dropped", 0, "sugary", "dessert"),
	}, Options{Strict: true})
	assert.Equal(t, []string{"Keeper"}, names(ranked))
}

func TestLimitTruncates(t *testing.T) {
	ranked := Rank([]internal.MealCandidate{
		meal("A", 0.9), meal("B", 0.8), meal("C", 0.7),
	}, Options{Limit: 2})
	assert.Equal(t, []string{"A", "B"}, names(ranked))
}

func names(meals []internal.MealCandidate) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}
