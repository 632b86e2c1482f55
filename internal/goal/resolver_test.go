package goal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realakshayk/good-eats/internal"
)

func TestResolveExactSynonym(t *testing.T) {
	r := NewResolver()
	cases := map[string]string{
		"muscle_gain":    "muscle_gain",
		"muscle gain":    "muscle_gain",
		"bulk phase":     "muscle_gain",
		"fat loss":       "weight_loss",
		"keto diet":      "keto",
		"vegan":          "vegan_protein",
		"MUSCLE GAIN":    "muscle_gain", // case-insensitive
		"  weight loss ": "weight_loss", // surrounding whitespace
	}
	for input, want := range cases {
		match, err := r.Resolve(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, match.Goal, input)
		assert.Equal(t, 100, match.Confidence, input)
	}
}

func TestResolveFuzzyTypo(t *testing.T) {
	r := NewResolver()
	match, err := r.Resolve("muscle gaim")
	assert.NoError(t, err)
	assert.Equal(t, "muscle_gain", match.Goal)
	assert.GreaterOrEqual(t, match.Confidence, 80)
	assert.Less(t, match.Confidence, 100)
}

func TestResolveNoMatchGivesSuggestions(t *testing.T) {
	r := NewResolver()
	_, err := r.Resolve("superman strength")
	var matchErr *internal.GoalMatchError
	assert.True(t, errors.As(err, &matchErr))
	assert.NotEmpty(t, matchErr.Suggestions)
	assert.LessOrEqual(t, len(matchErr.Suggestions), 3)
	for _, s := range matchErr.Suggestions {
		_, ok := r.Lookup(s)
		assert.True(t, ok, "suggestion %q should be a canonical goal", s)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver()
	var validationErr *internal.ValidationError
	_, err := r.Resolve("")
	assert.True(t, errors.As(err, &validationErr))
	_, err = r.Resolve("   ")
	assert.True(t, errors.As(err, &validationErr))
}

func TestGoalsTableComplete(t *testing.T) {
	r := NewResolver()
	goals := r.Goals()
	assert.Len(t, goals, 6)
	for _, g := range goals {
		assert.NotEmpty(t, g.Name)
		assert.Greater(t, g.CaloriesMax, g.CaloriesMin)
		assert.GreaterOrEqual(t, g.Protein.Max, g.Protein.Min)
	}
}
