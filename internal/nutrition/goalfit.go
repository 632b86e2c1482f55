package nutrition

import (
	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/goal"
)

// GoalFit describes how well one meal's macros line up with a goal.
type GoalFit struct {
	MatchScore float64  `json:"match_score"`
	Tags       []string `json:"tags"`
}

// AnalyzeGoalFit scores a nutrition estimate against a goal's calorie
// and macro ranges. Each mismatch subtracts from a perfect 1.0 and adds
// an explanatory tag. Macro percentages use 4/4/9 kcal per gram.
func AnalyzeGoalFit(est internal.NutritionEstimate, g goal.Goal) GoalFit {
	score := 1.0
	tags := []string{}

	calories := float64(est.Calories)
	if calories < float64(g.CaloriesMin) || calories > float64(g.CaloriesMax) {
		tags = append(tags, "calorie mismatch")
		score -= 0.3
	}
	denom := calories
	if denom < 1 {
		denom = 1
	}
	if pct := est.Protein * 4 / denom; pct < g.Protein.Min || pct > g.Protein.Max {
		tags = append(tags, "protein mismatch")
		score -= 0.2
	}
	if pct := est.Carbs * 4 / denom; pct < g.Carbs.Min || pct > g.Carbs.Max {
		tags = append(tags, "carb mismatch")
		score -= 0.2
	}
	if pct := est.Fat * 9 / denom; pct < g.Fat.Min || pct > g.Fat.Max {
		tags = append(tags, "fat mismatch")
		score -= 0.2
	}
	if score < 0 {
		score = 0
	}
	return GoalFit{MatchScore: score, Tags: tags}
}
