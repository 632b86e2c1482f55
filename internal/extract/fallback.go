package extract

import (
	"regexp"
	"strings"

	"github.com/realakshayk/good-eats/internal"
)

var foodKeywords = []string{
	"grilled", "crispy", "tofu", "chicken", "beef", "salad", "bowl", "burger",
	"quinoa", "avocado", "vegan", "steak", "rice", "pasta", "shrimp", "fish",
	"egg", "cheese", "wrap", "plate",
}

var priceRe = regexp.MustCompile(`\$\d+(\.\d+)?`)

// FallbackParser is the deterministic extractor used when the language
// model is unavailable or keeps returning garbage. It scans lines for
// food keywords, splits name/description on the first dash, and pulls a
// dollar price if one is present.
type FallbackParser struct{}

func NewFallbackParser() *FallbackParser {
	return &FallbackParser{}
}

func (p *FallbackParser) Parse(rawText string) ParsedMenu {
	var meals []ParsedMeal
	for _, line := range strings.Split(rawText, "\n") {
		if len(line) <= 10 || !containsFoodKeyword(line) {
			continue
		}
		name, desc, _ := strings.Cut(line, "-")
		name = strings.TrimSpace(name)
		desc = strings.TrimSpace(priceRe.ReplaceAllString(desc, ""))
		meals = append(meals, ParsedMeal{
			Name:           name,
			Description:    desc,
			Price:          priceRe.FindString(line),
			Tags:           []string{},
			RelevanceScore: 0.5,
		})
	}
	return ParsedMenu{Meals: meals, Source: "fallback", Confidence: internal.ConfidenceLow}
}

func containsFoodKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
