package internal

// ConfidenceTier is a coarse reliability label attached to an estimate.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// Origin records where a value came from: a live API, a language model,
// a rule/template lookup, or a hardcoded manual default.
type Origin string

const (
	OriginAPI    Origin = "api"
	OriginGPT    Origin = "gpt"
	OriginRule   Origin = "rule"
	OriginManual Origin = "manual"
)

// Venue is a restaurant discovered by a venue-search source. Read-only
// after creation.
type Venue struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Website string  `json:"website,omitempty"`
	Rating  float64 `json:"rating,omitempty"`
}

// VenueSummary is the slice of venue data carried on each meal card.
type VenueSummary struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Rating  float64 `json:"rating,omitempty"`
}

// NutritionEstimate holds estimated macros for a single meal. All four
// required macros are populated unless the origin is the manual default.
type NutritionEstimate struct {
	Calories   int            `json:"calories"`
	Protein    float64        `json:"protein"`
	Carbs      float64        `json:"carbs"`
	Fat        float64        `json:"fat"`
	Fiber      *float64       `json:"fiber,omitempty"`
	Sugar      *float64       `json:"sugar,omitempty"`
	Sodium     *float64       `json:"sodium,omitempty"`
	Confidence ConfidenceTier `json:"confidence_level"`
	Origin     Origin         `json:"estimation_origin"`
}

// MealCandidate is one meal produced by the extraction chain for a venue.
// Immutable once created.
type MealCandidate struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          string            `json:"price,omitempty"`
	Tags           []string          `json:"tags"`
	Nutrition      NutritionEstimate `json:"nutrition"`
	RelevanceScore float64           `json:"relevance_score"`
	Confidence     ConfidenceTier    `json:"confidence_level"`
	Origin         Origin            `json:"estimation_origin"`
	Venue          VenueSummary      `json:"restaurant"`
}

// Plan is a caller's rate-limit plan, loaded once at startup.
type Plan struct {
	Name      string `json:"name"`
	PerMinute int    `json:"requests_per_minute"`
	PerHour   int    `json:"requests_per_hour"`
}
