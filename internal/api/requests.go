package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/goal"
)

const (
	defaultRadiusMiles = 5.0
	defaultPageSize    = 10
	maxPageSize        = 50
)

// Location is a WGS84 point.
type Location struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// MacroOverride lets a caller replace parts of the resolved goal's
// nutritional ranges. Macro bounds are fractions of total calories.
type MacroOverride struct {
	CaloriesMin *int     `json:"calories_min" validate:"omitempty,gte=0"`
	CaloriesMax *int     `json:"calories_max" validate:"omitempty,gte=0"`
	ProteinMin  *float64 `json:"protein_min" validate:"omitempty,gte=0,lte=1"`
	ProteinMax  *float64 `json:"protein_max" validate:"omitempty,gte=0,lte=1"`
	CarbsMin    *float64 `json:"carbs_min" validate:"omitempty,gte=0,lte=1"`
	CarbsMax    *float64 `json:"carbs_max" validate:"omitempty,gte=0,lte=1"`
	FatMin      *float64 `json:"fat_min" validate:"omitempty,gte=0,lte=1"`
	FatMax      *float64 `json:"fat_max" validate:"omitempty,gte=0,lte=1"`
}

// FindMealsRequest is the body of the main discovery endpoint.
type FindMealsRequest struct {
	Goal               string         `json:"goal" validate:"required"`
	Location           *Location      `json:"location" validate:"required"`
	RadiusMiles        float64        `json:"radius_miles" validate:"omitempty,gte=0.5,lte=10"`
	OverrideMacros     *MacroOverride `json:"override_macros"`
	FlavorPreferences  []string       `json:"flavor_preferences" validate:"omitempty,max=10,dive,max=50"`
	ExcludeIngredients []string       `json:"exclude_ingredients" validate:"omitempty,max=20,dive,max=50"`
	Page               int            `json:"page" validate:"omitempty,gte=1"`
	PageSize           int            `json:"page_size" validate:"omitempty,gte=1,lte=50"`
	Refresh            bool           `json:"refresh"`
}

func (r *FindMealsRequest) applyDefaults() {
	if r.RadiusMiles == 0 {
		r.RadiusMiles = defaultRadiusMiles
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.PageSize == 0 {
		r.PageSize = defaultPageSize
	}
}

// applyOverrides copies the goal and layers any caller-supplied ranges
// on top of it.
func (r *FindMealsRequest) applyOverrides(g goal.Goal) goal.Goal {
	o := r.OverrideMacros
	if o == nil {
		return g
	}
	if o.CaloriesMin != nil {
		g.CaloriesMin = *o.CaloriesMin
	}
	if o.CaloriesMax != nil {
		g.CaloriesMax = *o.CaloriesMax
	}
	if o.ProteinMin != nil {
		g.Protein.Min = *o.ProteinMin
	}
	if o.ProteinMax != nil {
		g.Protein.Max = *o.ProteinMax
	}
	if o.CarbsMin != nil {
		g.Carbs.Min = *o.CarbsMin
	}
	if o.CarbsMax != nil {
		g.Carbs.Max = *o.CarbsMax
	}
	if o.FatMin != nil {
		g.Fat.Min = *o.FatMin
	}
	if o.FatMax != nil {
		g.Fat.Max = *o.FatMax
	}
	return g
}

var validate = validator.New()

// validateRequest runs struct validation and converts failures into a
// caller-facing error.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return &internal.ValidationError{Message: "invalid request", Details: verrs.Error()}
		}
		return &internal.ValidationError{Message: "invalid request", Details: err.Error()}
	}
	return nil
}
