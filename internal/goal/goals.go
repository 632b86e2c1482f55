package goal

import "strings"

// MacroRange is a fractional range of total calories for one macro.
type MacroRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Goal is a canonical nutrition goal. The table below is the single
// source of truth; goals are immutable after construction.
type Goal struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CaloriesMin int        `json:"calories_min"`
	CaloriesMax int        `json:"calories_max"`
	Protein     MacroRange `json:"protein"`
	Carbs       MacroRange `json:"carbs"`
	Fat         MacroRange `json:"fat"`
	Synonyms    []string   `json:"synonyms,omitempty"`
}

var goalTable = []Goal{
	{
		Name:        "muscle_gain",
		Description: "High protein (30-40%), 2500-3500 cal, moderate carbs/fats",
		CaloriesMin: 2500, CaloriesMax: 3500,
		Protein:  MacroRange{0.3, 0.4},
		Carbs:    MacroRange{0.3, 0.4},
		Fat:      MacroRange{0.2, 0.3},
		Synonyms: []string{"muscle building", "bulk phase", "gaining", "mass up"},
	},
	{
		Name:        "weight_loss",
		Description: "1500-2000 cal, 25-30% protein, low carbs, moderate fats",
		CaloriesMin: 1500, CaloriesMax: 2000,
		Protein:  MacroRange{0.25, 0.3},
		Carbs:    MacroRange{0.2, 0.35},
		Fat:      MacroRange{0.3, 0.4},
		Synonyms: []string{"fat loss", "cutting phase", "lean down"},
	},
	{
		Name:        "keto",
		Description: "5-10% carbs, 70-80% fat, moderate protein, 1800-2200 cal",
		CaloriesMin: 1800, CaloriesMax: 2200,
		Protein:  MacroRange{0.15, 0.25},
		Carbs:    MacroRange{0.05, 0.1},
		Fat:      MacroRange{0.7, 0.8},
		Synonyms: []string{"keto diet", "low carb high fat"},
	},
	{
		Name:        "balanced",
		Description: "2000-2500 cal with balanced macros (30/40/30)",
		CaloriesMin: 2000, CaloriesMax: 2500,
		Protein: MacroRange{0.3, 0.3},
		Carbs:   MacroRange{0.4, 0.4},
		Fat:     MacroRange{0.3, 0.3},
	},
	{
		Name:        "athletic_endurance",
		Description: "3000-4000 cal, higher carbs (50-60%), moderate protein/fat",
		CaloriesMin: 3000, CaloriesMax: 4000,
		Protein:  MacroRange{0.15, 0.2},
		Carbs:    MacroRange{0.5, 0.6},
		Fat:      MacroRange{0.2, 0.3},
		Synonyms: []string{"endurance", "marathon training"},
	},
	{
		Name:        "vegan_protein",
		Description: "2000-2400 cal, high plant protein, low/medium fat",
		CaloriesMin: 2000, CaloriesMax: 2400,
		Protein:  MacroRange{0.25, 0.35},
		Carbs:    MacroRange{0.4, 0.5},
		Fat:      MacroRange{0.2, 0.3},
		Synonyms: []string{"vegan", "plant-based protein"},
	},
}

// buildSynonymIndex maps every synonym, every canonical name, and the
// spaced variant of every canonical name onto its canonical goal.
func buildSynonymIndex(goals []Goal) map[string]string {
	idx := make(map[string]string)
	for _, g := range goals {
		for _, syn := range g.Synonyms {
			idx[strings.ToLower(syn)] = g.Name
		}
		idx[strings.ReplaceAll(g.Name, "_", " ")] = g.Name
		idx[g.Name] = g.Name
	}
	return idx
}
