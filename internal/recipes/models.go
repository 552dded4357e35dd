package recipes

import "time"

// Recipe is a recipe header row.
type Recipe struct {
	ID                  int64    `json:"recipeId"`
	UserID              *int64   `json:"userId"`
	Name                string   `json:"recipeName"`
	Description         *string  `json:"description"`
	IsBase              bool     `json:"isBaseRecipe"`
	TargetDoughWeight   *float64 `json:"targetDoughWeight"`
	HydrationPercentage *float64 `json:"hydrationPercentage"`
	CreatedAt           time.Time `json:"createdAt"`
}

// RecipeDetail is a recipe with its ordered steps.
type RecipeDetail struct {
	Recipe
	Steps []StepSnapshot `json:"steps"`
}

// StepSnapshot is one recipe step resolved for execution. PlannedDuration is
// the per-recipe override when present, otherwise the step's default.
type StepSnapshot struct {
	RecipeStepID               int64             `json:"recipeStepId"`
	StepID                     int64             `json:"stepId"`
	StepName                   string            `json:"stepName"`
	StepOrder                  int               `json:"stepOrder"`
	PlannedDurationMinutes     *int              `json:"plannedDurationMinutes"`
	Notes                      *string           `json:"notes"`
	Description                *string           `json:"description"`
	TargetTemperatureCelsius   *float64          `json:"targetTemperatureCelsius"`
	StretchFoldIntervalMinutes *int              `json:"stretchFoldIntervalMinutes"`
	StretchFoldSetCount        *int              `json:"stretchFoldSetCount"`
	StageIngredients           []StageIngredient `json:"stageIngredients"`
}

// StageIngredient is one ingredient used at a specific step.
type StageIngredient struct {
	ID               int64    `json:"stageIngredientId"`
	IngredientID     int64    `json:"ingredientId"`
	Name             string   `json:"ingredientName"`
	Percentage       float64  `json:"percentage"`
	IsWet            bool     `json:"isWet"`
	CalculatedWeight *float64 `json:"calculatedWeight"`
}

// Ingredient is a catalog entry.
type Ingredient struct {
	ID    int64  `json:"ingredientId"`
	Name  string `json:"ingredientName"`
	IsWet bool   `json:"isWet"`
}

// NewStep describes one step of a recipe being created.
type NewStep struct {
	StepID                     int64           `json:"stepId"`
	StepOrder                  int             `json:"stepOrder"`
	DurationOverride           *int            `json:"durationOverride"`
	Notes                      *string         `json:"notes"`
	TargetTemperatureCelsius   *float64        `json:"targetTemperatureCelsius"`
	StretchFoldIntervalMinutes *int            `json:"stretchFoldIntervalMinutes"`
	StretchFoldSetCount        *int            `json:"stretchFoldSetCount"`
	StageIngredients           []NewIngredient `json:"stageIngredients"`
}

// NewIngredient describes one stage ingredient of a recipe being created.
type NewIngredient struct {
	IngredientID     int64    `json:"ingredientId"`
	Percentage       float64  `json:"percentage"`
	IsWet            bool     `json:"isWet"`
	CalculatedWeight *float64 `json:"calculatedWeight"`
}

// NewRecipe describes a recipe being created.
type NewRecipe struct {
	Name                string    `json:"recipeName"`
	Description         *string   `json:"description"`
	TargetDoughWeight   *float64  `json:"targetDoughWeight"`
	HydrationPercentage *float64  `json:"hydrationPercentage"`
	Steps               []NewStep `json:"steps"`
}
