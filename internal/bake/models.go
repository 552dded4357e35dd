package bake

import (
	"fmt"
	"time"

	"crumb/internal/recipes"
	"crumb/internal/services"
)

// Status is the lifecycle state of a bake log.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// ParseStatus validates a client-supplied status value.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusActive, StatusPaused, StatusCompleted, StatusAbandoned:
		return Status(value), nil
	default:
		return "", services.Wrap(services.ErrInvalidInput, "parse status",
			fmt.Sprintf("invalid status %q", value), nil)
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Log is a bake log header.
type Log struct {
	ID         int64      `json:"bakeLogId"`
	UserID     int64      `json:"userId"`
	RecipeID   int64      `json:"recipeId"`
	RecipeName string     `json:"recipeName"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"startTimestamp"`
	EndedAt    *time.Time `json:"endTimestamp"`
	Notes      *string    `json:"notes"`
}

// StepView is a step log merged with the recipe detail the client renders
// while the step runs. Name, order, and planned duration come from the step
// log snapshot; Notes and the descriptive fields come from the recipe.
// UserNotes is what the baker wrote when completing the step.
type StepView struct {
	BakeStepLogID              int64                     `json:"bakeStepLogId"`
	RecipeStepID               int64                     `json:"recipeStepId"`
	StepName                   string                    `json:"stepName"`
	StepOrder                  int                       `json:"stepOrder"`
	PlannedDurationMinutes     *int                      `json:"plannedDurationMinutes"`
	StartedAt                  time.Time                 `json:"actualStartTimestamp"`
	EndedAt                    *time.Time                `json:"actualEndTimestamp"`
	Notes                      *string                   `json:"notes"`
	UserNotes                  *string                   `json:"userStepNotes"`
	Description                *string                   `json:"description"`
	TargetTemperatureCelsius   *float64                  `json:"targetTemperatureCelsius"`
	StretchFoldIntervalMinutes *int                      `json:"stretchFoldIntervalMinutes"`
	StretchFoldSetCount        *int                      `json:"stretchFoldSetCount"`
	StageIngredients           []recipes.StageIngredient `json:"stageIngredients"`
}

// ActiveBake is a running or paused bake with its open step, if any.
type ActiveBake struct {
	Log
	CurrentStep *StepView `json:"currentStepDetails"`
}

// StartResult is the outcome of starting a bake.
type StartResult struct {
	Bake        Log       `json:"bake"`
	CurrentStep *StepView `json:"currentStepDetails"`
}

// CompleteResult is the outcome of completing the open step. NextStep is nil
// when the completed step was the last one, in which case the bake itself is
// completed.
type CompleteResult struct {
	Bake          Log       `json:"bake"`
	NextStep      *StepView `json:"currentStepDetails"`
	BakeCompleted bool      `json:"bakeCompleted"`
}

// Detail is the full view of one bake: header, open step, executed step
// history in recipe order, and the recipe tree as it exists now.
type Detail struct {
	Log
	CurrentStep *StepView             `json:"currentStepDetails"`
	History     []StepView            `json:"historyStepDetails"`
	Recipe      *recipes.RecipeDetail `json:"recipe"`
}
