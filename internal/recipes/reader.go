package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crumb/internal/services"
	"crumb/internal/storage"
)

// visibleClause selects recipes the bound user may see. Bind the user id once.
const visibleClause = "(r.user_id = ? OR r.is_base_recipe = 1 OR r.user_id IS NULL)"

const stepSnapshotColumns = `
	rs.recipe_step_id, rs.step_id, s.step_name, rs.step_order,
	COALESCE(rs.duration_override, s.duration_minutes),
	rs.notes, s.description,
	rs.target_temperature_celsius, rs.stretch_fold_interval_minutes, rs.stretch_fold_set_count`

// Reader resolves recipe steps for bake execution. It works against any
// Querier so it can participate in a caller's transaction.
type Reader struct {
	q storage.Querier
}

// NewReader creates a reader bound to q.
func NewReader(q storage.Querier) *Reader {
	return &Reader{q: q}
}

// Visible reports whether the recipe exists and the user may see it.
func (r *Reader) Visible(ctx context.Context, recipeID, userID int64) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx,
		"SELECT 1 FROM recipes r WHERE r.recipe_id = ? AND "+visibleClause,
		recipeID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check recipe visibility: %w", err)
	}
	return true, nil
}

// FirstStep returns the lowest-ordered step of a visible recipe. A recipe
// the user cannot see resolves as not found; a visible recipe without steps
// is rejected as invalid input, since it cannot be baked.
func (r *Reader) FirstStep(ctx context.Context, recipeID, userID int64) (*StepSnapshot, error) {
	visible, err := r.Visible(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, services.Wrap(services.ErrNotFound, "resolve recipe", "recipe not found", nil)
	}

	step, err := r.scanStep(r.q.QueryRowContext(ctx, `
		SELECT `+stepSnapshotColumns+`
		FROM recipe_steps rs
		JOIN steps s ON s.step_id = rs.step_id
		WHERE rs.recipe_id = ?
		ORDER BY rs.step_order ASC
		LIMIT 1`, recipeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrInvalidInput, "resolve recipe", "recipe has no steps", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load first step: %w", err)
	}

	if err := r.attachIngredients(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// StepAfter returns the next step with an order strictly greater than the
// given one. Order values may have gaps. A nil snapshot with nil error means
// the recipe has no further steps.
func (r *Reader) StepAfter(ctx context.Context, recipeID int64, order int) (*StepSnapshot, error) {
	step, err := r.scanStep(r.q.QueryRowContext(ctx, `
		SELECT `+stepSnapshotColumns+`
		FROM recipe_steps rs
		JOIN steps s ON s.step_id = rs.step_id
		WHERE rs.recipe_id = ? AND rs.step_order > ?
		ORDER BY rs.step_order ASC
		LIMIT 1`, recipeID, order))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load next step: %w", err)
	}

	if err := r.attachIngredients(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// StepByRecipeStepID returns one step by its recipe_steps row id.
func (r *Reader) StepByRecipeStepID(ctx context.Context, recipeStepID int64) (*StepSnapshot, error) {
	step, err := r.scanStep(r.q.QueryRowContext(ctx, `
		SELECT `+stepSnapshotColumns+`
		FROM recipe_steps rs
		JOIN steps s ON s.step_id = rs.step_id
		WHERE rs.recipe_step_id = ?`, recipeStepID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "resolve step", "recipe step not found", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load step: %w", err)
	}

	if err := r.attachIngredients(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// AllSteps returns every step of a recipe in order, with ingredients.
func (r *Reader) AllSteps(ctx context.Context, recipeID int64) ([]StepSnapshot, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+stepSnapshotColumns+`
		FROM recipe_steps rs
		JOIN steps s ON s.step_id = rs.step_id
		WHERE rs.recipe_id = ?
		ORDER BY rs.step_order ASC`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load recipe steps: %w", err)
	}
	defer rows.Close()

	var steps []StepSnapshot
	for rows.Next() {
		step, err := r.scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe step: %w", err)
		}
		steps = append(steps, *step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe steps: %w", err)
	}

	for i := range steps {
		if err := r.attachIngredients(ctx, &steps[i]); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Reader) scanStep(row rowScanner) (*StepSnapshot, error) {
	var (
		step        StepSnapshot
		planned     sql.NullInt64
		notes       sql.NullString
		description sql.NullString
		targetTemp  sql.NullFloat64
		sfInterval  sql.NullInt64
		sfSets      sql.NullInt64
	)
	err := row.Scan(
		&step.RecipeStepID, &step.StepID, &step.StepName, &step.StepOrder,
		&planned, &notes, &description, &targetTemp, &sfInterval, &sfSets)
	if err != nil {
		return nil, err
	}
	step.PlannedDurationMinutes = storage.NullableInt(planned)
	step.Notes = storage.NullableString(notes)
	step.Description = storage.NullableString(description)
	step.TargetTemperatureCelsius = storage.NullableFloat(targetTemp)
	step.StretchFoldIntervalMinutes = storage.NullableInt(sfInterval)
	step.StretchFoldSetCount = storage.NullableInt(sfSets)
	return &step, nil
}

func (r *Reader) attachIngredients(ctx context.Context, step *StepSnapshot) error {
	rows, err := r.q.QueryContext(ctx, `
		SELECT si.stage_ingredient_id, si.ingredient_id, i.ingredient_name,
		       si.percentage, si.is_wet, si.calculated_weight
		FROM stage_ingredients si
		JOIN ingredients i ON i.ingredient_id = si.ingredient_id
		WHERE si.recipe_step_id = ?
		ORDER BY si.stage_ingredient_id ASC`, step.RecipeStepID)
	if err != nil {
		return fmt.Errorf("load stage ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ing    StageIngredient
			isWet  int
			weight sql.NullFloat64
		)
		if err := rows.Scan(&ing.ID, &ing.IngredientID, &ing.Name, &ing.Percentage, &isWet, &weight); err != nil {
			return fmt.Errorf("scan stage ingredient: %w", err)
		}
		ing.IsWet = isWet != 0
		ing.CalculatedWeight = storage.NullableFloat(weight)
		step.StageIngredients = append(step.StageIngredients, ing)
	}
	return rows.Err()
}
