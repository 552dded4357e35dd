package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"crumb/internal/services"
	"crumb/internal/storage"
)

// Store covers the recipe CRUD surface and the step and ingredient catalogs.
type Store struct {
	db  *storage.DB
	now func() time.Time
}

// NewStore creates a recipe store.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const recipeColumns = `
	r.recipe_id, r.user_id, r.recipe_name, r.description, r.is_base_recipe,
	r.target_dough_weight, r.hydration_percentage, r.created_at`

// List returns every recipe visible to the user, base recipes first.
func (s *Store) List(ctx context.Context, userID int64) ([]Recipe, error) {
	rows, err := s.db.Handle().QueryContext(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		WHERE `+visibleClause+`
		ORDER BY r.is_base_recipe DESC, r.recipe_name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, *recipe)
	}
	return out, rows.Err()
}

// Get returns a visible recipe with its full step tree.
func (s *Store) Get(ctx context.Context, recipeID, userID int64) (*RecipeDetail, error) {
	row := s.db.Handle().QueryRowContext(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		WHERE r.recipe_id = ? AND `+visibleClause, recipeID, userID)

	recipe, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "get recipe", "recipe not found", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	steps, err := NewReader(s.db.Handle()).AllSteps(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &RecipeDetail{Recipe: *recipe, Steps: steps}, nil
}

// Create inserts a recipe with its steps and stage ingredients in one
// transaction and returns the stored tree.
func (s *Store) Create(ctx context.Context, userID int64, input NewRecipe) (*RecipeDetail, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "create recipe", "recipeName is required", nil)
	}
	if len(input.Steps) == 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "create recipe", "at least one step is required", nil)
	}
	seenOrders := make(map[int]bool, len(input.Steps))
	for _, step := range input.Steps {
		if step.StepOrder <= 0 {
			return nil, services.Wrap(services.ErrInvalidInput, "create recipe", "stepOrder must be positive", nil)
		}
		if seenOrders[step.StepOrder] {
			return nil, services.Wrap(services.ErrInvalidInput, "create recipe",
				fmt.Sprintf("duplicate stepOrder %d", step.StepOrder), nil)
		}
		seenOrders[step.StepOrder] = true
	}

	var recipeID int64
	err := s.db.InTx(ctx, func(tx storage.Querier) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (user_id, recipe_name, description, is_base_recipe,
			                     target_dough_weight, hydration_percentage, created_at)
			VALUES (?, ?, ?, 0, ?, ?, ?)`,
			userID, strings.TrimSpace(input.Name), storage.StringOrNil(input.Description),
			storage.FloatOrNil(input.TargetDoughWeight), storage.FloatOrNil(input.HydrationPercentage),
			storage.FormatTime(s.now()))
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		if recipeID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("read recipe id: %w", err)
		}

		for _, step := range input.Steps {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO recipe_steps (recipe_id, step_id, step_order, duration_override,
				                          notes, target_temperature_celsius,
				                          stretch_fold_interval_minutes, stretch_fold_set_count)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				recipeID, step.StepID, step.StepOrder,
				storage.IntOrNil(step.DurationOverride), storage.StringOrNil(step.Notes),
				storage.FloatOrNil(step.TargetTemperatureCelsius),
				storage.IntOrNil(step.StretchFoldIntervalMinutes),
				storage.IntOrNil(step.StretchFoldSetCount))
			if err != nil {
				if isForeignKeyViolation(err) {
					return services.Wrap(services.ErrInvalidInput, "create recipe",
						fmt.Sprintf("unknown stepId %d", step.StepID), nil)
				}
				return fmt.Errorf("insert recipe step: %w", err)
			}
			recipeStepID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("read recipe step id: %w", err)
			}

			for _, ing := range step.StageIngredients {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO stage_ingredients (recipe_step_id, ingredient_id, percentage,
					                               is_wet, calculated_weight)
					VALUES (?, ?, ?, ?, ?)`,
					recipeStepID, ing.IngredientID, ing.Percentage,
					storage.BoolToInt(ing.IsWet), storage.FloatOrNil(ing.CalculatedWeight)); err != nil {
					if isForeignKeyViolation(err) {
						return services.Wrap(services.ErrInvalidInput, "create recipe",
							fmt.Sprintf("unknown ingredientId %d", ing.IngredientID), nil)
					}
					return fmt.Errorf("insert stage ingredient: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID, userID)
}

// Delete removes a recipe the user owns. Base recipes and other users'
// recipes resolve as not found.
func (s *Store) Delete(ctx context.Context, recipeID, userID int64) error {
	res, err := s.db.ExecRetry(ctx,
		`DELETE FROM recipes WHERE recipe_id = ? AND user_id = ? AND is_base_recipe = 0`,
		recipeID, userID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe rows: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "delete recipe", "recipe not found", nil)
	}
	return nil
}

// ListIngredients returns the ingredient catalog ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.db.Handle().QueryContext(ctx,
		`SELECT ingredient_id, ingredient_name, is_wet FROM ingredients ORDER BY ingredient_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var (
			ing   Ingredient
			isWet int
		)
		if err := rows.Scan(&ing.ID, &ing.Name, &isWet); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.IsWet = isWet != 0
		out = append(out, ing)
	}
	return out, rows.Err()
}

// CatalogStep is a step catalog entry.
type CatalogStep struct {
	ID              int64   `json:"stepId"`
	Name            string  `json:"stepName"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"durationMinutes"`
	IsPredefined    bool    `json:"isPredefined"`
}

// ListSteps returns the step catalog, predefined entries first.
func (s *Store) ListSteps(ctx context.Context) ([]CatalogStep, error) {
	rows, err := s.db.Handle().QueryContext(ctx, `
		SELECT step_id, step_name, description, duration_minutes, is_predefined
		FROM steps
		ORDER BY is_predefined DESC, step_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var out []CatalogStep
	for rows.Next() {
		var (
			step       CatalogStep
			desc       sql.NullString
			duration   sql.NullInt64
			predefined int
		)
		if err := rows.Scan(&step.ID, &step.Name, &desc, &duration, &predefined); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		step.Description = storage.NullableString(desc)
		step.DurationMinutes = storage.NullableInt(duration)
		step.IsPredefined = predefined != 0
		out = append(out, step)
	}
	return out, rows.Err()
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var (
		recipe    Recipe
		userID    sql.NullInt64
		desc      sql.NullString
		isBase    int
		weight    sql.NullFloat64
		hydration sql.NullFloat64
		createdAt string
	)
	err := row.Scan(&recipe.ID, &userID, &recipe.Name, &desc, &isBase, &weight, &hydration, &createdAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.Int64
		recipe.UserID = &id
	}
	recipe.Description = storage.NullableString(desc)
	recipe.IsBase = isBase != 0
	recipe.TargetDoughWeight = storage.NullableFloat(weight)
	recipe.HydrationPercentage = storage.NullableFloat(hydration)
	if ts, err := storage.ParseTime(createdAt); err == nil {
		recipe.CreatedAt = ts
	}
	return &recipe, nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
