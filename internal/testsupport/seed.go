package testsupport

import (
	"context"
	"testing"
	"time"

	"crumb/internal/storage"
)

// StepSpec describes one recipe step to seed.
type StepSpec struct {
	Name             string
	Order            int
	DurationMinutes  int
	DurationOverride *int
	Notes            *string
	Ingredients      []IngredientSpec
}

// IngredientSpec describes one stage ingredient to seed.
type IngredientSpec struct {
	Name       string
	Percentage float64
	IsWet      bool
}

// RecipeSpec describes a recipe to seed.
type RecipeSpec struct {
	Name   string
	UserID *int64
	IsBase bool
	Steps  []StepSpec
}

// CreateUser inserts a user row and returns its id.
func CreateUser(t *testing.T, db *storage.DB, username string) int64 {
	t.Helper()

	res, err := db.Handle().ExecContext(context.Background(),
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username, username+"@example.com", "x", storage.FormatTime(time.Now()))
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed user id: %v", err)
	}
	return id
}

// CreateRecipe inserts a recipe with its steps and stage ingredients and
// returns the recipe id. Step and ingredient catalog rows are created on
// demand so specs can use arbitrary names.
func CreateRecipe(t *testing.T, db *storage.DB, spec RecipeSpec) int64 {
	t.Helper()

	ctx := context.Background()
	var recipeID int64
	err := db.InTx(ctx, func(tx storage.Querier) error {
		var userID any
		if spec.UserID != nil {
			userID = *spec.UserID
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (user_id, recipe_name, is_base_recipe, created_at) VALUES (?, ?, ?, ?)`,
			userID, spec.Name, storage.BoolToInt(spec.IsBase), storage.FormatTime(time.Now()))
		if err != nil {
			return err
		}
		if recipeID, err = res.LastInsertId(); err != nil {
			return err
		}

		for _, step := range spec.Steps {
			stepID, err := ensureStep(ctx, tx, step.Name, step.DurationMinutes)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_steps (recipe_id, step_id, step_order, duration_override, notes)
				 VALUES (?, ?, ?, ?, ?)`,
				recipeID, stepID, step.Order,
				storage.IntOrNil(step.DurationOverride), storage.StringOrNil(step.Notes))
			if err != nil {
				return err
			}
			recipeStepID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, ing := range step.Ingredients {
				ingredientID, err := ensureIngredient(ctx, tx, ing.Name, ing.IsWet)
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO stage_ingredients (recipe_step_id, ingredient_id, percentage, is_wet)
					 VALUES (?, ?, ?, ?)`,
					recipeStepID, ingredientID, ing.Percentage, storage.BoolToInt(ing.IsWet)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed recipe %s: %v", spec.Name, err)
	}
	return recipeID
}

func ensureStep(ctx context.Context, q storage.Querier, name string, duration int) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT step_id FROM steps WHERE step_name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO steps (step_name, duration_minutes, is_predefined) VALUES (?, ?, 0)`,
		name, duration)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func ensureIngredient(ctx context.Context, q storage.Querier, name string, isWet bool) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT ingredient_id FROM ingredients WHERE ingredient_name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO ingredients (ingredient_name, is_wet) VALUES (?, ?)`,
		name, storage.BoolToInt(isWet))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
