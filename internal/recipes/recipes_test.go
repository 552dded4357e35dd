package recipes_test

import (
	"context"
	"errors"
	"testing"

	"crumb/internal/recipes"
	"crumb/internal/services"
	"crumb/internal/testsupport"
)

func intPtr(v int) *int { return &v }

func TestFirstStepUsesDurationOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()

	owner := testsupport.CreateUser(t, db, "ada")
	recipeID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "Weekend Loaf",
		UserID: &owner,
		Steps: []testsupport.StepSpec{
			{Name: "Slow Bulk", Order: 1, DurationMinutes: 240, DurationOverride: intPtr(300)},
			{Name: "Slow Proof", Order: 2, DurationMinutes: 720},
		},
	})

	step, err := recipes.NewReader(db.Handle()).FirstStep(ctx, recipeID, owner)
	if err != nil {
		t.Fatalf("FirstStep: %v", err)
	}
	if step.StepName != "Slow Bulk" || step.StepOrder != 1 {
		t.Fatalf("unexpected first step: %+v", step)
	}
	if step.PlannedDurationMinutes == nil || *step.PlannedDurationMinutes != 300 {
		t.Fatalf("override not applied: %v", step.PlannedDurationMinutes)
	}
}

func TestFirstStepFallsBackToCatalogDuration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()

	owner := testsupport.CreateUser(t, db, "ada")
	recipeID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "Plain Loaf",
		UserID: &owner,
		Steps:  []testsupport.StepSpec{{Name: "Quick Mix", Order: 1, DurationMinutes: 15}},
	})

	step, err := recipes.NewReader(db.Handle()).FirstStep(ctx, recipeID, owner)
	if err != nil {
		t.Fatalf("FirstStep: %v", err)
	}
	if step.PlannedDurationMinutes == nil || *step.PlannedDurationMinutes != 15 {
		t.Fatalf("catalog duration not used: %v", step.PlannedDurationMinutes)
	}
}

func TestFirstStepVisibility(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()
	reader := recipes.NewReader(db.Handle())

	owner := testsupport.CreateUser(t, db, "ada")
	stranger := testsupport.CreateUser(t, db, "bob")

	private := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "Private",
		UserID: &owner,
		Steps:  []testsupport.StepSpec{{Name: "Mix A", Order: 1, DurationMinutes: 10}},
	})
	base := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "House Base",
		UserID: &owner,
		IsBase: true,
		Steps:  []testsupport.StepSpec{{Name: "Mix B", Order: 1, DurationMinutes: 10}},
	})
	ownerless := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:  "Template",
		Steps: []testsupport.StepSpec{{Name: "Mix C", Order: 1, DurationMinutes: 10}},
	})

	if _, err := reader.FirstStep(ctx, private, stranger); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
	if _, err := reader.FirstStep(ctx, private, owner); err != nil {
		t.Fatalf("owner should see own recipe: %v", err)
	}
	if _, err := reader.FirstStep(ctx, base, stranger); err != nil {
		t.Fatalf("base recipe should be visible: %v", err)
	}
	if _, err := reader.FirstStep(ctx, ownerless, stranger); err != nil {
		t.Fatalf("ownerless recipe should be visible: %v", err)
	}
}

func TestFirstStepRejectsEmptyRecipe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)

	owner := testsupport.CreateUser(t, db, "ada")
	recipeID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{Name: "Empty", UserID: &owner})

	_, err := recipes.NewReader(db.Handle()).FirstStep(context.Background(), recipeID, owner)
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty recipe, got %v", err)
	}
}

func TestStepAfterToleratesOrderGaps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()

	owner := testsupport.CreateUser(t, db, "ada")
	recipeID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "Gappy",
		UserID: &owner,
		Steps: []testsupport.StepSpec{
			{Name: "Gap One", Order: 1, DurationMinutes: 10},
			{Name: "Gap Three", Order: 3, DurationMinutes: 20},
		},
	})

	reader := recipes.NewReader(db.Handle())
	next, err := reader.StepAfter(ctx, recipeID, 1)
	if err != nil {
		t.Fatalf("StepAfter(1): %v", err)
	}
	if next == nil || next.StepOrder != 3 {
		t.Fatalf("expected order 3, got %+v", next)
	}

	last, err := reader.StepAfter(ctx, recipeID, 3)
	if err != nil {
		t.Fatalf("StepAfter(3): %v", err)
	}
	if last != nil {
		t.Fatalf("expected no step after the last, got %+v", last)
	}
}

func TestStageIngredientsKeepInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)

	owner := testsupport.CreateUser(t, db, "ada")
	recipeID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "Porridge Loaf",
		UserID: &owner,
		Steps: []testsupport.StepSpec{{
			Name: "Porridge Mix", Order: 1, DurationMinutes: 20,
			Ingredients: []testsupport.IngredientSpec{
				{Name: "Oats", Percentage: 20},
				{Name: "Water", Percentage: 40, IsWet: true},
				{Name: "Honey", Percentage: 5, IsWet: true},
			},
		}},
	})

	step, err := recipes.NewReader(db.Handle()).FirstStep(context.Background(), recipeID, owner)
	if err != nil {
		t.Fatalf("FirstStep: %v", err)
	}
	if len(step.StageIngredients) != 3 {
		t.Fatalf("expected 3 ingredients, got %d", len(step.StageIngredients))
	}
	names := []string{step.StageIngredients[0].Name, step.StageIngredients[1].Name, step.StageIngredients[2].Name}
	if names[0] != "Oats" || names[1] != "Water" || names[2] != "Honey" {
		t.Fatalf("insertion order lost: %v", names)
	}
	if !step.StageIngredients[1].IsWet {
		t.Fatal("water should be wet")
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()
	store := recipes.NewStore(db)

	owner := testsupport.CreateUser(t, db, "ada")

	catalog, err := store.ListSteps(ctx)
	if err != nil {
		t.Fatalf("ListSteps: %v", err)
	}
	var mixID, bakeID int64
	for _, step := range catalog {
		switch step.Name {
		case "Mix":
			mixID = step.ID
		case "Bake":
			bakeID = step.ID
		}
	}
	if mixID == 0 || bakeID == 0 {
		t.Fatal("predefined steps missing from catalog")
	}

	ingredients, err := store.ListIngredients(ctx)
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	var flourID int64
	for _, ing := range ingredients {
		if ing.Name == "Bread Flour" {
			flourID = ing.ID
		}
	}
	if flourID == 0 {
		t.Fatal("bread flour missing from catalog")
	}

	created, err := store.Create(ctx, owner, recipes.NewRecipe{
		Name: "Tuesday Bake",
		Steps: []recipes.NewStep{
			{
				StepID: mixID, StepOrder: 1, DurationOverride: intPtr(20),
				StageIngredients: []recipes.NewIngredient{{IngredientID: flourID, Percentage: 100}},
			},
			{StepID: bakeID, StepOrder: 2},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Tuesday Bake" || len(created.Steps) != 2 {
		t.Fatalf("unexpected created recipe: %+v", created)
	}
	if created.Steps[0].PlannedDurationMinutes == nil || *created.Steps[0].PlannedDurationMinutes != 20 {
		t.Fatalf("override lost: %v", created.Steps[0].PlannedDurationMinutes)
	}
	if len(created.Steps[0].StageIngredients) != 1 {
		t.Fatalf("stage ingredient lost: %+v", created.Steps[0])
	}

	got, err := store.Get(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Steps[1].StepName != "Bake" {
		t.Fatalf("unexpected second step: %+v", got.Steps[1])
	}
}

func TestCreateValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()
	store := recipes.NewStore(db)
	owner := testsupport.CreateUser(t, db, "ada")

	cases := map[string]recipes.NewRecipe{
		"empty name":      {Name: "  ", Steps: []recipes.NewStep{{StepID: 1, StepOrder: 1}}},
		"no steps":        {Name: "Bare"},
		"duplicate order": {Name: "Dup", Steps: []recipes.NewStep{{StepID: 1, StepOrder: 1}, {StepID: 2, StepOrder: 1}}},
		"zero order":      {Name: "Zero", Steps: []recipes.NewStep{{StepID: 1, StepOrder: 0}}},
	}
	for name, input := range cases {
		if _, err := store.Create(ctx, owner, input); !errors.Is(err, services.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()
	store := recipes.NewStore(db)

	owner := testsupport.CreateUser(t, db, "ada")
	stranger := testsupport.CreateUser(t, db, "bob")

	recipeID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "Mine",
		UserID: &owner,
		Steps:  []testsupport.StepSpec{{Name: "Mix D", Order: 1, DurationMinutes: 10}},
	})
	baseID := testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{
		Name:   "House Base",
		UserID: &owner,
		IsBase: true,
		Steps:  []testsupport.StepSpec{{Name: "Mix E", Order: 1, DurationMinutes: 10}},
	})

	if err := store.Delete(ctx, recipeID, stranger); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("stranger delete should be not found, got %v", err)
	}
	if err := store.Delete(ctx, baseID, owner); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("base recipe delete should be not found, got %v", err)
	}
	if err := store.Delete(ctx, recipeID, owner); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := store.Get(ctx, recipeID, owner); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("deleted recipe still visible: %v", err)
	}
}

func TestListShowsOnlyVisibleRecipes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()
	store := recipes.NewStore(db)

	owner := testsupport.CreateUser(t, db, "ada")
	stranger := testsupport.CreateUser(t, db, "bob")

	testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{Name: "Ada Private", UserID: &owner})
	testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{Name: "House Base", UserID: &owner, IsBase: true})
	testsupport.CreateRecipe(t, db, testsupport.RecipeSpec{Name: "Template"})

	visible, err := store.List(ctx, stranger)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible recipes for stranger, got %d", len(visible))
	}
	for _, recipe := range visible {
		if recipe.Name == "Ada Private" {
			t.Fatal("private recipe leaked to stranger")
		}
	}

	own, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("List owner: %v", err)
	}
	if len(own) != 3 {
		t.Fatalf("expected 3 visible recipes for owner, got %d", len(own))
	}
}
