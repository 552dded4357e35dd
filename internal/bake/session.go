package bake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crumb/internal/logging"
	"crumb/internal/recipes"
	"crumb/internal/services"
	"crumb/internal/storage"
)

// Session orchestrates bake operations. Mutations run in one transaction
// each, so a failure partway through leaves no trace.
type Session struct {
	db     *storage.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSession creates a session over the shared database.
func NewSession(db *storage.DB, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{db: db, logger: logger, now: time.Now}
}

// Start begins a bake of the given recipe: the bake log opens in the active
// status and the recipe's first step opens immediately with its snapshot
// fields copied.
func (s *Session) Start(ctx context.Context, userID, recipeID int64) (*StartResult, error) {
	if recipeID <= 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "start bake", "recipeId is required", nil)
	}

	var result StartResult
	err := s.db.InTx(ctx, func(tx storage.Querier) error {
		first, err := recipes.NewReader(tx).FirstStep(ctx, recipeID, userID)
		if err != nil {
			return err
		}

		store := NewStore(tx)
		startedAt := s.now().UTC()
		bakeLogID, err := store.InsertLog(ctx, userID, recipeID, startedAt)
		if err != nil {
			return err
		}
		stepLogID, err := store.OpenStep(ctx, bakeLogID, first, startedAt)
		if err != nil {
			return err
		}

		log, err := store.FindForUser(ctx, bakeLogID, userID)
		if err != nil {
			return err
		}
		result.Bake = *log
		result.CurrentStep = viewFromSnapshot(stepLogID, first, startedAt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bake started",
		logging.Int64("bake_log_id", result.Bake.ID),
		logging.Int64("recipe_id", recipeID),
		logging.Int64("user_id", userID),
		logging.String("first_step", result.CurrentStep.StepName))
	return &result, nil
}

// CompleteCurrentStep closes the named step log, provided it is the bake's
// open step, and either opens the next step by recipe order or, when none
// remains, completes the bake. Naming the step makes retries safe: a client
// resending the same completion finds the step already closed and gets a
// conflict instead of silently advancing the bake again.
func (s *Session) CompleteCurrentStep(ctx context.Context, userID, bakeLogID, stepLogID int64, notes *string) (*CompleteResult, error) {
	if stepLogID <= 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "complete step", "currentBakeStepLogId is required", nil)
	}

	var result CompleteResult
	err := s.db.InTx(ctx, func(tx storage.Querier) error {
		store := NewStore(tx)
		log, err := store.FindForUser(ctx, bakeLogID, userID)
		if err != nil {
			return err
		}
		if log.Status != StatusActive {
			return services.Wrap(services.ErrInvalidState, "complete step",
				fmt.Sprintf("bake is %s, not active", log.Status), nil)
		}

		open, err := store.FindOpenStep(ctx, bakeLogID)
		if err != nil {
			return err
		}
		if open == nil {
			return services.Wrap(services.ErrConflict, "complete step", "no open step to complete", nil)
		}
		if open.BakeStepLogID != stepLogID {
			return services.Wrap(services.ErrConflict, "complete step", "step already completed", nil)
		}

		completedAt := s.now().UTC()
		won, err := store.CloseStep(ctx, bakeLogID, stepLogID, notes, completedAt)
		if err != nil {
			return err
		}
		if !won {
			return services.Wrap(services.ErrConflict, "complete step", "step already completed", nil)
		}

		next, err := recipes.NewReader(tx).StepAfter(ctx, log.RecipeID, open.StepOrder)
		if err != nil {
			return err
		}
		if next != nil {
			stepLogID, err := store.OpenStep(ctx, bakeLogID, next, completedAt)
			if err != nil {
				return err
			}
			result.NextStep = viewFromSnapshot(stepLogID, next, completedAt)
		} else {
			if err := store.SetStatus(ctx, bakeLogID, StatusCompleted, completedAt); err != nil {
				return err
			}
			result.BakeCompleted = true
		}

		updated, err := store.FindForUser(ctx, bakeLogID, userID)
		if err != nil {
			return err
		}
		result.Bake = *updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.BakeCompleted {
		s.logger.Info("bake completed",
			logging.Int64("bake_log_id", bakeLogID),
			logging.Int64("user_id", userID))
	} else {
		s.logger.Info("bake step advanced",
			logging.Int64("bake_log_id", bakeLogID),
			logging.String("next_step", result.NextStep.StepName),
			logging.Int("step_order", result.NextStep.StepOrder))
	}
	return &result, nil
}

// SetStatus moves the bake to a new status. Completed and abandoned bakes are
// immutable; reaching a terminal status stamps the end timestamp, returning
// to active or paused clears it.
func (s *Session) SetStatus(ctx context.Context, userID, bakeLogID int64, rawStatus string) (*Log, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var updated *Log
	err = s.db.InTx(ctx, func(tx storage.Querier) error {
		store := NewStore(tx)
		log, err := store.FindForUser(ctx, bakeLogID, userID)
		if err != nil {
			return err
		}
		if log.Status.IsTerminal() {
			return services.Wrap(services.ErrInvalidState, "update bake status",
				fmt.Sprintf("bake is already %s", log.Status), nil)
		}

		if err := store.SetStatus(ctx, bakeLogID, status, s.now().UTC()); err != nil {
			return err
		}
		if updated, err = store.FindForUser(ctx, bakeLogID, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bake status changed",
		logging.Int64("bake_log_id", bakeLogID),
		logging.String("status", string(updated.Status)))
	return updated, nil
}

// Active returns the user's active and paused bakes, most recent first, each
// with its open step resolved for display.
func (s *Session) Active(ctx context.Context, userID int64) ([]ActiveBake, error) {
	store := NewStore(s.db.Handle())
	logs, err := store.ListByStatuses(ctx, userID, StatusActive, StatusPaused)
	if err != nil {
		return nil, err
	}

	out := make([]ActiveBake, 0, len(logs))
	for _, log := range logs {
		entry := ActiveBake{Log: log}
		open, err := store.FindOpenStep(ctx, log.ID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			s.enrich(ctx, open)
			entry.CurrentStep = open
		}
		out = append(out, entry)
	}
	return out, nil
}

// History returns every bake of the user, most recent first.
func (s *Session) History(ctx context.Context, userID int64) ([]Log, error) {
	return NewStore(s.db.Handle()).ListByStatuses(ctx, userID,
		StatusActive, StatusPaused, StatusCompleted, StatusAbandoned)
}

// HistoryDetail returns the full view of one bake: header, open step,
// executed steps in recipe order, and the current recipe tree.
func (s *Session) HistoryDetail(ctx context.Context, userID, bakeLogID int64) (*Detail, error) {
	store := NewStore(s.db.Handle())
	log, err := store.FindForUser(ctx, bakeLogID, userID)
	if err != nil {
		return nil, err
	}

	detail := Detail{Log: *log}
	if detail.History, err = store.ListSteps(ctx, bakeLogID); err != nil {
		return nil, err
	}
	open, err := store.FindOpenStep(ctx, bakeLogID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		s.enrich(ctx, open)
		detail.CurrentStep = open
	}

	recipe, err := recipes.NewStore(s.db).Get(ctx, log.RecipeID, userID)
	if err == nil {
		detail.Recipe = recipe
	} else if !errors.Is(err, services.ErrNotFound) {
		return nil, err
	}
	return &detail, nil
}

// AdminRows returns every bake across users for the CLI listing.
func (s *Session) AdminRows(ctx context.Context) ([]AdminRow, error) {
	return NewStore(s.db.Handle()).ListAll(ctx)
}

// enrich fills the display-only recipe fields of an open step. The recipe
// step may have been deleted since the bake started; the snapshot fields
// stand on their own in that case.
func (s *Session) enrich(ctx context.Context, step *StepView) {
	detail, err := recipes.NewReader(s.db.Handle()).StepByRecipeStepID(ctx, step.RecipeStepID)
	if err != nil {
		return
	}
	step.Notes = detail.Notes
	step.Description = detail.Description
	step.TargetTemperatureCelsius = detail.TargetTemperatureCelsius
	step.StretchFoldIntervalMinutes = detail.StretchFoldIntervalMinutes
	step.StretchFoldSetCount = detail.StretchFoldSetCount
	step.StageIngredients = detail.StageIngredients
}

func viewFromSnapshot(stepLogID int64, snap *recipes.StepSnapshot, startedAt time.Time) *StepView {
	return &StepView{
		BakeStepLogID:              stepLogID,
		RecipeStepID:               snap.RecipeStepID,
		StepName:                   snap.StepName,
		StepOrder:                  snap.StepOrder,
		PlannedDurationMinutes:     snap.PlannedDurationMinutes,
		StartedAt:                  startedAt,
		Notes:                      snap.Notes,
		Description:                snap.Description,
		TargetTemperatureCelsius:   snap.TargetTemperatureCelsius,
		StretchFoldIntervalMinutes: snap.StretchFoldIntervalMinutes,
		StretchFoldSetCount:        snap.StretchFoldSetCount,
		StageIngredients:           snap.StageIngredients,
	}
}
