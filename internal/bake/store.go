package bake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crumb/internal/recipes"
	"crumb/internal/services"
	"crumb/internal/storage"
)

// Store holds the row-level operations on bake logs and step logs. It works
// against any Querier so Session can run it inside a transaction.
type Store struct {
	q storage.Querier
}

// NewStore creates a store bound to q.
func NewStore(q storage.Querier) *Store {
	return &Store{q: q}
}

const logColumns = `
	b.bake_log_id, b.user_id, b.recipe_id, r.recipe_name, b.status,
	b.start_timestamp, b.end_timestamp, b.notes`

// InsertLog creates a bake log in the active status.
func (s *Store) InsertLog(ctx context.Context, userID, recipeID int64, startedAt time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO bake_logs (user_id, recipe_id, status, start_timestamp)
		VALUES (?, ?, ?, ?)`,
		userID, recipeID, string(StatusActive), storage.FormatTime(startedAt))
	if err != nil {
		return 0, fmt.Errorf("insert bake log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read bake log id: %w", err)
	}
	return id, nil
}

// OpenStep creates a step log for the given recipe step, copying the name,
// order, and planned duration so the record survives recipe edits.
func (s *Store) OpenStep(ctx context.Context, bakeLogID int64, step *recipes.StepSnapshot, startedAt time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO bake_step_logs (bake_log_id, recipe_step_id, step_order, step_name,
		                            planned_duration_minutes, actual_start_timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		bakeLogID, step.RecipeStepID, step.StepOrder, step.StepName,
		storage.IntOrNil(step.PlannedDurationMinutes), storage.FormatTime(startedAt))
	if err != nil {
		return 0, fmt.Errorf("insert step log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read step log id: %w", err)
	}
	return id, nil
}

// CloseStep sets the end timestamp and user notes of a step log if it still
// belongs to the bake and is still open. The boolean result reports whether
// this call won the close; false means the step was already closed.
func (s *Store) CloseStep(ctx context.Context, bakeLogID, stepLogID int64, notes *string, endedAt time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE bake_step_logs
		SET actual_end_timestamp = ?, user_step_notes = ?
		WHERE bake_step_log_id = ? AND bake_log_id = ? AND actual_end_timestamp IS NULL`,
		storage.FormatTime(endedAt), storage.StringOrNil(notes), stepLogID, bakeLogID)
	if err != nil {
		return false, fmt.Errorf("close step log: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("close step log rows: %w", err)
	}
	return affected > 0, nil
}

// SetStatus updates the bake status. Terminal statuses receive an end
// timestamp; returning to active or paused clears it.
func (s *Store) SetStatus(ctx context.Context, bakeLogID int64, status Status, at time.Time) error {
	var endValue any
	if status.IsTerminal() {
		endValue = storage.FormatTime(at)
	}
	res, err := s.q.ExecContext(ctx, `
		UPDATE bake_logs SET status = ?, end_timestamp = ? WHERE bake_log_id = ?`,
		string(status), endValue, bakeLogID)
	if err != nil {
		return fmt.Errorf("update bake status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bake status rows: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "update bake status", "bake log not found", nil)
	}
	return nil
}

// FindForUser loads a bake log owned by the user. Other users' bakes resolve
// as not found.
func (s *Store) FindForUser(ctx context.Context, bakeLogID, userID int64) (*Log, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+logColumns+`
		FROM bake_logs b
		JOIN recipes r ON r.recipe_id = b.recipe_id
		WHERE b.bake_log_id = ? AND b.user_id = ?`, bakeLogID, userID)

	log, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "find bake", "bake log not found", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load bake log: %w", err)
	}
	return log, nil
}

// FindOpenStep returns the bake's open step log, or nil when every step is
// closed.
func (s *Store) FindOpenStep(ctx context.Context, bakeLogID int64) (*StepView, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT bake_step_log_id, recipe_step_id, step_order, step_name,
		       planned_duration_minutes, actual_start_timestamp, actual_end_timestamp, user_step_notes
		FROM bake_step_logs
		WHERE bake_log_id = ? AND actual_end_timestamp IS NULL
		ORDER BY bake_step_log_id DESC
		LIMIT 1`, bakeLogID)

	step, err := scanStepView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load open step: %w", err)
	}
	return step, nil
}

// ListSteps returns the bake's step logs in recipe order.
func (s *Store) ListSteps(ctx context.Context, bakeLogID int64) ([]StepView, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT bake_step_log_id, recipe_step_id, step_order, step_name,
		       planned_duration_minutes, actual_start_timestamp, actual_end_timestamp, user_step_notes
		FROM bake_step_logs
		WHERE bake_log_id = ?
		ORDER BY step_order ASC`, bakeLogID)
	if err != nil {
		return nil, fmt.Errorf("list step logs: %w", err)
	}
	defer rows.Close()

	var steps []StepView
	for rows.Next() {
		step, err := scanStepView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan step log: %w", err)
		}
		steps = append(steps, *step)
	}
	return steps, rows.Err()
}

// ListByStatuses returns the user's bakes in the given statuses, most recent
// first.
func (s *Store) ListByStatuses(ctx context.Context, userID int64, statuses ...Status) ([]Log, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses)+1)
	args = append(args, userID)
	for _, status := range statuses {
		args = append(args, string(status))
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT `+logColumns+`
		FROM bake_logs b
		JOIN recipes r ON r.recipe_id = b.recipe_id
		WHERE b.user_id = ? AND b.status IN (`+storage.MakePlaceholders(len(statuses))+`)
		ORDER BY b.start_timestamp DESC, b.bake_log_id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list bakes: %w", err)
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bake log: %w", err)
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

// ListAll returns every bake log across users, most recent first. Used by the
// admin CLI.
func (s *Store) ListAll(ctx context.Context) ([]AdminRow, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT b.bake_log_id, u.username, r.recipe_name, b.status,
		       b.start_timestamp, b.end_timestamp
		FROM bake_logs b
		JOIN users u ON u.user_id = b.user_id
		JOIN recipes r ON r.recipe_id = b.recipe_id
		ORDER BY b.start_timestamp DESC, b.bake_log_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all bakes: %w", err)
	}
	defer rows.Close()

	var out []AdminRow
	for rows.Next() {
		var (
			row     AdminRow
			started string
			ended   sql.NullString
		)
		if err := rows.Scan(&row.BakeLogID, &row.Username, &row.RecipeName, &row.Status, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan admin row: %w", err)
		}
		if ts, err := storage.ParseTime(started); err == nil {
			row.StartedAt = ts
		}
		row.EndedAt = storage.NullableTime(ended)
		out = append(out, row)
	}
	return out, rows.Err()
}

// AdminRow is one line of the cross-user bake listing.
type AdminRow struct {
	BakeLogID  int64
	Username   string
	RecipeName string
	Status     string
	StartedAt  time.Time
	EndedAt    *time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (*Log, error) {
	var (
		log     Log
		status  string
		started string
		ended   sql.NullString
		notes   sql.NullString
	)
	err := row.Scan(&log.ID, &log.UserID, &log.RecipeID, &log.RecipeName, &status, &started, &ended, &notes)
	if err != nil {
		return nil, err
	}
	log.Status = Status(status)
	if ts, err := storage.ParseTime(started); err == nil {
		log.StartedAt = ts
	}
	log.EndedAt = storage.NullableTime(ended)
	log.Notes = storage.NullableString(notes)
	return &log, nil
}

func scanStepView(row rowScanner) (*StepView, error) {
	var (
		step      StepView
		planned   sql.NullInt64
		started   string
		ended     sql.NullString
		userNotes sql.NullString
	)
	err := row.Scan(&step.BakeStepLogID, &step.RecipeStepID, &step.StepOrder, &step.StepName,
		&planned, &started, &ended, &userNotes)
	if err != nil {
		return nil, err
	}
	step.PlannedDurationMinutes = storage.NullableInt(planned)
	if ts, err := storage.ParseTime(started); err == nil {
		step.StartedAt = ts
	}
	step.EndedAt = storage.NullableTime(ended)
	step.UserNotes = storage.NullableString(userNotes)
	return &step, nil
}
