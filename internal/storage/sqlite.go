package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/yourname/northstar/internal"
)

// SQLiteStore is the embedded backend used for development and tests.
type SQLiteStore struct {
	db     *sqlx.DB
	logger internal.Logger
}

func NewSQLiteStore(dbPath string, logger internal.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// --- ObjectiveRepository ---

func (s *SQLiteStore) CreateObjective(ctx context.Context, obj *internal.Objective) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO objectives
		(id, user_id, name, category, description, target_outcome, end_date, daily_commitment_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		obj.ID, obj.UserID, obj.Name, obj.Category, obj.Description, obj.TargetOutcome,
		obj.EndDate, obj.DailyCommitmentMinutes, obj.CreatedAt, obj.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting objective: %w", err)
	}

	for _, pl := range obj.Pillars {
		_, err = tx.ExecContext(ctx, `INSERT INTO pillars (id, objective_id, name, description, weight, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			pl.ID, pl.ObjectiveID, pl.Name, pl.Description, pl.Weight, pl.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting pillar: %w", err)
		}
	}
	for _, m := range obj.Metrics {
		_, err = tx.ExecContext(ctx, `INSERT INTO metrics
			(id, objective_id, name, unit, type, target, target_direction, current, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.ObjectiveID, m.Name, m.Unit, m.Type, m.Target, m.TargetDirection,
			m.Current, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting metric: %w", err)
		}
	}
	for _, r := range obj.Rituals {
		days, err := marshalDays(r.DaysOfWeek)
		if err != nil {
			return fmt.Errorf("encoding days of week: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO rituals
			(id, objective_id, name, description, frequency, days_of_week, times_per_period, estimated_minutes, current_streak, longest_streak, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.ObjectiveID, r.Name, r.Description, r.Frequency, nullIfEmpty(days),
			r.TimesPerPeriod, r.EstimatedMinutes, r.CurrentStreak, r.LongestStreak,
			r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting ritual: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) VerifyObjectiveOwner(ctx context.Context, id, userID string) error {
	var found string
	err := s.db.QueryRowxContext(ctx, `SELECT id FROM objectives WHERE id = ? AND user_id = ?`, id, userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return internal.ErrNotFound
	}
	return err
}

func (s *SQLiteStore) ListObjectives(ctx context.Context, userID string) ([]internal.Objective, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT id, user_id, name, category, description, target_outcome,
		end_date, daily_commitment_minutes, created_at, updated_at
		FROM objectives WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying objectives: %w", err)
	}
	defer rows.Close()

	objectives := []internal.Objective{}
	for rows.Next() {
		var o internal.Objective
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.Category, &o.Description, &o.TargetOutcome,
			&o.EndDate, &o.DailyCommitmentMinutes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning objective: %w", err)
		}
		objectives = append(objectives, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range objectives {
		if err := s.loadObjectiveChildren(ctx, &objectives[i], false); err != nil {
			return nil, err
		}
	}
	return objectives, nil
}

func (s *SQLiteStore) GetObjective(ctx context.Context, id, userID string) (*internal.Objective, error) {
	o, err := s.getObjectiveRow(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.loadObjectiveChildren(ctx, o, true); err != nil {
		return nil, err
	}

	tasks := []internal.Task{}
	rows, err := s.db.QueryxContext(ctx, `SELECT id, user_id, objective_id, pillar_id, ritual_id, title,
		description, why_it_matters, scheduled_at, duration_minutes, status, completed_at, created_at, updated_at
		FROM tasks WHERE objective_id = ? ORDER BY scheduled_at DESC LIMIT ?`, id, objectiveTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("querying objective tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTaskSqlx(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	o.Tasks = tasks
	return o, nil
}

func (s *SQLiteStore) getObjectiveRow(ctx context.Context, id, userID string) (*internal.Objective, error) {
	var o internal.Objective
	err := s.db.QueryRowxContext(ctx, `SELECT id, user_id, name, category, description, target_outcome,
		end_date, daily_commitment_minutes, created_at, updated_at
		FROM objectives WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&o.ID, &o.UserID, &o.Name, &o.Category, &o.Description, &o.TargetOutcome,
			&o.EndDate, &o.DailyCommitmentMinutes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning objective: %w", err)
	}
	return &o, nil
}

func (s *SQLiteStore) loadObjectiveChildren(ctx context.Context, o *internal.Objective, withHistory bool) error {
	pillars := []internal.Pillar{}
	rows, err := s.db.QueryxContext(ctx, `SELECT id, objective_id, name, description, weight, created_at
		FROM pillars WHERE objective_id = ? ORDER BY created_at`, o.ID)
	if err != nil {
		return fmt.Errorf("querying pillars: %w", err)
	}
	for rows.Next() {
		var pl internal.Pillar
		if err := rows.Scan(&pl.ID, &pl.ObjectiveID, &pl.Name, &pl.Description, &pl.Weight, &pl.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning pillar: %w", err)
		}
		pillars = append(pillars, pl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	o.Pillars = pillars

	metrics := []internal.Metric{}
	rows, err = s.db.QueryxContext(ctx, `SELECT id, objective_id, name, unit, type, target, target_direction,
		current, created_at, updated_at
		FROM metrics WHERE objective_id = ? ORDER BY created_at`, o.ID)
	if err != nil {
		return fmt.Errorf("querying metrics: %w", err)
	}
	for rows.Next() {
		var m internal.Metric
		if err := rows.Scan(&m.ID, &m.ObjectiveID, &m.Name, &m.Unit, &m.Type, &m.Target,
			&m.TargetDirection, &m.Current, &m.CreatedAt, &m.UpdatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rituals := []internal.Ritual{}
	rows, err = s.db.QueryxContext(ctx, `SELECT id, objective_id, name, description, frequency, days_of_week,
		times_per_period, estimated_minutes, current_streak, longest_streak, created_at, updated_at
		FROM rituals WHERE objective_id = ? ORDER BY created_at`, o.ID)
	if err != nil {
		return fmt.Errorf("querying rituals: %w", err)
	}
	for rows.Next() {
		r, err := scanRitualSqlx(rows)
		if err != nil {
			rows.Close()
			return err
		}
		rituals = append(rituals, *r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if withHistory {
		for i := range metrics {
			entries, err := s.listMetricEntriesLimited(ctx, metrics[i].ID, metricEntryLimit)
			if err != nil {
				return err
			}
			metrics[i].Entries = entries
		}
		for i := range rituals {
			completions, err := s.listRitualCompletionsLimited(ctx, rituals[i].ID, ritualCompletionLimit)
			if err != nil {
				return err
			}
			rituals[i].Completions = completions
		}
	}

	o.Metrics = metrics
	o.Rituals = rituals
	return nil
}

func scanRitualSqlx(rows *sqlx.Rows) (*internal.Ritual, error) {
	var r internal.Ritual
	var days *string
	err := rows.Scan(&r.ID, &r.ObjectiveID, &r.Name, &r.Description, &r.Frequency, &days,
		&r.TimesPerPeriod, &r.EstimatedMinutes, &r.CurrentStreak, &r.LongestStreak,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning ritual: %w", err)
	}
	r.DaysOfWeek, err = unmarshalDays(days)
	if err != nil {
		return nil, fmt.Errorf("decoding days of week: %w", err)
	}
	return &r, nil
}

func scanTaskSqlx(rows *sqlx.Rows) (*internal.Task, error) {
	var t internal.Task
	err := rows.Scan(&t.ID, &t.UserID, &t.ObjectiveID, &t.PillarID, &t.RitualID, &t.Title,
		&t.Description, &t.WhyItMatters, &t.ScheduledAt, &t.DurationMinutes, &t.Status,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStore) UpdateObjective(ctx context.Context, id, userID string, patch internal.ObjectivePatch) (*internal.Objective, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.TargetOutcome != nil {
		add("target_outcome", *patch.TargetOutcome)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.DailyCommitmentMinutes != nil {
		add("daily_commitment_minutes", *patch.DailyCommitmentMinutes)
	}

	args = append(args, id, userID)
	query := "UPDATE objectives SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating objective %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, internal.ErrNotFound
	}
	return s.getObjectiveRow(ctx, id, userID)
}

func (s *SQLiteStore) DeleteObjective(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM objectives WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting objective %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return internal.ErrNotFound
	}
	return nil
}

// --- MetricRepository ---

func (s *SQLiteStore) GetMetric(ctx context.Context, id, userID string) (*internal.Metric, error) {
	var m internal.Metric
	err := s.db.QueryRowxContext(ctx, `SELECT m.id, m.objective_id, m.name, m.unit, m.type, m.target,
		m.target_direction, m.current, m.created_at, m.updated_at
		FROM metrics m JOIN objectives o ON m.objective_id = o.id
		WHERE m.id = ? AND o.user_id = ?`, id, userID).
		Scan(&m.ID, &m.ObjectiveID, &m.Name, &m.Unit, &m.Type, &m.Target,
			&m.TargetDirection, &m.Current, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning metric: %w", err)
	}
	return &m, nil
}

func (s *SQLiteStore) ListMetricEntries(ctx context.Context, metricID string) ([]internal.MetricEntry, error) {
	return s.listMetricEntriesLimited(ctx, metricID, 0)
}

func (s *SQLiteStore) listMetricEntriesLimited(ctx context.Context, metricID string, limit int) ([]internal.MetricEntry, error) {
	query := `SELECT id, metric_id, value, note, recorded_at, created_at
		FROM metric_entries WHERE metric_id = ? ORDER BY recorded_at DESC`
	args := []interface{}{metricID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying metric entries: %w", err)
	}
	defer rows.Close()

	entries := []internal.MetricEntry{}
	for rows.Next() {
		var e internal.MetricEntry
		if err := rows.Scan(&e.ID, &e.MetricID, &e.Value, &e.Note, &e.RecordedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning metric entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) CreateMetricEntry(ctx context.Context, entry *internal.MetricEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO metric_entries (id, metric_id, value, note, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.MetricID, entry.Value, entry.Note, entry.RecordedAt, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting metric entry: %w", err)
	}
	_, err = tx.ExecContext(ctx, `UPDATE metrics SET current = ?, updated_at = ? WHERE id = ?`,
		entry.Value, time.Now(), entry.MetricID)
	if err != nil {
		return fmt.Errorf("updating metric current value: %w", err)
	}
	return tx.Commit()
}

// --- RitualRepository ---

func (s *SQLiteStore) GetRitual(ctx context.Context, id, userID string) (*internal.Ritual, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT r.id, r.objective_id, r.name, r.description, r.frequency,
		r.days_of_week, r.times_per_period, r.estimated_minutes, r.current_streak, r.longest_streak,
		r.created_at, r.updated_at
		FROM rituals r JOIN objectives o ON r.objective_id = o.id
		WHERE r.id = ? AND o.user_id = ?`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("querying ritual: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, internal.ErrNotFound
	}
	return scanRitualSqlx(rows)
}

func (s *SQLiteStore) ListRitualCompletions(ctx context.Context, ritualID string) ([]internal.RitualCompletion, error) {
	return s.listRitualCompletionsLimited(ctx, ritualID, 0)
}

func (s *SQLiteStore) listRitualCompletionsLimited(ctx context.Context, ritualID string, limit int) ([]internal.RitualCompletion, error) {
	query := `SELECT id, ritual_id, note, completed_at, created_at
		FROM ritual_completions WHERE ritual_id = ? ORDER BY completed_at DESC`
	args := []interface{}{ritualID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ritual completions: %w", err)
	}
	defer rows.Close()

	completions := []internal.RitualCompletion{}
	for rows.Next() {
		var c internal.RitualCompletion
		if err := rows.Scan(&c.ID, &c.RitualID, &c.Note, &c.CompletedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning ritual completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *SQLiteStore) CreateRitualCompletion(ctx context.Context, completion *internal.RitualCompletion) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO ritual_completions (id, ritual_id, note, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		completion.ID, completion.RitualID, completion.Note, completion.CompletedAt, completion.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting ritual completion: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateRitualStreak(ctx context.Context, ritualID string, current, longest int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE rituals SET current_streak = ?, longest_streak = ?, updated_at = ?
		WHERE id = ?`, current, longest, time.Now(), ritualID)
	if err != nil {
		return fmt.Errorf("updating ritual streak: %w", err)
	}
	return nil
}

// --- TaskRepository ---

func (s *SQLiteStore) ListTasks(ctx context.Context, userID string, filter internal.TaskFilter) ([]internal.Task, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}
	if filter.Day != nil {
		y, m, d := filter.Day.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, filter.Day.Location())
		end := start.AddDate(0, 0, 1)
		conditions = append(conditions, "scheduled_at >= ?", "scheduled_at < ?")
		args = append(args, start, end)
	}
	if filter.ObjectiveID != nil {
		conditions = append(conditions, "objective_id = ?")
		args = append(args, *filter.ObjectiveID)
	}

	query := `SELECT id, user_id, objective_id, pillar_id, ritual_id, title, description, why_it_matters,
		scheduled_at, duration_minutes, status, completed_at, created_at, updated_at
		FROM tasks WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY scheduled_at DESC`
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []internal.Task{}
	for rows.Next() {
		t, err := scanTaskSqlx(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task *internal.Task) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks
		(id, user_id, objective_id, pillar_id, ritual_id, title, description, why_it_matters,
		 scheduled_at, duration_minutes, status, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.ObjectiveID, task.PillarID, task.RitualID, task.Title,
		task.Description, task.WhyItMatters, task.ScheduledAt, task.DurationMinutes,
		task.Status, task.CompletedAt, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id, userID string) (*internal.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT id, user_id, objective_id, pillar_id, ritual_id, title,
		description, why_it_matters, scheduled_at, duration_minutes, status, completed_at, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, internal.ErrNotFound
	}
	return scanTaskSqlx(rows)
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, id, userID string, patch internal.TaskPatch) (*internal.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.WhyItMatters != nil {
		add("why_it_matters", *patch.WhyItMatters)
	}
	if patch.ScheduledAt != nil {
		add("scheduled_at", *patch.ScheduledAt)
	}
	if patch.DurationMinutes != nil {
		add("duration_minutes", *patch.DurationMinutes)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PillarID != nil {
		add("pillar_id", *patch.PillarID)
	}
	if patch.RitualID != nil {
		add("ritual_id", *patch.RitualID)
	}
	if patch.CompletedAt != nil {
		add("completed_at", *patch.CompletedAt)
	}

	args = append(args, id, userID)
	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, internal.ErrNotFound
	}
	return s.GetTask(ctx, id, userID)
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return internal.ErrNotFound
	}
	return nil
}

// --- WaitlistRepository ---

func (s *SQLiteStore) AddToWaitlist(ctx context.Context, entry *internal.WaitlistEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO waitlist (id, email, created_at) VALUES (?, ?, ?)`,
		entry.ID, entry.Email, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting waitlist entry: %w", err)
	}
	return nil
}

// --- UserRepository ---

func (s *SQLiteStore) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	var u internal.User
	err := s.db.QueryRowxContext(ctx, "SELECT id, token, name, email FROM users WHERE token = ?", token).
		Scan(&u.ID, &u.Token, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// CreateUser seeds a user row. Used by dev bootstrap and tests; the API
// itself never creates users.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO users (id, token, name, email) VALUES (?, ?, ?, ?)`,
		user.ID, user.Token, user.Name, user.Email)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// --- Compile-time assertions ---
var _ Store = (*SQLiteStore)(nil)
