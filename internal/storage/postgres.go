package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/northstar/internal"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	s := &PostgresStore{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return s, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			token TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS objectives (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			target_outcome TEXT,
			end_date TIMESTAMPTZ,
			daily_commitment_minutes INT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pillars (
			id TEXT PRIMARY KEY,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			weight INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS metrics (
			id TEXT PRIMARY KEY,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			target DOUBLE PRECISION NOT NULL DEFAULT 0,
			target_direction TEXT NOT NULL DEFAULT '',
			current DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS metric_entries (
			id TEXT PRIMARY KEY,
			metric_id TEXT NOT NULL REFERENCES metrics(id) ON DELETE CASCADE,
			value DOUBLE PRECISION NOT NULL,
			note TEXT,
			recorded_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rituals (
			id TEXT PRIMARY KEY,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			frequency TEXT NOT NULL DEFAULT '',
			days_of_week TEXT,
			times_per_period INT,
			estimated_minutes INT,
			current_streak INT NOT NULL DEFAULT 0,
			longest_streak INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ritual_completions (
			id TEXT PRIMARY KEY,
			ritual_id TEXT NOT NULL REFERENCES rituals(id) ON DELETE CASCADE,
			note TEXT,
			completed_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			pillar_id TEXT,
			ritual_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			why_it_matters TEXT,
			scheduled_at TIMESTAMPTZ NOT NULL,
			duration_minutes INT NOT NULL DEFAULT 30,
			status TEXT NOT NULL DEFAULT 'pending',
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS waitlist (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- ObjectiveRepository ---

// CreateObjective inserts the objective and all nested pillars, metrics
// and rituals in one transaction: either the whole tree lands or none
// of it does.
func (p *PostgresStore) CreateObjective(ctx context.Context, obj *internal.Objective) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.Errorf("failed to begin transaction: %v", err)
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO objectives
		(id, user_id, name, category, description, target_outcome, end_date, daily_commitment_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		obj.ID, obj.UserID, obj.Name, obj.Category, obj.Description, obj.TargetOutcome,
		obj.EndDate, obj.DailyCommitmentMinutes, obj.CreatedAt, obj.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert objective: %v", err)
		return err
	}

	for _, pl := range obj.Pillars {
		_, err = tx.Exec(ctx, `INSERT INTO pillars (id, objective_id, name, description, weight, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			pl.ID, pl.ObjectiveID, pl.Name, pl.Description, pl.Weight, pl.CreatedAt)
		if err != nil {
			p.logger.Errorf("failed to insert pillar: %v", err)
			return err
		}
	}
	for _, m := range obj.Metrics {
		_, err = tx.Exec(ctx, `INSERT INTO metrics
			(id, objective_id, name, unit, type, target, target_direction, current, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			m.ID, m.ObjectiveID, m.Name, m.Unit, m.Type, m.Target, m.TargetDirection,
			m.Current, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			p.logger.Errorf("failed to insert metric: %v", err)
			return err
		}
	}
	for _, r := range obj.Rituals {
		days, err := marshalDays(r.DaysOfWeek)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO rituals
			(id, objective_id, name, description, frequency, days_of_week, times_per_period, estimated_minutes, current_streak, longest_streak, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			r.ID, r.ObjectiveID, r.Name, r.Description, r.Frequency, nullIfEmpty(days),
			r.TimesPerPeriod, r.EstimatedMinutes, r.CurrentStreak, r.LongestStreak,
			r.CreatedAt, r.UpdatedAt)
		if err != nil {
			p.logger.Errorf("failed to insert ritual: %v", err)
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresStore) VerifyObjectiveOwner(ctx context.Context, id, userID string) error {
	var found string
	err := p.pool.QueryRow(ctx, `SELECT id FROM objectives WHERE id = $1 AND user_id = $2`, id, userID).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return internal.ErrNotFound
	}
	return err
}

func (p *PostgresStore) ListObjectives(ctx context.Context, userID string) ([]internal.Objective, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, name, category, description, target_outcome,
		end_date, daily_commitment_minutes, created_at, updated_at
		FROM objectives WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query objectives: %v", err)
		return nil, err
	}
	defer rows.Close()

	objectives := []internal.Objective{}
	for rows.Next() {
		var o internal.Objective
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.Category, &o.Description, &o.TargetOutcome,
			&o.EndDate, &o.DailyCommitmentMinutes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range objectives {
		if err := p.loadObjectiveChildren(ctx, &objectives[i], false); err != nil {
			return nil, err
		}
	}
	return objectives, nil
}

func (p *PostgresStore) GetObjective(ctx context.Context, id, userID string) (*internal.Objective, error) {
	o, err := p.getObjectiveRow(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := p.loadObjectiveChildren(ctx, o, true); err != nil {
		return nil, err
	}

	tasks, err := p.listObjectiveTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Tasks = tasks
	return o, nil
}

func (p *PostgresStore) getObjectiveRow(ctx context.Context, id, userID string) (*internal.Objective, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, name, category, description, target_outcome,
		end_date, daily_commitment_minutes, created_at, updated_at
		FROM objectives WHERE id = $1 AND user_id = $2`, id, userID)
	var o internal.Objective
	err := row.Scan(&o.ID, &o.UserID, &o.Name, &o.Category, &o.Description, &o.TargetOutcome,
		&o.EndDate, &o.DailyCommitmentMinutes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to scan objective: %v", err)
		return nil, err
	}
	return &o, nil
}

// loadObjectiveChildren fills pillars, metrics and rituals. withHistory
// additionally loads the latest metric entries and ritual completions.
func (p *PostgresStore) loadObjectiveChildren(ctx context.Context, o *internal.Objective, withHistory bool) error {
	pillars, err := p.listPillars(ctx, o.ID)
	if err != nil {
		return err
	}
	o.Pillars = pillars

	metrics, err := p.listMetrics(ctx, o.ID)
	if err != nil {
		return err
	}
	rituals, err := p.listRituals(ctx, o.ID)
	if err != nil {
		return err
	}

	if withHistory {
		for i := range metrics {
			entries, err := p.listMetricEntriesLimited(ctx, metrics[i].ID, metricEntryLimit)
			if err != nil {
				return err
			}
			metrics[i].Entries = entries
		}
		for i := range rituals {
			completions, err := p.listRitualCompletionsLimited(ctx, rituals[i].ID, ritualCompletionLimit)
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

func (p *PostgresStore) listPillars(ctx context.Context, objectiveID string) ([]internal.Pillar, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, objective_id, name, description, weight, created_at
		FROM pillars WHERE objective_id = $1 ORDER BY created_at`, objectiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pillars := []internal.Pillar{}
	for rows.Next() {
		var pl internal.Pillar
		if err := rows.Scan(&pl.ID, &pl.ObjectiveID, &pl.Name, &pl.Description, &pl.Weight, &pl.CreatedAt); err != nil {
			return nil, err
		}
		pillars = append(pillars, pl)
	}
	return pillars, rows.Err()
}

func (p *PostgresStore) listMetrics(ctx context.Context, objectiveID string) ([]internal.Metric, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, objective_id, name, unit, type, target, target_direction,
		current, created_at, updated_at
		FROM metrics WHERE objective_id = $1 ORDER BY created_at`, objectiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := []internal.Metric{}
	for rows.Next() {
		var m internal.Metric
		if err := rows.Scan(&m.ID, &m.ObjectiveID, &m.Name, &m.Unit, &m.Type, &m.Target,
			&m.TargetDirection, &m.Current, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

func (p *PostgresStore) listRituals(ctx context.Context, objectiveID string) ([]internal.Ritual, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, objective_id, name, description, frequency, days_of_week,
		times_per_period, estimated_minutes, current_streak, longest_streak, created_at, updated_at
		FROM rituals WHERE objective_id = $1 ORDER BY created_at`, objectiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rituals := []internal.Ritual{}
	for rows.Next() {
		r, err := scanRitualPgx(rows)
		if err != nil {
			return nil, err
		}
		rituals = append(rituals, *r)
	}
	return rituals, rows.Err()
}

func scanRitualPgx(row pgx.Row) (*internal.Ritual, error) {
	var r internal.Ritual
	var days *string
	err := row.Scan(&r.ID, &r.ObjectiveID, &r.Name, &r.Description, &r.Frequency, &days,
		&r.TimesPerPeriod, &r.EstimatedMinutes, &r.CurrentStreak, &r.LongestStreak,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.DaysOfWeek, err = unmarshalDays(days)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PostgresStore) listObjectiveTasks(ctx context.Context, objectiveID string) ([]internal.Task, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, objective_id, pillar_id, ritual_id, title,
		description, why_it_matters, scheduled_at, duration_minutes, status, completed_at, created_at, updated_at
		FROM tasks WHERE objective_id = $1 ORDER BY scheduled_at DESC LIMIT $2`, objectiveID, objectiveTaskLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasksPgx(rows)
}

func (p *PostgresStore) UpdateObjective(ctx context.Context, id, userID string, patch internal.ObjectivePatch) (*internal.Objective, error) {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now()}
	n := 2
	add := func(col string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, v)
		n++
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
	query := fmt.Sprintf("UPDATE objectives SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), n, n+1)
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to update objective: %v", err)
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, internal.ErrNotFound
	}
	return p.getObjectiveRow(ctx, id, userID)
}

func (p *PostgresStore) DeleteObjective(ctx context.Context, id, userID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM objectives WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		p.logger.Errorf("failed to delete objective: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

// --- MetricRepository ---

// GetMetric resolves ownership through the parent objective.
func (p *PostgresStore) GetMetric(ctx context.Context, id, userID string) (*internal.Metric, error) {
	row := p.pool.QueryRow(ctx, `SELECT m.id, m.objective_id, m.name, m.unit, m.type, m.target,
		m.target_direction, m.current, m.created_at, m.updated_at
		FROM metrics m JOIN objectives o ON m.objective_id = o.id
		WHERE m.id = $1 AND o.user_id = $2`, id, userID)
	var m internal.Metric
	err := row.Scan(&m.ID, &m.ObjectiveID, &m.Name, &m.Unit, &m.Type, &m.Target,
		&m.TargetDirection, &m.Current, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to scan metric: %v", err)
		return nil, err
	}
	return &m, nil
}

func (p *PostgresStore) ListMetricEntries(ctx context.Context, metricID string) ([]internal.MetricEntry, error) {
	return p.listMetricEntriesLimited(ctx, metricID, 0)
}

func (p *PostgresStore) listMetricEntriesLimited(ctx context.Context, metricID string, limit int) ([]internal.MetricEntry, error) {
	query := `SELECT id, metric_id, value, note, recorded_at, created_at
		FROM metric_entries WHERE metric_id = $1 ORDER BY recorded_at DESC`
	args := []interface{}{metricID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query metric entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []internal.MetricEntry{}
	for rows.Next() {
		var e internal.MetricEntry
		if err := rows.Scan(&e.ID, &e.MetricID, &e.Value, &e.Note, &e.RecordedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateMetricEntry appends the entry and refreshes the parent metric's
// current value in the same transaction. Current tracks insertion
// order, not recorded_at order.
func (p *PostgresStore) CreateMetricEntry(ctx context.Context, entry *internal.MetricEntry) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO metric_entries (id, metric_id, value, note, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.MetricID, entry.Value, entry.Note, entry.RecordedAt, entry.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert metric entry: %v", err)
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE metrics SET current = $1, updated_at = $2 WHERE id = $3`,
		entry.Value, time.Now(), entry.MetricID)
	if err != nil {
		p.logger.Errorf("failed to update metric current value: %v", err)
		return err
	}
	return tx.Commit(ctx)
}

// --- RitualRepository ---

func (p *PostgresStore) GetRitual(ctx context.Context, id, userID string) (*internal.Ritual, error) {
	row := p.pool.QueryRow(ctx, `SELECT r.id, r.objective_id, r.name, r.description, r.frequency,
		r.days_of_week, r.times_per_period, r.estimated_minutes, r.current_streak, r.longest_streak,
		r.created_at, r.updated_at
		FROM rituals r JOIN objectives o ON r.objective_id = o.id
		WHERE r.id = $1 AND o.user_id = $2`, id, userID)
	r, err := scanRitualPgx(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to scan ritual: %v", err)
		return nil, err
	}
	return r, nil
}

func (p *PostgresStore) ListRitualCompletions(ctx context.Context, ritualID string) ([]internal.RitualCompletion, error) {
	return p.listRitualCompletionsLimited(ctx, ritualID, 0)
}

func (p *PostgresStore) listRitualCompletionsLimited(ctx context.Context, ritualID string, limit int) ([]internal.RitualCompletion, error) {
	query := `SELECT id, ritual_id, note, completed_at, created_at
		FROM ritual_completions WHERE ritual_id = $1 ORDER BY completed_at DESC`
	args := []interface{}{ritualID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query ritual completions: %v", err)
		return nil, err
	}
	defer rows.Close()

	completions := []internal.RitualCompletion{}
	for rows.Next() {
		var c internal.RitualCompletion
		if err := rows.Scan(&c.ID, &c.RitualID, &c.Note, &c.CompletedAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (p *PostgresStore) CreateRitualCompletion(ctx context.Context, completion *internal.RitualCompletion) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO ritual_completions (id, ritual_id, note, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		completion.ID, completion.RitualID, completion.Note, completion.CompletedAt, completion.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert ritual completion: %v", err)
	}
	return err
}

func (p *PostgresStore) UpdateRitualStreak(ctx context.Context, ritualID string, current, longest int) error {
	_, err := p.pool.Exec(ctx, `UPDATE rituals SET current_streak = $1, longest_streak = $2, updated_at = $3
		WHERE id = $4`, current, longest, time.Now(), ritualID)
	if err != nil {
		p.logger.Errorf("failed to update ritual streak: %v", err)
	}
	return err
}

// --- TaskRepository ---

func (p *PostgresStore) ListTasks(ctx context.Context, userID string, filter internal.TaskFilter) ([]internal.Task, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	n := 2
	if filter.Day != nil {
		y, m, d := filter.Day.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, filter.Day.Location())
		end := start.AddDate(0, 0, 1)
		conditions = append(conditions, fmt.Sprintf("scheduled_at >= $%d", n), fmt.Sprintf("scheduled_at < $%d", n+1))
		args = append(args, start, end)
		n += 2
	}
	if filter.ObjectiveID != nil {
		conditions = append(conditions, fmt.Sprintf("objective_id = $%d", n))
		args = append(args, *filter.ObjectiveID)
		n++
	}

	query := `SELECT id, user_id, objective_id, pillar_id, ritual_id, title, description, why_it_matters,
		scheduled_at, duration_minutes, status, completed_at, created_at, updated_at
		FROM tasks WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY scheduled_at DESC`
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query tasks: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectTasksPgx(rows)
}

func collectTasksPgx(rows pgx.Rows) ([]internal.Task, error) {
	tasks := []internal.Task{}
	for rows.Next() {
		var t internal.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.ObjectiveID, &t.PillarID, &t.RitualID, &t.Title,
			&t.Description, &t.WhyItMatters, &t.ScheduledAt, &t.DurationMinutes, &t.Status,
			&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (p *PostgresStore) CreateTask(ctx context.Context, task *internal.Task) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO tasks
		(id, user_id, objective_id, pillar_id, ritual_id, title, description, why_it_matters,
		 scheduled_at, duration_minutes, status, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		task.ID, task.UserID, task.ObjectiveID, task.PillarID, task.RitualID, task.Title,
		task.Description, task.WhyItMatters, task.ScheduledAt, task.DurationMinutes,
		task.Status, task.CompletedAt, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert task: %v", err)
	}
	return err
}

func (p *PostgresStore) GetTask(ctx context.Context, id, userID string) (*internal.Task, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, objective_id, pillar_id, ritual_id, title,
		description, why_it_matters, scheduled_at, duration_minutes, status, completed_at, created_at, updated_at
		FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	var t internal.Task
	err := row.Scan(&t.ID, &t.UserID, &t.ObjectiveID, &t.PillarID, &t.RitualID, &t.Title,
		&t.Description, &t.WhyItMatters, &t.ScheduledAt, &t.DurationMinutes, &t.Status,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to scan task: %v", err)
		return nil, err
	}
	return &t, nil
}

func (p *PostgresStore) UpdateTask(ctx context.Context, id, userID string, patch internal.TaskPatch) (*internal.Task, error) {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now()}
	n := 2
	add := func(col string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, v)
		n++
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
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), n, n+1)
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to update task: %v", err)
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, internal.ErrNotFound
	}
	return p.GetTask(ctx, id, userID)
}

func (p *PostgresStore) DeleteTask(ctx context.Context, id, userID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		p.logger.Errorf("failed to delete task: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

// --- WaitlistRepository ---

func (p *PostgresStore) AddToWaitlist(ctx context.Context, entry *internal.WaitlistEntry) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO waitlist (id, email, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`,
		entry.ID, entry.Email, entry.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert waitlist entry: %v", err)
	}
	return err
}

// --- UserRepository ---

func (p *PostgresStore) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, name, email FROM users WHERE token = $1`, token)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Name, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		p.logger.Errorf("failed to scan user: %v", err)
		return nil, err
	}
	return &u, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStore)(nil)
