package storage

// migrations are applied in order by NewSQLiteStore. Each entry is one
// schema version; never edit an applied entry, append a new one.
var migrations = []struct {
	version int
	sql     string
}{
	{
		version: 1,
		sql: `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			token TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE objectives (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			target_outcome TEXT,
			end_date TIMESTAMP,
			daily_commitment_minutes INTEGER,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE pillars (
			id TEXT PRIMARY KEY,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			weight INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE metrics (
			id TEXT PRIMARY KEY,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			target REAL NOT NULL DEFAULT 0,
			target_direction TEXT NOT NULL DEFAULT '',
			current REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE metric_entries (
			id TEXT PRIMARY KEY,
			metric_id TEXT NOT NULL REFERENCES metrics(id) ON DELETE CASCADE,
			value REAL NOT NULL,
			note TEXT,
			recorded_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE rituals (
			id TEXT PRIMARY KEY,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			frequency TEXT NOT NULL DEFAULT '',
			days_of_week TEXT,
			times_per_period INTEGER,
			estimated_minutes INTEGER,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE ritual_completions (
			id TEXT PRIMARY KEY,
			ritual_id TEXT NOT NULL REFERENCES rituals(id) ON DELETE CASCADE,
			note TEXT,
			completed_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
			pillar_id TEXT,
			ritual_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			why_it_matters TEXT,
			scheduled_at TIMESTAMP NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 30,
			status TEXT NOT NULL DEFAULT 'pending',
			completed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE waitlist (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX idx_objectives_user ON objectives(user_id);
		CREATE INDEX idx_tasks_user_scheduled ON tasks(user_id, scheduled_at);
		CREATE INDEX idx_metric_entries_metric ON metric_entries(metric_id, recorded_at);
		CREATE INDEX idx_ritual_completions_ritual ON ritual_completions(ritual_id, completed_at);

		INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
