package sqlstore

import (
	"context"

	"quiz-maker/internal/quiz"
)

// DefaultCategories is the reference data seeded into an empty database.
var DefaultCategories = []quiz.Category{
	{ID: 1, Label: "General"},
	{ID: 2, Label: "Science"},
	{ID: 3, Label: "History"},
	{ID: 4, Label: "Geography"},
	{ID: 5, Label: "Entertainment"},
}

var sqliteSchema = []string{
	`PRAGMA busy_timeout = 5000;`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		label TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category_id INTEGER,
		is_published INTEGER NOT NULL DEFAULT 0,
		questions_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at DESC);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		label TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category_id BIGINT,
		is_published BOOLEAN NOT NULL DEFAULT FALSE,
		questions_json TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at DESC);`,
}

func (s *Store) initSchema(ctx context.Context) error {
	// Questions live in a JSON column: a quiz and its questions are always
	// read and written as one row.
	statements := sqliteSchema
	if s.driver == DriverPostgres {
		statements = postgresSchema
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for _, category := range DefaultCategories {
		if _, err := s.db.ExecContext(
			ctx,
			`INSERT INTO categories (id, label) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			category.ID,
			category.Label,
		); err != nil {
			return err
		}
	}
	return nil
}
