package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quiz-maker/internal/quiz"
)

const quizColumns = `id, title, description, category_id, is_published, questions_json, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) GetQuiz(ctx context.Context, id int64) (quiz.Quiz, error) {
	item, err := scanQuiz(s.db.QueryRowContext(
		ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrQuizNotFound
		}
		return quiz.Quiz{}, err
	}
	return item, nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+quizColumns+` FROM quizzes ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]quiz.Quiz, 0)
	for rows.Next() {
		item, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateQuiz inserts the quiz and returns it with its assigned ID.
func (s *Store) CreateQuiz(ctx context.Context, item quiz.Quiz) (quiz.Quiz, error) {
	questionsJSON, err := json.Marshal(nonNilQuestions(item.Questions))
	if err != nil {
		return quiz.Quiz{}, err
	}

	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return quiz.Quiz{}, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(
		ctx,
		`INSERT INTO quizzes (title, description, category_id, is_published, questions_json, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		item.Title,
		item.Description,
		nullableID(item.CategoryID),
		item.IsPublished(),
		string(questionsJSON),
		item.CreatedAt.UnixNano(),
		item.UpdatedAt.UnixNano(),
	).Scan(&id)
	if err != nil {
		return quiz.Quiz{}, err
	}

	if err := tx.Commit(); err != nil {
		return quiz.Quiz{}, err
	}

	item.ID = id
	return item, nil
}

// UpdateQuiz replaces every stored field of an existing quiz. The creation
// time is kept from the stored row.
func (s *Store) UpdateQuiz(ctx context.Context, item quiz.Quiz) (quiz.Quiz, error) {
	questionsJSON, err := json.Marshal(nonNilQuestions(item.Questions))
	if err != nil {
		return quiz.Quiz{}, err
	}
	item.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return quiz.Quiz{}, err
	}
	defer tx.Rollback()

	var createdAtUnix int64
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM quizzes WHERE id = $1`, item.ID).Scan(&createdAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrQuizNotFound
		}
		return quiz.Quiz{}, err
	}

	res, err := tx.ExecContext(
		ctx,
		`UPDATE quizzes
		 SET title = $1, description = $2, category_id = $3, is_published = $4, questions_json = $5, updated_at = $6
		 WHERE id = $7`,
		item.Title,
		item.Description,
		nullableID(item.CategoryID),
		item.IsPublished(),
		string(questionsJSON),
		item.UpdatedAt.UnixNano(),
		item.ID,
	)
	if err != nil {
		return quiz.Quiz{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return quiz.Quiz{}, err
	}
	if affected == 0 {
		return quiz.Quiz{}, quiz.ErrQuizNotFound
	}

	if err := tx.Commit(); err != nil {
		return quiz.Quiz{}, err
	}

	item.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	return item, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]quiz.Category, 0)
	for rows.Next() {
		var category quiz.Category
		if err := rows.Scan(&category.ID, &category.Label); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func scanQuiz(row rowScanner) (quiz.Quiz, error) {
	var (
		item          quiz.Quiz
		categoryID    sql.NullInt64
		isPublished   bool
		questionsJSON string
		createdAtUnix int64
		updatedAtUnix int64
	)
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&categoryID,
		&isPublished,
		&questionsJSON,
		&createdAtUnix,
		&updatedAtUnix,
	); err != nil {
		return quiz.Quiz{}, err
	}

	if err := json.Unmarshal([]byte(questionsJSON), &item.Questions); err != nil {
		return quiz.Quiz{}, err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		item.CategoryID = &id
	}
	item.Status = quiz.StatusFor(isPublished)
	item.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	item.UpdatedAt = time.Unix(0, updatedAtUnix).UTC()
	return item, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nonNilQuestions(questions []quiz.Question) []quiz.Question {
	if questions == nil {
		return []quiz.Question{}
	}
	return questions
}
