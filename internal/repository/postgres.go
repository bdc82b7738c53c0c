package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"ecoquiz-duel/internal/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createQuestionsTable := `
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY,
		text TEXT NOT NULL,
		options TEXT[] NOT NULL CHECK (cardinality(options) = 4),
		correct_answer SMALLINT NOT NULL CHECK (correct_answer BETWEEN 0 AND 3),
		explanation TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	createIndexes := `
	CREATE INDEX IF NOT EXISTS idx_questions_active ON questions(active);
	`

	if _, err := db.ExecContext(ctx, createQuestionsTable); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, createIndexes); err != nil {
		return err
	}

	return nil
}

func (r *PostgresRepository) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	query := `
		SELECT id, text, options, correct_answer, explanation
		FROM questions
		WHERE active
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []models.Question
	for rows.Next() {
		var q models.Question
		err := rows.Scan(&q.ID, &q.Text, pq.Array(&q.Options), &q.CorrectAnswer, &q.Explanation)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}

	return qs, nil
}

// SeedQuestions inserts qs, leaving existing ids untouched, and reports how
// many rows were added.
func (r *PostgresRepository) SeedQuestions(ctx context.Context, qs []models.Question) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, text, options, correct_answer, explanation)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, q := range qs {
		res, err := stmt.ExecContext(ctx, q.ID, q.Text, pq.Array(q.Options), q.CorrectAnswer, q.Explanation)
		if err != nil {
			return 0, fmt.Errorf("insert question %d: %w", q.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	return inserted, tx.Commit()
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
