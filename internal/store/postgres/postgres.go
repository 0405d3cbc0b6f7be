// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/voiceover/backend/internal/models"
	"github.com/voiceover/backend/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// pgForeignKeyViolation is the PostgreSQL error code for FK constraint failures.
const pgForeignKeyViolation = "23503"

// Store implements store.Store against PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pgx pool, verifies the connection and runs embedded
// migrations in lexical order.
func New(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("PostgreSQL connection pool established")
	return &Store{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		sql, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err = pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}

// ListQuestions returns all questions ordered by id.
func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	const q = `SELECT id, text, answered FROM questions ORDER BY id ASC`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	list := []models.Question{}
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.Text, &question.Answered); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		list = append(list, question)
	}
	return list, rows.Err()
}

// CreateQuestion inserts a new unanswered question.
func (s *Store) CreateQuestion(ctx context.Context, text string) (*models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("question text: %w", store.ErrInvalidInput)
	}
	const q = `INSERT INTO questions (text, answered) VALUES ($1, FALSE) RETURNING id`
	question := &models.Question{Text: text}
	if err := s.pool.QueryRow(ctx, q, text).Scan(&question.ID); err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return question, nil
}

// CreateResponse inserts a response and flips the question's answered flag in
// one transaction.
func (s *Store) CreateResponse(ctx context.Context, questionID int64, audioURL string) (*models.Response, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	resp := &models.Response{QuestionID: questionID, AudioURL: audioURL}
	const insert = `INSERT INTO responses (question_id, audio_url) VALUES ($1, $2) RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert, questionID, audioURL).Scan(&resp.ID, &resp.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert response: %w", mapPgError(err))
	}
	const update = `UPDATE questions SET answered = TRUE WHERE id = $1`
	if _, err := tx.Exec(ctx, update, questionID); err != nil {
		return nil, fmt.Errorf("mark answered: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return resp, nil
}

// ListResponses returns the responses for a question ordered by creation time.
func (s *Store) ListResponses(ctx context.Context, questionID int64) ([]models.ResponseEntry, error) {
	const q = `SELECT audio_url, created_at FROM responses WHERE question_id = $1 ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, q, questionID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()
	list := []models.ResponseEntry{}
	for rows.Next() {
		var entry models.ResponseEntry
		if err := rows.Scan(&entry.AudioURL, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return store.ErrQuestionNotFound
	}
	return err
}
