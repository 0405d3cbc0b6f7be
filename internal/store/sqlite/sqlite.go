// Package sqlite implements store.Store on a local SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/voiceover/backend/internal/models"
	"github.com/voiceover/backend/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements store.Store against SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens the database file, applies the required pragmas and runs embedded
// migrations in lexical order. Foreign key enforcement is on so that a
// response insert for a missing question fails at the constraint.
func New(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("SQLite database opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func migrate(db *sql.DB) error {
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
		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}

// ListQuestions returns all questions ordered by id.
func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	const q = `SELECT id, text, answered FROM questions ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	list := []models.Question{}
	for rows.Next() {
		var question models.Question
		var answered int64
		if err := rows.Scan(&question.ID, &question.Text, &answered); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		question.Answered = answered != 0
		list = append(list, question)
	}
	return list, rows.Err()
}

// CreateQuestion inserts a new unanswered question.
func (s *Store) CreateQuestion(ctx context.Context, text string) (*models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("question text: %w", store.ErrInvalidInput)
	}
	const q = `INSERT INTO questions (text, answered) VALUES (?, 0)`
	res, err := s.db.ExecContext(ctx, q, text)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("question id: %w", err)
	}
	return &models.Question{ID: id, Text: text}, nil
}

// CreateResponse inserts a response and flips the question's answered flag in
// one transaction.
func (s *Store) CreateResponse(ctx context.Context, questionID int64, audioURL string) (*models.Response, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const insert = `INSERT INTO responses (question_id, audio_url) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, insert, questionID, audioURL)
	if err != nil {
		return nil, fmt.Errorf("insert response: %w", mapSQLiteError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("response id: %w", err)
	}
	resp := &models.Response{ID: id, QuestionID: questionID, AudioURL: audioURL}
	const readBack = `SELECT created_at FROM responses WHERE id = ?`
	if err := tx.QueryRowContext(ctx, readBack, id).Scan(&resp.CreatedAt); err != nil {
		return nil, fmt.Errorf("read response timestamp: %w", err)
	}
	const update = `UPDATE questions SET answered = 1 WHERE id = ?`
	if _, err := tx.ExecContext(ctx, update, questionID); err != nil {
		return nil, fmt.Errorf("mark answered: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return resp, nil
}

// ListResponses returns the responses for a question ordered by creation time,
// with id as tiebreak for inserts within the same clock second.
func (s *Store) ListResponses(ctx context.Context, questionID int64) ([]models.ResponseEntry, error) {
	const q = `SELECT audio_url, created_at FROM responses WHERE question_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, q, questionID)
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

// Close closes the database.
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("close sqlite", zap.Error(err))
	}
}

func mapSQLiteError(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return store.ErrQuestionNotFound
	}
	return err
}
