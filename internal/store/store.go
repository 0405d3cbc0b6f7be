// Package store defines the persistence contract shared by the SQLite and
// PostgreSQL backends.
package store

import (
	"context"
	"errors"

	"github.com/voiceover/backend/internal/models"
)

var (
	// ErrInvalidInput is returned when a required field is empty or missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuestionNotFound is returned when a write references a question id
	// that does not exist (foreign key violation).
	ErrQuestionNotFound = errors.New("question not found")
)

// Store is the persistence backend for questions and responses.
// Implementations are safe for concurrent use.
type Store interface {
	// ListQuestions returns all questions ordered by id ascending.
	ListQuestions(ctx context.Context) ([]models.Question, error)

	// CreateQuestion inserts a new unanswered question. Empty or
	// whitespace-only text fails with ErrInvalidInput.
	CreateQuestion(ctx context.Context, text string) (*models.Question, error)

	// CreateResponse inserts a response row and marks its question answered
	// in a single transaction. Either both become visible or neither does.
	// A questionID that references no question fails with ErrQuestionNotFound.
	CreateResponse(ctx context.Context, questionID int64, audioURL string) (*models.Response, error)

	// ListResponses returns the responses for a question ordered by creation
	// time ascending. An unknown questionID yields an empty slice, not an error.
	ListResponses(ctx context.Context, questionID int64) ([]models.ResponseEntry, error)

	// Close releases the underlying connection pool.
	Close()
}
