// Package responses implements voice response submission: staging the inbound
// audio, uploading it to object storage and recording the result against its
// question in one transaction.
package responses

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/voiceover/backend/internal/models"
	"github.com/voiceover/backend/internal/store"
	"github.com/voiceover/backend/pkg/storage"
)

// Service orchestrates a voice response submission.
type Service struct {
	store    store.Store
	uploader storage.Uploader
	tmpDir   string // staging directory; empty = os.TempDir()
	logger   *zap.Logger
}

// NewService creates the upload orchestrator.
func NewService(st store.Store, uploader storage.Uploader, tmpDir string, logger *zap.Logger) *Service {
	return &Service{store: st, uploader: uploader, tmpDir: tmpDir, logger: logger}
}

// Submit stages the audio payload to a temp file, uploads it under a key
// namespaced by question id, then inserts the response row and marks the
// question answered in one transaction. The staged file is removed on every
// exit path; a removal failure is logged, never returned. The upload must
// resolve before the store transaction begins, so a storage failure leaves no
// row behind. A store failure after a successful upload leaves an orphan
// object in the bucket, which is accepted; the error still reaches the caller.
func (s *Service) Submit(ctx context.Context, questionID int64, filename, contentType string, audio io.Reader) (*models.Response, error) {
	tmp, err := os.CreateTemp(s.tmpDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			s.logger.Warn("remove staged upload failed", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()
	defer tmp.Close()

	size, err := io.Copy(tmp, audio)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind staged upload: %w", err)
	}

	key := storage.ResponseKey(questionID, filename)
	audioURL, err := s.uploader.Upload(ctx, key, contentType, tmp, size)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	resp, err := s.store.CreateResponse(ctx, questionID, audioURL)
	if err != nil {
		s.logger.Error("record response failed, uploaded object orphaned",
			zap.Int64("question_id", questionID), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("record response: %w", err)
	}
	return resp, nil
}
