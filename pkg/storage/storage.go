// Package storage provides object storage for uploaded audio, backed by AWS
// S3 or any S3-compatible endpoint via MinIO.
package storage

import (
	"context"
	"io"
	"path"
	"strconv"

	"github.com/google/uuid"
)

// FolderResponses is the object key prefix for voice responses.
const FolderResponses = "responses"

// Uploader stores a byte stream under a key and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// ResponseKey returns the object key for a voice response:
// responses/{question_id}/{uuid}-{filename}. The generated uuid keeps
// concurrent submissions for the same question from colliding.
func ResponseKey(questionID int64, filename string) string {
	return path.Join(FolderResponses, strconv.FormatInt(questionID, 10), uuid.NewString()+"-"+path.Base(filename))
}
