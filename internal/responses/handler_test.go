package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voiceover/backend/internal/models"
)

type listStore struct {
	stubStore
	entries map[int64][]models.ResponseEntry
	listErr error
}

func (s *listStore) ListResponses(ctx context.Context, questionID int64) ([]models.ResponseEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if entries, ok := s.entries[questionID]; ok {
		return entries, nil
	}
	return []models.ResponseEntry{}, nil
}

func newTestRouter(t *testing.T, st *listStore, up *stubUploader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(st, up, t.TempDir(), zap.NewNop())
	h := NewHandler(svc, st, zap.NewNop())
	r := gin.New()
	r.POST("/responses", h.Submit)
	r.GET("/responses/:questionId", h.ListByQuestion)
	return r
}

func multipartBody(t *testing.T, questionID string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if questionID != "" {
		if err := mw.WriteField("questionId", questionID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("audio", "answer.webm")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("audio-bytes")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestSubmitHandlerSuccess(t *testing.T) {
	st := &listStore{}
	up := &stubUploader{}
	r := newTestRouter(t, st, up)

	body, contentType := multipartBody(t, "7", true)
	req := httptest.NewRequest(http.MethodPost, "/responses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Message string          `json:"message"`
		Data    models.Response `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Message != "success" || resp.Data.QuestionID != 7 || resp.Data.AudioURL == "" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if len(up.keys) != 1 || !strings.HasPrefix(up.keys[0], "responses/7/") {
		t.Errorf("unexpected storage key: %v", up.keys)
	}
}

func TestSubmitHandlerMissingQuestionID(t *testing.T) {
	r := newTestRouter(t, &listStore{}, &stubUploader{})

	body, contentType := multipartBody(t, "", true)
	req := httptest.NewRequest(http.MethodPost, "/responses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "questionId is required") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestSubmitHandlerNonNumericQuestionID(t *testing.T) {
	r := newTestRouter(t, &listStore{}, &stubUploader{})

	body, contentType := multipartBody(t, "abc", true)
	req := httptest.NewRequest(http.MethodPost, "/responses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitHandlerMissingFile(t *testing.T) {
	r := newTestRouter(t, &listStore{}, &stubUploader{})

	body, contentType := multipartBody(t, "7", false)
	req := httptest.NewRequest(http.MethodPost, "/responses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "audio file is required") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestSubmitHandlerUploadFailure(t *testing.T) {
	st := &listStore{}
	up := &stubUploader{err: errors.New("bucket unreachable")}
	r := newTestRouter(t, st, up)

	body, contentType := multipartBody(t, "7", true)
	req := httptest.NewRequest(http.MethodPost, "/responses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(st.responses) != 0 {
		t.Errorf("no response row may exist after a failed upload")
	}
}

func TestListByQuestion(t *testing.T) {
	now := time.Now()
	st := &listStore{entries: map[int64][]models.ResponseEntry{
		3: {
			{AudioURL: "https://bucket/r/1", CreatedAt: now.Add(-time.Minute)},
			{AudioURL: "https://bucket/r/2", CreatedAt: now},
		},
	}}
	r := newTestRouter(t, st, &stubUploader{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/responses/3", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data []models.ResponseEntry `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[0].AudioURL != "https://bucket/r/1" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestListByQuestionUnknownIDIsEmpty(t *testing.T) {
	r := newTestRouter(t, &listStore{}, &stubUploader{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/responses/999", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown question, got %d", w.Code)
	}
	var resp struct {
		Data []models.ResponseEntry `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("expected empty list, got %v", resp.Data)
	}
}

func TestListByQuestionInvalidID(t *testing.T) {
	r := newTestRouter(t, &listStore{}, &stubUploader{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/responses/not-a-number", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
