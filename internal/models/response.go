package models

import "time"

// Response is one stored voice answer linked to a Question.
type Response struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	AudioURL   string    `json:"audioUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ResponseEntry is the public listing shape for a response (no internal ids).
type ResponseEntry struct {
	AudioURL  string    `json:"audioUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
