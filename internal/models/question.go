package models

// Question is a text prompt awaiting zero or more voice answers.
type Question struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Answered bool   `json:"answered"`
}
