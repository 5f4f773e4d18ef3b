package dto

import "github.com/google/uuid"

type ChatChunk struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Text    string `json:"text" validate:"required"`
	Summary string `json:"summary"`
}

// ChatRequest resolves context in this order: Chunks, BookId, Book (title).
type ChatRequest struct {
	Query  string      `json:"query"`
	BookId *uuid.UUID  `json:"book_id"`
	Book   *string     `json:"book"`
	Chunks []ChatChunk `json:"chunks" validate:"omitempty,dive"`
}

type ChatResponse struct {
	Response string  `json:"response"`
	Book     *string `json:"book"`
	Author   *string `json:"author"`
	Source   string  `json:"source"`
}
