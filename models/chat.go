package models

import "time"

// ChatRequest is the body of both the question and streaming endpoints.
type ChatRequest struct {
	Question     string `json:"question" binding:"required,min=5,max=1000"`
	SelectedText string `json:"selected_text" binding:"omitempty,max=5000"`
	Language     string `json:"language" binding:"omitempty,oneof=en ur"`
}

// SourceReference is a citation for one retrieved chunk, including a
// deep link into the rendered textbook.
type SourceReference struct {
	ChapterID    string `json:"chapter_id"`
	ChapterTitle string `json:"chapter_title"`
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	URL          string `json:"url"`
}

// ChatResponse is the full answer payload for the question endpoint.
// SuggestedChapters is only populated when OutOfScope is true.
type ChatResponse struct {
	Answer            string            `json:"answer"`
	Sources           []SourceReference `json:"sources"`
	Language          string            `json:"language"`
	OutOfScope        bool              `json:"out_of_scope"`
	SuggestedChapters []string          `json:"suggested_chapters,omitempty"`
}

// RetrievedChunk is a search hit shaped like the indexed payload plus its
// similarity score. It only lives for the duration of one request.
type RetrievedChunk struct {
	Score        float32 `json:"score"`
	ChapterID    string  `json:"chapter_id"`
	SectionID    string  `json:"section_id"`
	SectionTitle string  `json:"section_title"`
	Content      string  `json:"content"`
	Language     string  `json:"language"`
}

// Exchange is one answered question persisted for audit and analytics.
type Exchange struct {
	Question   string            `json:"question" bson:"question"`
	Answer     string            `json:"answer" bson:"answer"`
	Language   string            `json:"language" bson:"language"`
	Sources    []SourceReference `json:"sources" bson:"sources"`
	OutOfScope bool              `json:"out_of_scope" bson:"out_of_scope"`
	Timestamp  time.Time         `json:"timestamp" bson:"timestamp"`
}
