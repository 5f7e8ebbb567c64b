package documents

import "time"

// Document is a generated resume or cover letter owned by a user. Content is
// the serialized record described in resume/model.
type Document struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryResponse is a list entry without the content payload.
type SummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		UserID:    doc.UserID,
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}

func toSummary(doc Document) SummaryResponse {
	return SummaryResponse{ID: doc.ID, Title: doc.Title, CreatedAt: doc.CreatedAt}
}
