package documents

import "context"

// DocumentsRepo defines persistence operations for documents. Every lookup
// and delete is scoped by user.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	// ListByUser returns documents newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	// Delete removes the matching document; a missing row is not an error.
	Delete(ctx context.Context, userID, documentID string) error
}
