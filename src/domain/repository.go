package domain

import (
	"context"

	"notes-app/src/query"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	List(ctx context.Context, plan *query.Plan) ([]Note, int, error)
	Update(ctx context.Context, id int, changes *NoteChanges) (*Note, error)
	Delete(ctx context.Context, id int) error
}
