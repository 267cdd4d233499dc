package quarantine

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages quarantine record persistence. Append is best-effort:
// callers log failures but never abort a batch over them.
type Repository interface {
	Append(ctx context.Context, record *Record) error
	ListUnresolved(ctx context.Context, limit int) ([]*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ErrRecordNotFound indicates a missing quarantine record
type ErrRecordNotFound struct {
	ID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "quarantine record not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
