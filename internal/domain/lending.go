package domain

import (
	"context"
	"time"
)

// Lending records one unit of a ClothingItem issued to a user. It stays open
// until ReturnedAt is set, and may be returned at most once. References are
// weak: the clothing item and the user may outlive or predate the record.
type Lending struct {
	ID         string     `json:"id"`
	ClothingID string     `json:"clothingId"`
	UserEmail  string     `json:"userEmail"`
	IssuedAt   time.Time  `json:"issuedAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

// Open reports whether the lending has not been returned yet.
func (l *Lending) Open() bool {
	return l.ReturnedAt == nil
}

// LendingRepository defines persistence operations for lendings.
type LendingRepository interface {
	// Create assigns a fresh ID to the lending and appends it to the collection.
	Create(ctx context.Context, lending *Lending) error
	GetByID(ctx context.Context, id string) (*Lending, error)
	List(ctx context.Context) ([]Lending, error)
	// ListByUserEmail filters by exact, case-sensitive email match.
	ListByUserEmail(ctx context.Context, email string) ([]Lending, error)
	// MarkReturned sets ReturnedAt on an open lending.
	MarkReturned(ctx context.Context, id string, at time.Time) error
}
