package jsonfile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// LendingRepository implements domain.LendingRepository on the JSON store.
type LendingRepository struct {
	store *Store
}

func (r *LendingRepository) Create(ctx context.Context, lending *domain.Lending) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	lending.ID = uuid.NewString()
	s.lendings = append(s.lendings, *lending)
	return s.saveLendings()
}

func (r *LendingRepository) GetByID(ctx context.Context, id string) (*domain.Lending, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lendings {
		if s.lendings[i].ID == id {
			lending := s.lendings[i]
			return &lending, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *LendingRepository) List(ctx context.Context) ([]domain.Lending, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	lendings := make([]domain.Lending, len(s.lendings))
	copy(lendings, s.lendings)
	return lendings, nil
}

func (r *LendingRepository) ListByUserEmail(ctx context.Context, email string) ([]domain.Lending, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var lendings []domain.Lending
	for _, l := range s.lendings {
		if l.UserEmail == email {
			lendings = append(lendings, l)
		}
	}
	return lendings, nil
}

func (r *LendingRepository) MarkReturned(ctx context.Context, id string, at time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lendings {
		if s.lendings[i].ID == id {
			if s.lendings[i].ReturnedAt != nil {
				return domain.ErrAlreadyReturned
			}
			s.lendings[i].ReturnedAt = &at
			return s.saveLendings()
		}
	}
	return domain.ErrNotFound
}
