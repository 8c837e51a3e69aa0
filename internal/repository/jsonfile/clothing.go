package jsonfile

import (
	"context"

	"github.com/google/uuid"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// ClothingRepository implements domain.ClothingRepository on the JSON store.
type ClothingRepository struct {
	store *Store
}

func (r *ClothingRepository) Add(ctx context.Context, item *domain.ClothingItem) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	s.clothing = append(s.clothing, *item)
	return s.saveClothing()
}

func (r *ClothingRepository) GetByID(ctx context.Context, id string) (*domain.ClothingItem, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clothing {
		if s.clothing[i].ID == id {
			item := s.clothing[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ClothingRepository) List(ctx context.Context) ([]domain.ClothingItem, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.ClothingItem, len(s.clothing))
	copy(items, s.clothing)
	return items, nil
}

func (r *ClothingRepository) AdjustCount(ctx context.Context, id string, delta int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clothing {
		if s.clothing[i].ID == id {
			s.clothing[i].Count += delta
			if s.clothing[i].Count < 0 {
				s.clothing[i].Count = 0
			}
			return s.saveClothing()
		}
	}
	return domain.ErrNotFound
}
