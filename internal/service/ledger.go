package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// LedgerService is the only component that mutates clothing counts and
// creates or closes lendings. A single mutex serializes every
// check-then-mutate sequence so the count never goes negative and a lending
// is returned at most once, even under concurrent requests.
type LedgerService struct {
	mu       sync.Mutex
	clothing domain.ClothingRepository
	lendings domain.LendingRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(clothing domain.ClothingRepository, lendings domain.LendingRepository) *LedgerService {
	return &LedgerService{
		clothing: clothing,
		lendings: lendings,
	}
}

// AddItem creates a new clothing item after validating inputs. Each call
// creates a distinct row, even when name and size match an existing item.
func (s *LedgerService) AddItem(ctx context.Context, clothing, size string, count int) (*domain.ClothingItem, error) {
	if clothing == "" || size == "" {
		return nil, fmt.Errorf("%w: clothing and size are required", domain.ErrInvalidInput)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be a positive integer", domain.ErrInvalidInput)
	}

	item := &domain.ClothingItem{
		Clothing: clothing,
		Size:     size,
		Count:    count,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clothing.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add clothing item: %w", err)
	}
	return item, nil
}

// Issue hands one unit of a clothing item to a user: the count is
// decremented and an open lending is created as one step under the ledger
// lock. Fails with ErrNotFound for an unknown item and ErrUnavailable when
// nothing is in stock; neither failure mutates any state.
func (s *LedgerService) Issue(ctx context.Context, clothingID, userEmail string) (*domain.Lending, error) {
	if clothingID == "" || userEmail == "" {
		return nil, fmt.Errorf("%w: clothingId and userEmail are required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.clothing.GetByID(ctx, clothingID)
	if err != nil {
		return nil, err
	}
	if item.Count <= 0 {
		return nil, domain.ErrUnavailable
	}

	if err := s.clothing.AdjustCount(ctx, clothingID, -1); err != nil {
		return nil, fmt.Errorf("decrement count: %w", err)
	}

	lending := &domain.Lending{
		ClothingID: clothingID,
		UserEmail:  userEmail,
		IssuedAt:   time.Now().UTC(),
	}
	if err := s.lendings.Create(ctx, lending); err != nil {
		return nil, fmt.Errorf("create lending: %w", err)
	}

	return lending, nil
}

// Return closes an open lending and puts the unit back in stock. A missing
// clothing item is tolerated: the increment is skipped, not an error, so
// historical lendings survive inventory turnover.
func (s *LedgerService) Return(ctx context.Context, lendingID string) (*domain.Lending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lending, err := s.lendings.GetByID(ctx, lendingID)
	if err != nil {
		return nil, err
	}
	if lending.ReturnedAt != nil {
		return nil, domain.ErrAlreadyReturned
	}

	now := time.Now().UTC()
	if err := s.lendings.MarkReturned(ctx, lendingID, now); err != nil {
		return nil, fmt.Errorf("mark returned: %w", err)
	}
	lending.ReturnedAt = &now

	if err := s.clothing.AdjustCount(ctx, lending.ClothingID, 1); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("increment count: %w", err)
		}
	}

	return lending, nil
}

// ListItems returns all clothing items.
func (s *LedgerService) ListItems(ctx context.Context) ([]domain.ClothingItem, error) {
	return s.clothing.List(ctx)
}

// GetItem returns one clothing item by ID.
func (s *LedgerService) GetItem(ctx context.Context, id string) (*domain.ClothingItem, error) {
	return s.clothing.GetByID(ctx, id)
}

// ListLendings returns all lendings, open and returned.
func (s *LedgerService) ListLendings(ctx context.Context) ([]domain.Lending, error) {
	return s.lendings.List(ctx)
}

// ListLendingsForUser returns the lendings whose userEmail exactly matches.
func (s *LedgerService) ListLendingsForUser(ctx context.Context, email string) ([]domain.Lending, error) {
	return s.lendings.ListByUserEmail(ctx, email)
}

// GetLending returns one lending by ID.
func (s *LedgerService) GetLending(ctx context.Context, id string) (*domain.Lending, error) {
	return s.lendings.GetByID(ctx, id)
}

// OpenLendingCounts returns the number of open lendings per clothing ID.
func (s *LedgerService) OpenLendingCounts(ctx context.Context) (map[string]int, error) {
	lendings, err := s.lendings.List(ctx)
	if err != nil {
		return nil, err
	}

	open := make(map[string]int)
	for _, l := range lendings {
		if l.Open() {
			open[l.ClothingID]++
		}
	}
	return open, nil
}
