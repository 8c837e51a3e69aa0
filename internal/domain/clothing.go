package domain

import "context"

// ClothingItem is a stock record for one garment type and size with a
// remaining-available count. Count never goes negative.
type ClothingItem struct {
	ID       string `json:"id"`
	Clothing string `json:"clothing"`
	Size     string `json:"size"`
	Count    int    `json:"count"`
}

// ClothingRepository defines persistence operations for clothing items.
type ClothingRepository interface {
	// Add assigns a fresh ID to the item and appends it to the collection.
	Add(ctx context.Context, item *ClothingItem) error
	GetByID(ctx context.Context, id string) (*ClothingItem, error)
	List(ctx context.Context) ([]ClothingItem, error)
	// AdjustCount applies delta to the item's count, clamping at zero.
	AdjustCount(ctx context.Context, id string, delta int) error
}
