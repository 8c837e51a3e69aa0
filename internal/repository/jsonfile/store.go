// Package jsonfile persists the clothing and lending collections as two
// pretty-printed JSON array files, with an authoritative in-memory mirror.
// Every mutation rewrites the whole file; the data volume is small and there
// is a single writer process.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// Store owns the canonical in-memory collections and their file mirrors.
// One mutex guards both collections so that callers holding a repository
// never observe a half-applied cross-collection mutation.
type Store struct {
	mu sync.Mutex

	clothingPath string
	lendingsPath string

	clothing []domain.ClothingItem
	lendings []domain.Lending
}

// Open loads both collections from disk. A missing or unparsable file is
// treated as "no data yet": the collection starts empty and the file is
// rewritten, so startup never fails on bad data, only on unwritable paths.
func Open(clothingPath, lendingsPath string) (*Store, error) {
	s := &Store{
		clothingPath: clothingPath,
		lendingsPath: lendingsPath,
	}

	if err := loadCollection(clothingPath, &s.clothing); err != nil {
		return nil, fmt.Errorf("load clothing: %w", err)
	}
	if err := loadCollection(lendingsPath, &s.lendings); err != nil {
		return nil, fmt.Errorf("load lendings: %w", err)
	}

	return s, nil
}

// Clothing returns the clothing repository backed by this store.
func (s *Store) Clothing() *ClothingRepository {
	return &ClothingRepository{store: s}
}

// Lendings returns the lending repository backed by this store.
func (s *Store) Lendings() *LendingRepository {
	return &LendingRepository{store: s}
}

// loadCollection reads a JSON array file into dst. On a read or parse error
// dst is reset to an empty collection and the file is written back out.
func loadCollection[T any](path string, dst *[]T) error {
	data, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, dst); jsonErr == nil {
			return nil
		}
		slog.Warn("data file unparsable, starting empty", "path", path)
	}

	*dst = []T{}
	return writeCollection(path, *dst)
}

// writeCollection serializes the whole collection and overwrites the file,
// pretty-printed for human inspection.
func writeCollection[T any](path string, collection []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", domain.ErrPersistence, err)
	}

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", domain.ErrPersistence, filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, filepath.Base(path), err)
	}
	return nil
}

func (s *Store) saveClothing() error {
	return writeCollection(s.clothingPath, s.clothing)
}

func (s *Store) saveLendings() error {
	return writeCollection(s.lendingsPath, s.lendings)
}
