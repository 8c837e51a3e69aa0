package service

import (
	"sync"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// Directory holds the in-memory snapshot of the external user directory.
// Each sync replaces the snapshot wholesale; readers always observe either
// the old or the new snapshot in full, never a mix.
type Directory struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewDirectory creates an empty directory snapshot.
func NewDirectory() *Directory {
	return &Directory{}
}

// Replace swaps in a new snapshot. The slice must not be mutated by the
// caller afterwards.
func (d *Directory) Replace(users []domain.User) {
	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
}

// List returns the current snapshot. The returned slice is shared and must
// be treated as read-only.
func (d *Directory) List() []domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.users
}

// FindByEmail returns the directory user with the given email, if present.
// Historical lendings may reference emails no longer in the snapshot.
func (d *Directory) FindByEmail(email string) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.users {
		if d.users[i].Email == email {
			user := d.users[i]
			return &user, true
		}
	}
	return nil, false
}

// Len returns the number of users in the current snapshot.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
