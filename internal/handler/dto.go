package handler

import (
	"time"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// ClothingDTO is the JSON representation of a clothing item. Lent is the
// number of currently open lendings for the item.
type ClothingDTO struct {
	ID       string `json:"id"`
	Clothing string `json:"clothing"`
	Size     string `json:"size"`
	Count    int    `json:"count"`
	Lent     int    `json:"lent"`
}

func toClothingDTO(item *domain.ClothingItem, lent int) ClothingDTO {
	return ClothingDTO{
		ID:       item.ID,
		Clothing: item.Clothing,
		Size:     item.Size,
		Count:    item.Count,
		Lent:     lent,
	}
}

// LendingDTO is the JSON representation of a lending, denormalized with the
// referenced item's name and size for display. The item fields stay empty
// when the item no longer exists.
type LendingDTO struct {
	ID         string `json:"id"`
	ClothingID string `json:"clothingId"`
	UserEmail  string `json:"userEmail"`
	Clothing   string `json:"clothing"`
	Size       string `json:"size"`
	IssuedAt   string `json:"issuedAt"`
	ReturnedAt string `json:"returnedAt,omitempty"`
}

func toLendingDTO(l *domain.Lending, items map[string]domain.ClothingItem) LendingDTO {
	dto := LendingDTO{
		ID:         l.ID,
		ClothingID: l.ClothingID,
		UserEmail:  l.UserEmail,
		IssuedAt:   l.IssuedAt.Format(time.RFC3339),
	}
	if l.ReturnedAt != nil {
		dto.ReturnedAt = l.ReturnedAt.Format(time.RFC3339)
	}
	if item, ok := items[l.ClothingID]; ok {
		dto.Clothing = item.Clothing
		dto.Size = item.Size
	}
	return dto
}

func toLendingDTOs(lendings []domain.Lending, items map[string]domain.ClothingItem) []LendingDTO {
	dtos := make([]LendingDTO, len(lendings))
	for i := range lendings {
		dtos[i] = toLendingDTO(&lendings[i], items)
	}
	return dtos
}

// UserDTO is the JSON representation of a directory user.
type UserDTO struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

func toUserDTO(u *domain.User) UserDTO {
	groups := u.Groups
	if groups == nil {
		groups = []string{}
	}
	return UserDTO{
		Name:   u.Name,
		Email:  u.Email,
		Groups: groups,
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}
