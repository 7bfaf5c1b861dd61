package request

import (
	"strings"

	"wishlink/internal/usecase/commands"

	"github.com/google/uuid"
)

type WishlistItemRequest struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	Name          string     `json:"name" binding:"required"`
	Description   *string    `json:"description,omitempty"`
	Priority      int        `json:"priority"`
	Price         *float64   `json:"price,omitempty"`
	Currency      *string    `json:"currency,omitempty"`
	URL           *string    `json:"url,omitempty"`
	ImageURL      *string    `json:"imageUrl,omitempty"`
	IsUnlimited   bool       `json:"isUnlimited"`
	TotalQuantity int        `json:"totalQuantity"`
}

type CreateWishlistRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   *string               `json:"description,omitempty"`
	Visibility    string                `json:"visibility"`
	Participation string                `json:"participation"`
	Items         []WishlistItemRequest `json:"items"`
}

type UpdateWishlistRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   *string               `json:"description,omitempty"`
	Visibility    string                `json:"visibility"`
	Participation string                `json:"participation"`
	Items         []WishlistItemRequest `json:"items"`
}

func (r CreateWishlistRequest) ToParams() commands.CreateWishlistParams {
	return commands.CreateWishlistParams{
		Title:         strings.TrimSpace(r.Title),
		Description:   r.Description,
		Visibility:    r.Visibility,
		Participation: r.Participation,
		Items:         toItemParams(r.Items),
	}
}

func (r UpdateWishlistRequest) ToParams() commands.UpdateWishlistParams {
	return commands.UpdateWishlistParams{
		Title:         strings.TrimSpace(r.Title),
		Description:   r.Description,
		Visibility:    r.Visibility,
		Participation: r.Participation,
		Items:         toItemParams(r.Items),
	}
}

func toItemParams(items []WishlistItemRequest) []commands.ItemParams {
	out := make([]commands.ItemParams, len(items))
	for i, item := range items {
		out[i] = commands.ItemParams{
			ID:            item.ID,
			Name:          strings.TrimSpace(item.Name),
			Description:   item.Description,
			Priority:      item.Priority,
			Price:         item.Price,
			Currency:      item.Currency,
			URL:           item.URL,
			ImageURL:      item.ImageURL,
			IsUnlimited:   item.IsUnlimited,
			TotalQuantity: item.TotalQuantity,
		}
	}
	return out
}
