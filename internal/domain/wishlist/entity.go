package wishlist

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired = errors.New("wishlist title is required")
	ErrOwnerRequired = errors.New("wishlist owner is required")
	ErrDuplicateItem = errors.New("duplicate item id in wishlist")
	ErrForeignItem   = errors.New("item belongs to a different wishlist")
	ErrItemNotFound  = errors.New("item not found in wishlist")
)

// Wishlist is the aggregate root and the unit of consistency for "does this
// item belong to this wishlist". Items are owned by composition; transactions
// reference items by id but live outside the aggregate.
type Wishlist struct {
	id            uuid.UUID
	ownerID       string
	title         string
	description   *string
	visibility    Visibility
	participation Participation
	items         []*Item
	createdAt     time.Time
	updatedAt     time.Time
}

type Props struct {
	ID            uuid.UUID
	OwnerID       string
	Title         string
	Description   *string
	Visibility    Visibility
	Participation Participation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewWishlist(ownerID, title string, description *string, vis Visibility, part Participation, now time.Time) (*Wishlist, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !vis.IsValid() {
		vis = VisibilityLink
	}
	if !part.IsValid() {
		part = ParticipationAnyone
	}
	return &Wishlist{
		id:            uuid.New(),
		ownerID:       ownerID,
		title:         title,
		description:   description,
		visibility:    vis,
		participation: part,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstitute assembles the aggregate from a root record and a
// separately-fetched item list. Enums are normalized with defaults rather
// than failing hard on legacy rows. Item ids must be unique and carry the
// root's id; foreign-key consistency beyond that is the repository's job.
func Reconstitute(p Props, items []*Item) (*Wishlist, error) {
	if p.ID == uuid.Nil {
		return nil, ErrMissingID
	}
	if p.OwnerID == "" {
		return nil, ErrOwnerRequired
	}
	if p.Title == "" {
		return nil, ErrTitleRequired
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if it.WishlistID() != p.ID {
			return nil, ErrForeignItem
		}
		if _, dup := seen[it.ID()]; dup {
			return nil, ErrDuplicateItem
		}
		seen[it.ID()] = struct{}{}
	}

	return &Wishlist{
		id:            p.ID,
		ownerID:       p.OwnerID,
		title:         p.Title,
		description:   p.Description,
		visibility:    ParseVisibility(p.Visibility.String()),
		participation: ParseParticipation(p.Participation.String()),
		items:         items,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}

func (w *Wishlist) ID() uuid.UUID               { return w.id }
func (w *Wishlist) OwnerID() string             { return w.ownerID }
func (w *Wishlist) Title() string               { return w.title }
func (w *Wishlist) Description() *string        { return w.description }
func (w *Wishlist) Visibility() Visibility      { return w.visibility }
func (w *Wishlist) Participation() Participation { return w.participation }
func (w *Wishlist) CreatedAt() time.Time        { return w.createdAt }
func (w *Wishlist) UpdatedAt() time.Time        { return w.updatedAt }

func (w *Wishlist) IsOwnedBy(userID string) bool {
	return userID != "" && w.ownerID == userID
}

// Items returns the owned item collection. The slice is a copy; the items
// themselves are the aggregate's and must be mutated through it.
func (w *Wishlist) Items() []*Item {
	out := make([]*Item, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Wishlist) ItemByID(id uuid.UUID) (*Item, bool) {
	for _, it := range w.items {
		if it.ID() == id {
			return it, true
		}
	}
	return nil, false
}

func (w *Wishlist) Rename(title string, now time.Time) error {
	if title == "" {
		return ErrTitleRequired
	}
	w.title = title
	w.updatedAt = now
	return nil
}

func (w *Wishlist) SetDescription(description *string, now time.Time) {
	w.description = description
	w.updatedAt = now
}

func (w *Wishlist) SetVisibility(vis Visibility, now time.Time) {
	if !vis.IsValid() {
		vis = VisibilityLink
	}
	w.visibility = vis
	w.updatedAt = now
}

func (w *Wishlist) SetParticipation(part Participation, now time.Time) {
	if !part.IsValid() {
		part = ParticipationAnyone
	}
	w.participation = part
	w.updatedAt = now
}

func (w *Wishlist) AddItem(p ItemProps, now time.Time) (*Item, error) {
	it, err := NewItem(w.id, p)
	if err != nil {
		return nil, err
	}
	w.items = append(w.items, it)
	w.updatedAt = now
	return it, nil
}

func (w *Wishlist) UpdateItem(id uuid.UUID, p ItemProps, now time.Time) (*Item, error) {
	it, ok := w.ItemByID(id)
	if !ok {
		return nil, ErrItemNotFound
	}
	if err := it.Update(p); err != nil {
		return nil, err
	}
	w.updatedAt = now
	return it, nil
}

// RemoveItem detaches an item from the aggregate and returns it so callers
// can owner-cancel its outstanding reservations.
func (w *Wishlist) RemoveItem(id uuid.UUID, now time.Time) (*Item, error) {
	for idx, it := range w.items {
		if it.ID() == id {
			w.items = append(w.items[:idx], w.items[idx+1:]...)
			w.updatedAt = now
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}
