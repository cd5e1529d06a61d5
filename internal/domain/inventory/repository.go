package inventory

import "context"

// Repository persists inventory items and their movement ledger. Update is
// version-checked and yields db.ErrConcurrentModification on a stale row.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, error)
	RecordMovement(ctx context.Context, m *Movement) error
	ListMovements(ctx context.Context, itemID string, limit int) ([]*Movement, error)
}

type Filter struct {
	ActiveOnly bool
	LowOnly    bool
	Category   *Category
}
