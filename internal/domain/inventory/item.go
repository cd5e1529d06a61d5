package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/schoolit/servicedesk/internal/shared/id"
)

// Item is one stock line of the shared equipment inventory. inStock never
// goes below zero: withdrawals larger than the stock clamp to zero instead
// of failing.
type Item struct {
	id        string
	name      string
	category  Category
	sku       string
	inStock   int
	minStock  int
	active    bool
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewItem(name string, category Category, sku string, inStock, minStock int, now time.Time) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if len(name) > 200 {
		return nil, fmt.Errorf("item name exceeds maximum length of 200 characters")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", category)
	}
	if inStock < 0 || minStock < 0 {
		return nil, ErrNegativeStock
	}

	return &Item{
		id:        id.New(id.PrefixInventoryItem),
		name:      name,
		category:  category,
		sku:       strings.TrimSpace(sku),
		inStock:   inStock,
		minStock:  minStock,
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructItem(
	itemID, name string,
	category Category,
	sku string,
	inStock, minStock int,
	active bool,
	version int,
	createdAt, updatedAt time.Time,
) (*Item, error) {
	if itemID == "" {
		return nil, fmt.Errorf("item ID is required")
	}
	return &Item{
		id:        itemID,
		name:      name,
		category:  category,
		sku:       sku,
		inStock:   inStock,
		minStock:  minStock,
		active:    active,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (i *Item) ID() string           { return i.id }
func (i *Item) Name() string         { return i.name }
func (i *Item) Category() Category   { return i.category }
func (i *Item) SKU() string          { return i.sku }
func (i *Item) InStock() int         { return i.inStock }
func (i *Item) MinStock() int        { return i.minStock }
func (i *Item) IsActive() bool       { return i.active }
func (i *Item) Version() int         { return i.version }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// IsLowStock is true for active items at or below their minimum.
func (i *Item) IsLowStock() bool {
	return i.active && i.inStock <= i.minStock
}

// SetVersion is called by the repository after a versioned write.
func (i *Item) SetVersion(version int) {
	i.version = version
}

// Withdraw takes quantity units out of stock, clamping at zero. It returns
// the signed delta actually applied, which is smaller in magnitude than
// quantity when stock ran out.
func (i *Item) Withdraw(quantity int, now time.Time) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	if !i.active {
		return 0, ErrItemInactive
	}

	before := i.inStock
	i.inStock = max(0, before-quantity)
	i.updatedAt = now
	return i.inStock - before, nil
}

func (i *Item) Restock(quantity int, now time.Time) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	i.inStock += quantity
	i.updatedAt = now
	return quantity, nil
}

// AdjustTo sets the counted stock level, clamped at zero, and returns the
// applied delta.
func (i *Item) AdjustTo(level int, now time.Time) int {
	before := i.inStock
	i.inStock = max(0, level)
	i.updatedAt = now
	return i.inStock - before
}

// ItemUpdate holds optional field changes; nil fields are left as is.
type ItemUpdate struct {
	Name     *string
	Category *Category
	SKU      *string
	MinStock *int
	Active   *bool
}

// Update applies u and returns one "field: old -> new" line per field that
// actually changed.
func (i *Item) Update(u ItemUpdate, now time.Time) ([]string, error) {
	var changes []string
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required")
		}
		if name != i.name {
			changes = append(changes, fmt.Sprintf("name: %s -> %s", i.name, name))
		}
		i.name = name
	}
	if u.Category != nil {
		if !u.Category.IsValid() {
			return nil, fmt.Errorf("invalid category: %s", *u.Category)
		}
		if *u.Category != i.category {
			changes = append(changes, fmt.Sprintf("category: %s -> %s", i.category, *u.Category))
		}
		i.category = *u.Category
	}
	if u.SKU != nil {
		sku := strings.TrimSpace(*u.SKU)
		if sku != i.sku {
			changes = append(changes, fmt.Sprintf("sku: %s -> %s", i.sku, sku))
		}
		i.sku = sku
	}
	if u.MinStock != nil {
		if *u.MinStock < 0 {
			return nil, ErrNegativeStock
		}
		if *u.MinStock != i.minStock {
			changes = append(changes, fmt.Sprintf("min_stock: %d -> %d", i.minStock, *u.MinStock))
		}
		i.minStock = *u.MinStock
	}
	if u.Active != nil {
		if *u.Active != i.active {
			changes = append(changes, fmt.Sprintf("active: %t -> %t", i.active, *u.Active))
		}
		i.active = *u.Active
	}
	if len(changes) > 0 {
		i.updatedAt = now
	}
	return changes, nil
}
