package dto

import (
	"time"

	"github.com/schoolit/servicedesk/internal/domain/inventory"
)

type ItemDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SKU       string    `json:"sku,omitempty"`
	InStock   int       `json:"in_stock"`
	MinStock  int       `json:"min_stock"`
	Active    bool      `json:"active"`
	LowStock  bool      `json:"low_stock"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MovementDTO struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Kind       string    `json:"kind"`
	Requested  int       `json:"requested"`
	Applied    int       `json:"applied"`
	StockAfter int       `json:"stock_after"`
	Clamped    bool      `json:"clamped"`
	CallID     string    `json:"call_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func ToItemDTO(i *inventory.Item) *ItemDTO {
	if i == nil {
		return nil
	}
	return &ItemDTO{
		ID:        i.ID(),
		Name:      i.Name(),
		Category:  i.Category().String(),
		SKU:       i.SKU(),
		InStock:   i.InStock(),
		MinStock:  i.MinStock(),
		Active:    i.IsActive(),
		LowStock:  i.IsLowStock(),
		Version:   i.Version(),
		CreatedAt: i.CreatedAt(),
		UpdatedAt: i.UpdatedAt(),
	}
}

func ToItemDTOs(items []*inventory.Item) []*ItemDTO {
	out := make([]*ItemDTO, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemDTO(i))
	}
	return out
}

func ToMovementDTOs(movements []*inventory.Movement) []*MovementDTO {
	out := make([]*MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, &MovementDTO{
			ID:         m.ID,
			ItemID:     m.ItemID,
			Kind:       string(m.Kind),
			Requested:  m.Requested,
			Applied:    m.Applied,
			StockAfter: m.StockAfter,
			Clamped:    m.Clamped(),
			CallID:     m.CallID,
			ActorID:    m.ActorID,
			ActorName:  m.ActorName,
			Detail:     m.Detail,
			Timestamp:  m.Timestamp,
		})
	}
	return out
}
