package models

import "github.com/schoolit/servicedesk/internal/shared/constants"

type InventoryItemModel struct {
	ID        string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:200;not null"`
	Category  string `gorm:"size:32;not null;index"`
	SKU       string `gorm:"column:sku;size:64;index"`
	InStock   int    `gorm:"not null;default:0"`
	MinStock  int    `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null;index"`
	Version   int    `gorm:"not null;default:1"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}

func (InventoryItemModel) TableName() string {
	return constants.TableInventoryItems
}

type InventoryMovementModel struct {
	ID         string `gorm:"primaryKey;size:32"`
	ItemID     string `gorm:"size:32;not null;index:idx_movements_item_time,priority:1"`
	Kind       string `gorm:"size:16;not null"`
	Requested  int    `gorm:"not null"`
	Applied    int    `gorm:"not null"`
	StockAfter int    `gorm:"not null"`
	CallID     string `gorm:"size:32;index"`
	ActorID    string `gorm:"size:64;not null"`
	ActorName  string `gorm:"size:200"`
	Detail     string `gorm:"size:500"`
	RecordedAt int64  `gorm:"not null;index:idx_movements_item_time,priority:2"`
}

func (InventoryMovementModel) TableName() string {
	return constants.TableInventoryMovements
}
