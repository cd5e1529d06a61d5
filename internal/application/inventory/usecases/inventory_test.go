package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/repository"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

var (
	storekeeper = shared.Actor{ID: "mgr_1", Name: "Yael"}
	fixedNow    = time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
)

type ledger struct {
	add       *AddItemUseCase
	update    *UpdateItemUseCase
	restock   *RestockUseCase
	adjust    *AdjustStockUseCase
	list      *ListItemsUseCase
	get       *GetItemUseCase
	movements *ListMovementsUseCase
}

func newLedger(t *testing.T) *ledger {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := logger.NewNop()
	repo := repository.NewInventoryRepository(gdb, log)
	txMgr := db.NewTransactionManager(gdb, db.WithRetryPolicy(3, 0))
	pub := pubsub.NopPublisher{}

	l := &ledger{
		add:       NewAddItemUseCase(repo, pub, log),
		update:    NewUpdateItemUseCase(repo, txMgr, pub, log),
		restock:   NewRestockUseCase(repo, txMgr, pub, log),
		adjust:    NewAdjustStockUseCase(repo, txMgr, pub, log),
		list:      NewListItemsUseCase(repo, log),
		get:       NewGetItemUseCase(repo, log),
		movements: NewListMovementsUseCase(repo, log),
	}
	l.add.clock = func() time.Time { return fixedNow }
	l.update.clock = func() time.Time { return fixedNow.Add(time.Minute) }
	l.restock.writer.clock = func() time.Time { return fixedNow.Add(2 * time.Minute) }
	l.adjust.writer.clock = func() time.Time { return fixedNow.Add(3 * time.Minute) }
	return l
}

func TestAddItem(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	item, err := l.add.Execute(ctx, AddItemCommand{Name: " Mouse ", Category: "peripherals", InStock: 5, MinStock: 2})
	require.NoError(t, err)
	assert.Equal(t, "Mouse", item.Name)
	assert.True(t, item.Active)
	assert.Equal(t, 1, item.Version)
	assert.Equal(t, fixedNow, item.CreatedAt)

	tests := []struct {
		name string
		cmd  AddItemCommand
	}{
		{name: "unknown category", cmd: AddItemCommand{Name: "Mouse", Category: "furniture"}},
		{name: "blank name", cmd: AddItemCommand{Name: " ", Category: "cables"}},
		{name: "negative stock", cmd: AddItemCommand{Name: "Cable", Category: "cables", InStock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.add.Execute(ctx, tt.cmd)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestRestockAndAdjust_RecordMovements(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	item, err := l.add.Execute(ctx, AddItemCommand{Name: "Toner", Category: "consumables", InStock: 2, MinStock: 1})
	require.NoError(t, err)

	restocked, err := l.restock.Execute(ctx, RestockCommand{ItemID: item.ID, Quantity: 4, Actor: storekeeper})
	require.NoError(t, err)
	assert.Equal(t, 6, restocked.Item.InStock)
	assert.Equal(t, "restock", restocked.Movement.Kind)
	assert.Equal(t, 4, restocked.Movement.Applied)

	_, err = l.restock.Execute(ctx, RestockCommand{ItemID: item.ID, Quantity: 0, Actor: storekeeper})
	assert.True(t, errors.IsValidationError(err))

	adjusted, err := l.adjust.Execute(ctx, AdjustStockCommand{ItemID: item.ID, Level: -3, Actor: storekeeper})
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted.Item.InStock)
	assert.Equal(t, -9, adjusted.Movement.Requested)
	assert.Equal(t, -6, adjusted.Movement.Applied)
	assert.True(t, adjusted.Movement.Clamped)

	_, err = l.adjust.Execute(ctx, AdjustStockCommand{ItemID: "inv_missing", Level: 1, Actor: storekeeper})
	assert.True(t, errors.IsNotFoundError(err))

	ledgerRows, err := l.movements.Execute(ctx, ListMovementsQuery{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, ledgerRows, 2)
	assert.Equal(t, "adjust", ledgerRows[0].Kind, "newest first")
	assert.Equal(t, storekeeper.ID, ledgerRows[0].ActorID)

	_, err = l.movements.Execute(ctx, ListMovementsQuery{ItemID: "inv_missing"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestUpdateItem_AndLowStock(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	cable, err := l.add.Execute(ctx, AddItemCommand{Name: "HDMI cable", Category: "cables", InStock: 1, MinStock: 2})
	require.NoError(t, err)
	mouse, err := l.add.Execute(ctx, AddItemCommand{Name: "Mouse", Category: "peripherals", InStock: 9, MinStock: 2})
	require.NoError(t, err)
	_, err = l.add.Execute(ctx, AddItemCommand{Name: "Old keyboard", Category: "peripherals", InStock: 0, MinStock: 1})
	require.NoError(t, err)

	all, err := l.list.Execute(ctx, ListItemsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	inactive := false
	all, err = l.list.Execute(ctx, ListItemsQuery{Category: "peripherals"})
	require.NoError(t, err)
	for _, item := range all {
		if item.Name == "Old keyboard" {
			updated, err := l.update.Execute(ctx, UpdateItemCommand{ItemID: item.ID, Active: &inactive, Actor: storekeeper})
			require.NoError(t, err)
			assert.False(t, updated.Active)
			assert.Equal(t, 2, updated.Version)
		}
	}

	low, err := l.list.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, cable.ID, low[0].ID)

	minStock := 10
	_, err = l.update.Execute(ctx, UpdateItemCommand{ItemID: mouse.ID, MinStock: &minStock, Actor: storekeeper})
	require.NoError(t, err)
	low, err = l.list.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	active, err := l.list.Execute(ctx, ListItemsQuery{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	badCategory := "furniture"
	_, err = l.update.Execute(ctx, UpdateItemCommand{ItemID: mouse.ID, Category: &badCategory, Actor: storekeeper})
	assert.True(t, errors.IsValidationError(err))

	got, err := l.get.Execute(ctx, mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.MinStock)
}

func TestUpdateItem_RecordsAudit(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	item, err := l.add.Execute(ctx, AddItemCommand{Name: "Toner", Category: "consumables", InStock: 4, MinStock: 1})
	require.NoError(t, err)

	minStock := 3
	inactive := false
	_, err = l.update.Execute(ctx, UpdateItemCommand{ItemID: item.ID, MinStock: &minStock, Active: &inactive})
	assert.True(t, errors.IsValidationError(err), "actor is required")

	updated, err := l.update.Execute(ctx, UpdateItemCommand{ItemID: item.ID, MinStock: &minStock, Active: &inactive, Actor: storekeeper})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	rows, err := l.movements.Execute(ctx, ListMovementsQuery{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "update", rows[0].Kind)
	assert.Equal(t, "min_stock: 1 -> 3; active: true -> false", rows[0].Detail)
	assert.Equal(t, storekeeper.ID, rows[0].ActorID)
	assert.Equal(t, 4, rows[0].StockAfter)
	assert.Zero(t, rows[0].Applied)
	assert.Equal(t, fixedNow.Add(time.Minute), rows[0].Timestamp)

	unchanged, err := l.update.Execute(ctx, UpdateItemCommand{ItemID: item.ID, MinStock: &minStock, Actor: storekeeper})
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.Version, "no-op update writes nothing")
	rows, err = l.movements.Execute(ctx, ListMovementsQuery{ItemID: item.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
