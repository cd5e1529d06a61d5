package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

func newItem(t *testing.T, name string, inStock, minStock int) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, inventory.CategoryPeripherals, "", inStock, minStock, base)
	require.NoError(t, err)
	return item
}

func TestInventoryRepository_VersionedUpdate(t *testing.T) {
	repo := NewInventoryRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	item := newItem(t, "Mouse", 3, 1)
	require.NoError(t, repo.Create(ctx, item))
	assert.Equal(t, 1, item.Version())

	stale, err := repo.GetByID(ctx, item.ID())
	require.NoError(t, err)

	applied, err := item.Withdraw(5, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, -3, applied)
	require.NoError(t, repo.Update(ctx, item))
	assert.Equal(t, 2, item.Version())

	_, err = stale.Restock(1, base)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, stale), db.ErrConcurrentModification)

	found, err := repo.GetByID(ctx, item.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, found.InStock())
	assert.True(t, found.IsLowStock())

	_, err = repo.GetByID(ctx, "inv_missing")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestInventoryRepository_ListFilters(t *testing.T) {
	repo := NewInventoryRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	plenty := newItem(t, "Keyboard", 10, 2)
	low := newItem(t, "Mouse", 1, 2)
	retired := newItem(t, "Ball mouse", 0, 5)
	require.NoError(t, repo.Create(ctx, plenty))
	require.NoError(t, repo.Create(ctx, low))
	inactive := false
	_, err := retired.Update(inventory.ItemUpdate{Active: &inactive}, base)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, retired))

	stored, err := repo.GetByID(ctx, retired.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsActive(), "inactive items stay inactive on insert")

	all, err := repo.List(ctx, inventory.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.List(ctx, inventory.Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	lowOnly, err := repo.List(ctx, inventory.Filter{LowOnly: true})
	require.NoError(t, err)
	require.Len(t, lowOnly, 1)
	assert.Equal(t, low.ID(), lowOnly[0].ID())
}

func TestInventoryRepository_Movements(t *testing.T) {
	repo := NewInventoryRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	item := newItem(t, "HDMI cable", 1, 0)
	require.NoError(t, repo.Create(ctx, item))

	applied, err := item.Withdraw(3, base)
	require.NoError(t, err)
	require.NoError(t, repo.RecordMovement(ctx, inventory.NewMovement(item, inventory.MovementSupply, -3, applied, "call_1", tech, base)))

	applied, err = item.Restock(4, base.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.RecordMovement(ctx, inventory.NewMovement(item, inventory.MovementRestock, 4, applied, "", tech, base.Add(time.Hour))))

	moves, err := repo.ListMovements(ctx, item.ID(), 0)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	assert.Equal(t, inventory.MovementRestock, moves[0].Kind)
	assert.Equal(t, 4, moves[0].StockAfter)

	supply := moves[1]
	assert.Equal(t, "call_1", supply.CallID)
	assert.Equal(t, -3, supply.Requested)
	assert.Equal(t, -1, supply.Applied)
	assert.True(t, supply.Clamped())

	limited, err := repo.ListMovements(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
