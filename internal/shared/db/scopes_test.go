package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopes(t *testing.T) {
	gdb := setupTestDB(t)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, gdb.Create(&counterRow{ID: id, Value: i}).Error)
	}

	var page []counterRow
	require.NoError(t, gdb.Order("id").Scopes(Paginate(1, 1)).Find(&page).Error)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	var all []counterRow
	require.NoError(t, gdb.Scopes(BySchool("")).Find(&all).Error)
	assert.Len(t, all, 3)
}
