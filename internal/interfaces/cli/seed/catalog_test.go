package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	invusecases "github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	schoolusecases "github.com/schoolit/servicedesk/internal/application/school/usecases"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/repository"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

const catalogYAML = `
schools:
  - name: Ort Herzliya
    contact_name: Dana
    categories:
      - value: printer
        label: Printers
      - value: projector
        label: Projectors
    locations:
      floors:
        - id: f1
          label: Ground
          categories:
            - id: labs
              label: Labs
              rooms:
                - id: r1
                  roomNumber: "104"
                  label: Chemistry
  - name: Bialik
inventory:
  - name: HDMI cable
    category: cables
    sku: HDMI-2M
    in_stock: 12
    min_stock: 4
  - name: Toner
    category: consumables
    in_stock: 3
    min_stock: 2
`

func newSeeder(t *testing.T) (*Seeder, *schoolusecases.MetaUseCase, *schoolusecases.GetSchoolUseCase) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := logger.NewNop()
	schoolRepo := repository.NewSchoolRepository(gdb, log)
	metaRepo := repository.NewMetaRepository(gdb, log)
	itemRepo := repository.NewInventoryRepository(gdb, log)
	pub := pubsub.NopPublisher{}

	meta := schoolusecases.NewMetaUseCase(schoolRepo, metaRepo, pub, log)
	get := schoolusecases.NewGetSchoolUseCase(schoolRepo, log)
	s := NewSeeder(
		schoolusecases.NewCreateSchoolUseCase(schoolRepo, pub, log),
		get,
		meta,
		invusecases.NewAddItemUseCase(itemRepo, pub, log),
		invusecases.NewListItemsUseCase(itemRepo, log),
		log,
	)
	return s, meta, get
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))
	return path
}

func TestSeeder_ApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, meta, get := newSeeder(t)

	cat, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)
	require.Len(t, cat.Schools, 2)

	report, err := s.Apply(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, Report{SchoolsCreated: 2, ItemsCreated: 2}, *report)

	schools, err := get.List(ctx)
	require.NoError(t, err)
	var ortID string
	for _, sch := range schools {
		if sch.Name == "Ort Herzliya" {
			ortID = sch.ID
		}
	}
	require.NotEmpty(t, ortID)

	cats, err := meta.GetCategories(ctx, ortID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "projector", cats[1].Value.String())

	locs, err := meta.GetLocations(ctx, ortID)
	require.NoError(t, err)
	require.Len(t, locs.Floors, 1)
	assert.Equal(t, "104", locs.Floors[0].Categories[0].Rooms[0].RoomNumber)

	report, err = s.Apply(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, Report{SchoolsSkipped: 2, ItemsSkipped: 2}, *report)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("schools: [\n"), 0o600))
	_, err = LoadCatalog(bad)
	assert.Error(t, err)
}
