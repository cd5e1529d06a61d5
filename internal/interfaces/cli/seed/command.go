package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	invusecases "github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	schoolusecases "github.com/schoolit/servicedesk/internal/application/school/usecases"
	"github.com/schoolit/servicedesk/internal/infrastructure/config"
	"github.com/schoolit/servicedesk/internal/infrastructure/database"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/repository"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

var (
	env        string
	configPath string
	seedFile   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load schools and inventory from a catalog file",
		Long:  `Create the schools, category lists, location trees and inventory items listed in a YAML catalog. Entries that already exist are skipped.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "./configs/seed.yaml", "Path to the seed catalog")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	cat, err := LoadCatalog(seedFile)
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	gdb := database.Get()
	schoolRepo := repository.NewSchoolRepository(gdb, log)
	metaRepo := repository.NewMetaRepository(gdb, log)
	itemRepo := repository.NewInventoryRepository(gdb, log)

	// Nothing subscribes in this process; running servers pick the data up
	// on their next read.
	publisher := pubsub.NopPublisher{}

	seeder := NewSeeder(
		schoolusecases.NewCreateSchoolUseCase(schoolRepo, publisher, log),
		schoolusecases.NewGetSchoolUseCase(schoolRepo, log),
		schoolusecases.NewMetaUseCase(schoolRepo, metaRepo, publisher, log),
		invusecases.NewAddItemUseCase(itemRepo, publisher, log),
		invusecases.NewListItemsUseCase(itemRepo, log),
		log,
	)

	report, err := seeder.Apply(context.Background(), cat)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Infow("seed completed",
		"schools_created", report.SchoolsCreated,
		"schools_skipped", report.SchoolsSkipped,
		"items_created", report.ItemsCreated,
		"items_skipped", report.ItemsSkipped,
	)
	return nil
}
