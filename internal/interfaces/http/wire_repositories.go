package http

import (
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/infrastructure/repository"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	schoolRepo  *repository.SchoolRepository
	metaRepo    *repository.MetaRepository
	accountRepo *repository.AccountRepository
	callRepo    *repository.ServiceCallRepository
	itemRepo    *repository.InventoryRepository
	sessionRepo *repository.WorkSessionRepository
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		schoolRepo:  repository.NewSchoolRepository(gdb, log),
		metaRepo:    repository.NewMetaRepository(gdb, log),
		accountRepo: repository.NewAccountRepository(gdb, log),
		callRepo:    repository.NewServiceCallRepository(gdb, log),
		itemRepo:    repository.NewInventoryRepository(gdb, log),
		sessionRepo: repository.NewWorkSessionRepository(gdb, log),
	}
}
