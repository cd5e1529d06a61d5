package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/schoolit/servicedesk/internal/domain/school"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/mappers"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type SchoolRepository struct {
	db     *gorm.DB
	mapper mappers.SchoolMapper
	logger logger.Interface
}

func NewSchoolRepository(gdb *gorm.DB, log logger.Interface) *SchoolRepository {
	return &SchoolRepository{
		db:     gdb,
		mapper: mappers.NewSchoolMapper(),
		logger: log,
	}
}

func (r *SchoolRepository) Create(ctx context.Context, s *school.School) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(r.mapper.ToModel(s)).Error; err != nil {
		r.logger.Errorw("failed to create school", "school_id", s.ID(), "error", err)
		return fmt.Errorf("failed to create school: %w", err)
	}
	return nil
}

func (r *SchoolRepository) Update(ctx context.Context, s *school.School) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(s)

	result := tx.Model(&models.SchoolModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":         model.Name,
			"address":      model.Address,
			"contact_name": model.ContactName,
			"webhook_url":  model.WebhookURL,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update school", "school_id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update school: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return school.ErrSchoolNotFound
	}
	return nil
}

func (r *SchoolRepository) GetByID(ctx context.Context, schoolID string) (*school.School, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.SchoolModel
	if err := tx.Where("id = ?", schoolID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, school.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *SchoolRepository) List(ctx context.Context) ([]*school.School, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.SchoolModel
	if err := tx.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}

	out := make([]*school.School, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.mapper.ToEntity(m))
	}
	return out, nil
}

func (r *SchoolRepository) Delete(ctx context.Context, schoolID string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Where("id = ?", schoolID).Delete(&models.SchoolModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete school: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return school.ErrSchoolNotFound
	}
	return nil
}

// MetaRepository keeps one JSON payload per (school, kind).
type MetaRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMetaRepository(gdb *gorm.DB, log logger.Interface) *MetaRepository {
	return &MetaRepository{db: gdb, logger: log}
}

func (r *MetaRepository) load(ctx context.Context, schoolID string, kind school.MetaKind, dst any) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.SchoolMetaModel
	err := tx.Where("school_id = ? AND kind = ?", schoolID, string(kind)).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get school %s: %w", kind, err)
	}
	if err := json.Unmarshal(model.Payload, dst); err != nil {
		return false, fmt.Errorf("failed to decode school %s: %w", kind, err)
	}
	return true, nil
}

func (r *MetaRepository) save(ctx context.Context, schoolID string, kind school.MetaKind, payload any) error {
	tx := db.GetTxFromContext(ctx, r.db)

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode school %s: %w", kind, err)
	}
	model := &models.SchoolMetaModel{
		SchoolID:  schoolID,
		Kind:      string(kind),
		Payload:   datatypes.JSON(raw),
		UpdatedAt: biztime.ToMillis(biztime.NowUTC()),
	}

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "school_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save school metadata", "school_id", schoolID, "kind", kind, "error", err)
		return fmt.Errorf("failed to save school %s: %w", kind, err)
	}
	return nil
}

func (r *MetaRepository) GetCategories(ctx context.Context, schoolID string) ([]vo.CategoryOption, error) {
	var opts []vo.CategoryOption
	found, err := r.load(ctx, schoolID, school.MetaCategories, &opts)
	if err != nil || !found {
		return nil, err
	}
	return opts, nil
}

func (r *MetaRepository) SaveCategories(ctx context.Context, schoolID string, opts []vo.CategoryOption) error {
	return r.save(ctx, schoolID, school.MetaCategories, opts)
}

func (r *MetaRepository) GetLocations(ctx context.Context, schoolID string) (*school.Locations, error) {
	var locs school.Locations
	found, err := r.load(ctx, schoolID, school.MetaLocations, &locs)
	if err != nil || !found {
		return nil, err
	}
	return &locs, nil
}

func (r *MetaRepository) SaveLocations(ctx context.Context, schoolID string, locs school.Locations) error {
	return r.save(ctx, schoolID, school.MetaLocations, locs)
}

func (r *MetaRepository) DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var kinds []string
	if err := tx.Model(&models.SchoolMetaModel{}).
		Where("school_id = ?", schoolID).
		Limit(limit).
		Pluck("kind", &kinds).Error; err != nil {
		return 0, fmt.Errorf("failed to select school metadata: %w", err)
	}
	if len(kinds) == 0 {
		return 0, nil
	}

	result := tx.Where("school_id = ? AND kind IN ?", schoolID, kinds).Delete(&models.SchoolMetaModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete school metadata: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type AccountRepository struct {
	db     *gorm.DB
	mapper mappers.SchoolMapper
	logger logger.Interface
}

func NewAccountRepository(gdb *gorm.DB, log logger.Interface) *AccountRepository {
	return &AccountRepository{
		db:     gdb,
		mapper: mappers.NewSchoolMapper(),
		logger: log,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *school.Account) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(r.mapper.AccountToModel(a)).Error; err != nil {
		r.logger.Errorw("failed to create account", "school_id", a.SchoolID, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) ListBySchool(ctx context.Context, schoolID string) ([]*school.Account, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.AccountModel
	if err := tx.Where("school_id = ?", schoolID).Order("display_name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	out := make([]*school.Account, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.mapper.AccountToEntity(m))
	}
	return out, nil
}

func (r *AccountRepository) DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var ids []string
	if err := tx.Model(&models.AccountModel{}).
		Where("school_id = ?", schoolID).
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to select accounts: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := tx.Where("id IN ?", ids).Delete(&models.AccountModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete accounts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
