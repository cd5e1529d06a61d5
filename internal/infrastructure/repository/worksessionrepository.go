package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/mappers"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type WorkSessionRepository struct {
	db     *gorm.DB
	mapper mappers.WorkSessionMapper
	logger logger.Interface
}

func NewWorkSessionRepository(gdb *gorm.DB, log logger.Interface) *WorkSessionRepository {
	return &WorkSessionRepository{
		db:     gdb,
		mapper: mappers.NewWorkSessionMapper(),
		logger: log,
	}
}

// Create inserts an open session. The unique active-technician slot makes
// a second open session for the same technician fail; that surfaces as
// db.ErrConcurrentModification so the caller retries and closes the winner.
func (r *WorkSessionRepository) Create(ctx context.Context, s *worksession.WorkSession) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(r.mapper.ToModel(s)).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("technician %s already has an open session: %w", s.TechID(), db.ErrConcurrentModification)
		}
		r.logger.Errorw("failed to create work session", "tech_id", s.TechID(), "error", err)
		return fmt.Errorf("failed to create work session: %w", err)
	}
	return nil
}

// Close writes clock-out, duration and frees the slot in one statement,
// guarded on the session still being open.
func (r *WorkSessionRepository) Close(ctx context.Context, s *worksession.WorkSession) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(s)

	result := tx.Model(&models.WorkSessionModel{}).
		Where("id = ? AND clock_out IS NULL", model.ID).
		Updates(map[string]any{
			"clock_out":        model.ClockOut,
			"duration_minutes": model.DurationMinutes,
			"active_tech_id":   gorm.Expr("NULL"),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to close work session", "session_id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to close work session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("work session %s closed concurrently: %w", model.ID, db.ErrConcurrentModification)
	}
	return nil
}

func (r *WorkSessionRepository) GetByID(ctx context.Context, sessionID string) (*worksession.WorkSession, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.WorkSessionModel
	if err := tx.Where("id = ?", sessionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worksession.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get work session: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

// GetActiveByTechnician reads through the slot column; nil means none open.
func (r *WorkSessionRepository) GetActiveByTechnician(ctx context.Context, techID string) (*worksession.WorkSession, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.WorkSessionModel
	err := tx.Where("active_tech_id = ?", techID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active work session: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *WorkSessionRepository) scoped(tx *gorm.DB, filter worksession.Filter) *gorm.DB {
	q := tx.Model(&models.WorkSessionModel{}).Scopes(db.BySchool(filter.SchoolID))
	if filter.TechID != "" {
		q = q.Where("tech_id = ?", filter.TechID)
	}
	if filter.DateFrom != "" {
		q = q.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("date <= ?", filter.DateTo)
	}
	return q
}

func (r *WorkSessionRepository) List(ctx context.Context, filter worksession.Filter) ([]*worksession.WorkSession, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := r.scoped(tx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count work sessions: %w", err)
	}

	var rows []*models.WorkSessionModel
	err := r.scoped(tx, filter).
		Order("clock_in DESC").
		Scopes(db.Paginate(filter.Offset(), filter.Limit())).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work sessions: %w", err)
	}

	out := make([]*worksession.WorkSession, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.mapper.ToEntity(m))
	}
	return out, total, nil
}

// HoursByTechnician sums closed sessions only; open ones have no duration yet.
func (r *WorkSessionRepository) HoursByTechnician(ctx context.Context, filter worksession.Filter) ([]worksession.TechnicianHours, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []struct {
		TechID       string
		TechName     string
		Sessions     int64
		TotalMinutes int64
	}
	err := r.scoped(tx, filter).
		Where("clock_out IS NOT NULL").
		Select("tech_id, MAX(tech_name) AS tech_name, COUNT(*) AS sessions, COALESCE(SUM(duration_minutes), 0) AS total_minutes").
		Group("tech_id").
		Order("total_minutes DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum technician hours: %w", err)
	}

	out := make([]worksession.TechnicianHours, 0, len(rows))
	for _, row := range rows {
		out = append(out, worksession.TechnicianHours{
			TechID:       row.TechID,
			TechName:     row.TechName,
			Sessions:     row.Sessions,
			TotalMinutes: row.TotalMinutes,
		})
	}
	return out, nil
}
