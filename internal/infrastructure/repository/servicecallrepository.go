package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/mappers"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// allowedCallOrderByFields maps public sort keys to columns.
var allowedCallOrderByFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"status":     "status",
	"priority":   "priority",
	"category":   "category",
}

type ServiceCallRepository struct {
	db     *gorm.DB
	mapper mappers.ServiceCallMapper
	logger logger.Interface
}

func NewServiceCallRepository(gdb *gorm.DB, log logger.Interface) *ServiceCallRepository {
	return &ServiceCallRepository{
		db:     gdb,
		mapper: mappers.NewServiceCallMapper(),
		logger: log,
	}
}

func (r *ServiceCallRepository) Create(ctx context.Context, call *servicecall.ServiceCall) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(call)
	model.Version = 1

	if err := tx.Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("service call %s already exists: %w", call.ID(), db.ErrConcurrentModification)
		}
		r.logger.Errorw("failed to create service call", "call_id", call.ID(), "error", err)
		return fmt.Errorf("failed to create service call: %w", err)
	}

	if err := r.insertPending(tx, call); err != nil {
		return err
	}

	call.MarkPersisted(model.Version)
	return nil
}

// Update writes the call row only if nobody else committed since it was
// loaded, then appends the pending child rows. The (call_id, seq) unique
// indexes back up the version check.
func (r *ServiceCallRepository) Update(ctx context.Context, call *servicecall.ServiceCall) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(call)
	nextVersion := call.Version() + 1

	result := tx.Model(&models.ServiceCallModel{}).
		Where("id = ? AND version = ?", model.ID, call.Version()).
		Updates(map[string]any{
			"school_name":          model.SchoolName,
			"status":               model.Status,
			"priority":             model.Priority,
			"category":             model.Category,
			"description":          model.Description,
			"location":             model.Location,
			"room_number":          model.RoomNumber,
			"location_display":     model.LocationDisplay,
			"last_handled_by":      model.LastHandledBy,
			"last_handled_by_name": model.LastHandledByName,
			"last_handled_at":      model.LastHandledAt,
			"updated_at":           model.UpdatedAt,
			"resolved_at":          model.ResolvedAt,
			"closed_at":            model.ClosedAt,
			"version":              nextVersion,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update service call", "call_id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update service call: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("service call %s changed since read: %w", model.ID, db.ErrConcurrentModification)
	}

	if err := r.insertPending(tx, call); err != nil {
		return err
	}

	call.MarkPersisted(nextVersion)
	return nil
}

func (r *ServiceCallRepository) insertPending(tx *gorm.DB, call *servicecall.ServiceCall) error {
	if notes := r.mapper.NotesToModels(call.ID(), call.PendingNotes()); len(notes) > 0 {
		if err := tx.Create(&notes).Error; err != nil {
			return r.childInsertError("notes", call.ID(), err)
		}
	}
	if supplies := r.mapper.SuppliesToModels(call.ID(), call.PendingSuppliedEquipment()); len(supplies) > 0 {
		if err := tx.Create(&supplies).Error; err != nil {
			return r.childInsertError("supplied equipment", call.ID(), err)
		}
	}
	if history := r.mapper.HistoryToModels(call.ID(), call.PendingHistory()); len(history) > 0 {
		if err := tx.Create(&history).Error; err != nil {
			return r.childInsertError("history", call.ID(), err)
		}
	}
	return nil
}

func (r *ServiceCallRepository) childInsertError(kind, callID string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s sequence taken for call %s: %w", kind, callID, db.ErrConcurrentModification)
	}
	r.logger.Errorw("failed to insert call child rows", "kind", kind, "call_id", callID, "error", err)
	return fmt.Errorf("failed to insert %s: %w", kind, err)
}

func (r *ServiceCallRepository) GetByID(ctx context.Context, callID string) (*servicecall.ServiceCall, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.ServiceCallModel
	if err := tx.Where("id = ?", callID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, servicecall.ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to get service call: %w", err)
	}

	children, err := r.loadChildren(tx, []string{model.ID})
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntity(&model, children[model.ID])
}

func (r *ServiceCallRepository) List(ctx context.Context, filter servicecall.Filter) ([]*servicecall.ServiceCall, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	q := tx.Model(&models.ServiceCallModel{}).Scopes(db.BySchool(filter.SchoolID))

	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.RoomNumber != "" {
		q = q.Where("room_number = ?", filter.RoomNumber)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.Category != nil {
		q = q.Where("category = ?", filter.Category.String())
	}
	if filter.OpenOnly {
		q = q.Where("status NOT IN ?", []string{vo.StatusResolved.String(), vo.StatusClosed.String()})
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count service calls: %w", err)
	}

	var rows []*models.ServiceCallModel
	err := q.Order(filter.OrderClause(allowedCallOrderByFields, "created_at DESC")).
		Order("id DESC").
		Scopes(db.Paginate(filter.Offset(), filter.Limit())).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list service calls: %w", err)
	}

	children := map[string]mappers.CallChildren{}
	if filter.WithDetails && len(rows) > 0 {
		ids := make([]string, 0, len(rows))
		for _, m := range rows {
			ids = append(ids, m.ID)
		}
		if children, err = r.loadChildren(tx, ids); err != nil {
			return nil, 0, err
		}
	}

	calls := make([]*servicecall.ServiceCall, 0, len(rows))
	for _, m := range rows {
		call, err := r.mapper.ToEntity(m, children[m.ID])
		if err != nil {
			return nil, 0, fmt.Errorf("failed to map service call %s: %w", m.ID, err)
		}
		calls = append(calls, call)
	}

	return calls, total, nil
}

// loadChildren fetches history, notes and supplies for the given calls in
// one query per table, each ordered by seq.
func (r *ServiceCallRepository) loadChildren(tx *gorm.DB, callIDs []string) (map[string]mappers.CallChildren, error) {
	out := make(map[string]mappers.CallChildren, len(callIDs))

	var history []*models.CallHistoryModel
	if err := tx.Where("call_id IN ?", callIDs).Order("call_id, seq").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load call history: %w", err)
	}
	var notes []*models.CallNoteModel
	if err := tx.Where("call_id IN ?", callIDs).Order("call_id, seq").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to load call notes: %w", err)
	}
	var supplies []*models.CallSuppliedEquipmentModel
	if err := tx.Where("call_id IN ?", callIDs).Order("call_id, seq").Find(&supplies).Error; err != nil {
		return nil, fmt.Errorf("failed to load supplied equipment: %w", err)
	}

	for _, h := range history {
		c := out[h.CallID]
		c.History = append(c.History, h)
		out[h.CallID] = c
	}
	for _, n := range notes {
		c := out[n.CallID]
		c.Notes = append(c.Notes, n)
		out[n.CallID] = c
	}
	for _, s := range supplies {
		c := out[s.CallID]
		c.Supplies = append(c.Supplies, s)
		out[s.CallID] = c
	}
	return out, nil
}

type groupCount struct {
	GroupKey *string
	Count    int64
}

// Stats aggregates counts and the mean resolution time. An empty schoolID
// covers every school.
func (r *ServiceCallRepository) Stats(ctx context.Context, schoolID string) (*servicecall.Stats, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	scoped := func() *gorm.DB {
		return tx.Model(&models.ServiceCallModel{}).Scopes(db.BySchool(schoolID))
	}

	stats := &servicecall.Stats{
		ByStatus:   map[vo.CallStatus]int64{},
		ByCategory: map[vo.Category]int64{},
		ByPriority: map[vo.Priority]int64{},
		ComputedAt: biztime.NowUTC(),
	}

	groupBy := func(column string) ([]groupCount, error) {
		var rows []groupCount
		err := scoped().Select(column + " AS group_key, COUNT(*) AS count").Group(column).Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to group service calls by %s: %w", column, err)
		}
		return rows, nil
	}

	byStatus, err := groupBy("status")
	if err != nil {
		return nil, err
	}
	for _, g := range byStatus {
		status := vo.CallStatus(deref(g.GroupKey))
		stats.ByStatus[status] = g.Count
		stats.Total += g.Count
		if status.IsOpen() {
			stats.Open += g.Count
		}
	}

	byCategory, err := groupBy("category")
	if err != nil {
		return nil, err
	}
	for _, g := range byCategory {
		stats.ByCategory[vo.Category(deref(g.GroupKey))] = g.Count
	}

	byPriority, err := groupBy("priority")
	if err != nil {
		return nil, err
	}
	for _, g := range byPriority {
		stats.ByPriority[vo.Priority(deref(g.GroupKey))] = g.Count
	}

	var avgMillis sql.NullFloat64
	err = scoped().
		Where("resolved_at IS NOT NULL").
		Select("AVG(resolved_at - created_at)").
		Row().
		Scan(&avgMillis)
	if err != nil {
		return nil, fmt.Errorf("failed to compute resolution time: %w", err)
	}
	if avgMillis.Valid {
		stats.AverageResolutionHours = avgMillis.Float64 / 3_600_000
	}

	return stats, nil
}

func (r *ServiceCallRepository) DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (int64, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	schoolCalls := tx.Model(&models.ServiceCallModel{}).Select("id").Where("school_id = ?", schoolID)

	budget := limit
	var rows int64
	for _, child := range []any{&models.CallHistoryModel{}, &models.CallNoteModel{}, &models.CallSuppliedEquipmentModel{}} {
		var ids []string
		if err := tx.Model(child).
			Where("call_id IN (?)", schoolCalls).
			Order("id").
			Limit(budget).
			Pluck("id", &ids).Error; err != nil {
			return 0, rows, fmt.Errorf("failed to select call child rows: %w", err)
		}
		if len(ids) == 0 {
			continue
		}
		result := tx.Where("id IN ?", ids).Delete(child)
		if result.Error != nil {
			return 0, rows, fmt.Errorf("failed to delete call child rows: %w", result.Error)
		}
		rows += result.RowsAffected
		budget -= len(ids)
		if budget <= 0 {
			return 0, rows, nil
		}
	}

	// Child rows are gone; calls take what is left of the budget.
	var ids []string
	if err := tx.Model(&models.ServiceCallModel{}).
		Where("school_id = ?", schoolID).
		Order("id").
		Limit(budget).
		Pluck("id", &ids).Error; err != nil {
		return 0, rows, fmt.Errorf("failed to select calls for deletion: %w", err)
	}
	if len(ids) == 0 {
		return 0, rows, nil
	}

	result := tx.Where("id IN ?", ids).Delete(&models.ServiceCallModel{})
	if result.Error != nil {
		return 0, rows, fmt.Errorf("failed to delete service calls: %w", result.Error)
	}
	return result.RowsAffected, rows + result.RowsAffected, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
