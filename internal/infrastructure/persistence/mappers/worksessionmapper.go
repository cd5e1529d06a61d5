package mappers

import (
	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
)

type WorkSessionMapper interface {
	ToEntity(model *models.WorkSessionModel) *worksession.WorkSession
	ToModel(entity *worksession.WorkSession) *models.WorkSessionModel
}

type WorkSessionMapperImpl struct{}

func NewWorkSessionMapper() WorkSessionMapper {
	return &WorkSessionMapperImpl{}
}

func (m *WorkSessionMapperImpl) ToEntity(model *models.WorkSessionModel) *worksession.WorkSession {
	if model == nil {
		return nil
	}
	return worksession.ReconstructWorkSession(
		model.ID,
		model.TechID,
		model.TechName,
		model.SchoolID,
		model.SchoolName,
		model.Date,
		biztime.FromMillis(model.ClockIn),
		biztime.TimePtr(model.ClockOut),
		model.DurationMinutes,
	)
}

// ToModel fills ActiveTechID only while the session is open.
func (m *WorkSessionMapperImpl) ToModel(entity *worksession.WorkSession) *models.WorkSessionModel {
	if entity == nil {
		return nil
	}

	var slot *string
	if entity.IsActive() {
		techID := entity.TechID()
		slot = &techID
	}

	return &models.WorkSessionModel{
		ID:              entity.ID(),
		TechID:          entity.TechID(),
		TechName:        entity.TechName(),
		SchoolID:        entity.SchoolID(),
		SchoolName:      entity.SchoolName(),
		Date:            entity.Date(),
		ClockIn:         biztime.ToMillis(entity.ClockInAt()),
		ClockOut:        biztime.MillisPtr(entity.ClockOutAt()),
		DurationMinutes: entity.DurationMinutes(),
		ActiveTechID:    slot,
	}
}
