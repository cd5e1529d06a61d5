package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/mapper"
)

// CallChildren groups the child rows loaded for one call, each in seq order.
type CallChildren struct {
	History  []*models.CallHistoryModel
	Notes    []*models.CallNoteModel
	Supplies []*models.CallSuppliedEquipmentModel
}

// ServiceCallMapper converts between the ServiceCall aggregate and its rows.
type ServiceCallMapper interface {
	ToEntity(model *models.ServiceCallModel, children CallChildren) (*servicecall.ServiceCall, error)
	ToModel(entity *servicecall.ServiceCall) *models.ServiceCallModel
	HistoryToModels(callID string, entries []*servicecall.HistoryEntry) []*models.CallHistoryModel
	NotesToModels(callID string, notes []*servicecall.Note) []*models.CallNoteModel
	SuppliesToModels(callID string, records []*servicecall.SuppliedEquipmentRecord) []*models.CallSuppliedEquipmentModel
}

type ServiceCallMapperImpl struct{}

func NewServiceCallMapper() ServiceCallMapper {
	return &ServiceCallMapperImpl{}
}

func (m *ServiceCallMapperImpl) ToEntity(model *models.ServiceCallModel, children CallChildren) (*servicecall.ServiceCall, error) {
	if model == nil {
		return nil, nil
	}

	priority := vo.PriorityNone
	if model.Priority != nil {
		priority = vo.Priority(*model.Priority)
	}
	loc := model.Location.Data()

	call, err := servicecall.ReconstructServiceCall(servicecall.ReconstructParams{
		ID:          model.ID,
		SchoolID:    model.SchoolID,
		SchoolName:  model.SchoolName,
		Status:      vo.CallStatus(model.Status),
		Priority:    priority,
		Category:    vo.Category(model.Category),
		Description: model.Description,
		Client: servicecall.Client{
			ID:    model.ClientID,
			Name:  model.ClientName,
			Phone: model.ClientPhone,
			Email: model.ClientEmail,
		},
		Location: servicecall.Location{
			FloorLabel:    loc.FloorLabel,
			CategoryLabel: loc.CategoryLabel,
			RoomLabel:     loc.RoomLabel,
			RoomNumber:    loc.RoomNumber,
		},
		LocationDisplay:   model.LocationDisplay,
		Source:            model.Source,
		Notes:             mapper.MapSlice(children.Notes, noteToEntity),
		SuppliedEquipment: mapper.MapSlice(children.Supplies, supplyToEntity),
		History:           mapper.MapSlice(children.History, historyToEntity),
		LastHandledBy:     model.LastHandledBy,
		LastHandledByName: model.LastHandledByName,
		LastHandledAt:     biztime.TimePtr(model.LastHandledAt),
		CreatedAt:         biztime.FromMillis(model.CreatedAt),
		UpdatedAt:         biztime.FromMillis(model.UpdatedAt),
		ResolvedAt:        biztime.TimePtr(model.ResolvedAt),
		ClosedAt:          biztime.TimePtr(model.ClosedAt),
		Version:           model.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct service call entity: %w", err)
	}
	return call, nil
}

func (m *ServiceCallMapperImpl) ToModel(entity *servicecall.ServiceCall) *models.ServiceCallModel {
	if entity == nil {
		return nil
	}

	var priority *string
	if p := entity.Priority(); p.IsSet() {
		s := p.String()
		priority = &s
	}
	loc := entity.Location()
	client := entity.Client()

	return &models.ServiceCallModel{
		ID:          entity.ID(),
		SchoolID:    entity.SchoolID(),
		SchoolName:  entity.SchoolName(),
		Status:      entity.Status().String(),
		Priority:    priority,
		Category:    entity.Category().String(),
		Description: entity.Description(),
		ClientID:    client.ID,
		ClientName:  client.Name,
		ClientPhone: client.Phone,
		ClientEmail: client.Email,
		Location: datatypes.NewJSONType(models.LocationJSON{
			FloorLabel:    loc.FloorLabel,
			CategoryLabel: loc.CategoryLabel,
			RoomLabel:     loc.RoomLabel,
			RoomNumber:    loc.RoomNumber,
		}),
		RoomNumber:        loc.RoomNumber,
		LocationDisplay:   entity.LocationDisplay(),
		Source:            entity.Source(),
		LastHandledBy:     entity.LastHandledBy(),
		LastHandledByName: entity.LastHandledByName(),
		LastHandledAt:     biztime.MillisPtr(entity.LastHandledAt()),
		CreatedAt:         biztime.ToMillis(entity.CreatedAt()),
		UpdatedAt:         biztime.ToMillis(entity.UpdatedAt()),
		ResolvedAt:        biztime.MillisPtr(entity.ResolvedAt()),
		ClosedAt:          biztime.MillisPtr(entity.ClosedAt()),
		Version:           entity.Version(),
	}
}

func (m *ServiceCallMapperImpl) HistoryToModels(callID string, entries []*servicecall.HistoryEntry) []*models.CallHistoryModel {
	return mapper.MapSlice(entries, func(e *servicecall.HistoryEntry) *models.CallHistoryModel {
		return &models.CallHistoryModel{
			ID:              e.ID(),
			CallID:          callID,
			Seq:             e.Seq(),
			Action:          e.Action().String(),
			Description:     e.Description(),
			PerformedBy:     e.PerformedBy(),
			PerformedByName: e.PerformedByName(),
			OldValue:        e.OldValue(),
			NewValue:        e.NewValue(),
			OffGraph:        e.OffGraph(),
			RecordedAt:      biztime.ToMillis(e.Timestamp()),
		}
	})
}

func (m *ServiceCallMapperImpl) NotesToModels(callID string, notes []*servicecall.Note) []*models.CallNoteModel {
	return mapper.MapSlice(notes, func(n *servicecall.Note) *models.CallNoteModel {
		return &models.CallNoteModel{
			ID:         n.ID(),
			CallID:     callID,
			Seq:        n.Seq(),
			TechID:     n.TechID(),
			TechName:   n.TechName(),
			Text:       n.Text(),
			RecordedAt: biztime.ToMillis(n.Timestamp()),
		}
	})
}

func (m *ServiceCallMapperImpl) SuppliesToModels(callID string, records []*servicecall.SuppliedEquipmentRecord) []*models.CallSuppliedEquipmentModel {
	return mapper.MapSlice(records, func(r *servicecall.SuppliedEquipmentRecord) *models.CallSuppliedEquipmentModel {
		return &models.CallSuppliedEquipmentModel{
			ID:         r.ID(),
			CallID:     callID,
			Seq:        r.Seq(),
			ItemID:     r.ItemID(),
			ItemName:   r.ItemName(),
			Quantity:   r.Quantity(),
			TechID:     r.TechID(),
			TechName:   r.TechName(),
			RecordedAt: biztime.ToMillis(r.Timestamp()),
		}
	})
}

func historyToEntity(h *models.CallHistoryModel) *servicecall.HistoryEntry {
	return servicecall.ReconstructHistoryEntry(
		h.ID, h.Seq,
		vo.HistoryAction(h.Action),
		h.Description,
		h.PerformedBy, h.PerformedByName,
		h.OldValue, h.NewValue,
		h.OffGraph,
		biztime.FromMillis(h.RecordedAt),
	)
}

func noteToEntity(n *models.CallNoteModel) *servicecall.Note {
	return servicecall.ReconstructNote(n.ID, n.Seq, n.TechID, n.TechName, n.Text, biztime.FromMillis(n.RecordedAt))
}

func supplyToEntity(s *models.CallSuppliedEquipmentModel) *servicecall.SuppliedEquipmentRecord {
	return servicecall.ReconstructSuppliedEquipmentRecord(
		s.ID, s.Seq,
		s.ItemID, s.ItemName,
		s.Quantity,
		s.TechID, s.TechName,
		biztime.FromMillis(s.RecordedAt),
	)
}
