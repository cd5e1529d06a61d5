package dto

import (
	"slices"
	"time"

	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/shared/mapper"
)

type CallDTO struct {
	ID                string       `json:"id"`
	SchoolID          string       `json:"school_id"`
	SchoolName        string       `json:"school_name"`
	Status            string       `json:"status"`
	Priority          *string      `json:"priority"`
	Category          string       `json:"category"`
	Description       string       `json:"description"`
	ClientID          string       `json:"client_id"`
	ClientName        string       `json:"client_name"`
	ClientPhone       string       `json:"client_phone,omitempty"`
	ClientEmail       string       `json:"client_email,omitempty"`
	Location          LocationDTO  `json:"location"`
	LocationDisplay   string       `json:"location_display"`
	Source            string       `json:"source"`
	LastHandledBy     string       `json:"last_handled_by,omitempty"`
	LastHandledByName string       `json:"last_handled_by_name,omitempty"`
	LastHandledAt     *time.Time   `json:"last_handled_at"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	ResolvedAt        *time.Time   `json:"resolved_at"`
	ClosedAt          *time.Time   `json:"closed_at"`
	Version           int          `json:"version"`
	Notes             []NoteDTO    `json:"notes"`
	SuppliedEquipment []SupplyDTO  `json:"supplied_equipment"`
	History           []HistoryDTO `json:"history"`
}

type LocationDTO struct {
	FloorLabel    string `json:"floor_label"`
	CategoryLabel string `json:"category_label"`
	RoomLabel     string `json:"room_label"`
	RoomNumber    string `json:"room_number"`
}

type NoteDTO struct {
	ID        string    `json:"id"`
	TechID    string    `json:"tech_id"`
	TechName  string    `json:"tech_name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type SupplyDTO struct {
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	TechID    string    `json:"tech_id"`
	TechName  string    `json:"tech_name"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryDTO struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	Description     string    `json:"description"`
	PerformedBy     string    `json:"performed_by"`
	PerformedByName string    `json:"performed_by_name"`
	OldValue        *string   `json:"old_value,omitempty"`
	NewValue        *string   `json:"new_value,omitempty"`
	OffGraph        bool      `json:"off_graph,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type StatsDTO struct {
	Total                  int64            `json:"total"`
	Open                   int64            `json:"open"`
	ByStatus               map[string]int64 `json:"by_status"`
	ByCategory             map[string]int64 `json:"by_category"`
	ByPriority             map[string]int64 `json:"by_priority"`
	AverageResolutionHours float64          `json:"average_resolution_hours"`
	ComputedAt             time.Time        `json:"computed_at"`
}

func ToCallDTO(c *servicecall.ServiceCall) *CallDTO {
	if c == nil {
		return nil
	}

	client := c.Client()
	loc := c.Location()

	var priority *string
	if c.Priority().IsSet() {
		p := c.Priority().String()
		priority = &p
	}

	return &CallDTO{
		ID:                c.ID(),
		SchoolID:          c.SchoolID(),
		SchoolName:        c.SchoolName(),
		Status:            c.Status().String(),
		Priority:          priority,
		Category:          c.Category().String(),
		Description:       c.Description(),
		ClientID:          client.ID,
		ClientName:        client.Name,
		ClientPhone:       client.Phone,
		ClientEmail:       client.Email,
		Location:          LocationDTO{FloorLabel: loc.FloorLabel, CategoryLabel: loc.CategoryLabel, RoomLabel: loc.RoomLabel, RoomNumber: loc.RoomNumber},
		LocationDisplay:   c.LocationDisplay(),
		Source:            c.Source(),
		LastHandledBy:     c.LastHandledBy(),
		LastHandledByName: c.LastHandledByName(),
		LastHandledAt:     c.LastHandledAt(),
		CreatedAt:         c.CreatedAt(),
		UpdatedAt:         c.UpdatedAt(),
		ResolvedAt:        c.ResolvedAt(),
		ClosedAt:          c.ClosedAt(),
		Version:           c.Version(),
		Notes:             emptyIfNil(mapper.MapSlice(c.Notes(), toNoteDTO)),
		SuppliedEquipment: emptyIfNil(mapper.MapSlice(c.SuppliedEquipment(), toSupplyDTO)),
		History:           emptyIfNil(mapper.MapSlice(c.History(), toHistoryDTO)),
	}
}

func ToCallDTOs(calls []*servicecall.ServiceCall) []*CallDTO {
	out := make([]*CallDTO, 0, len(calls))
	for _, c := range calls {
		out = append(out, ToCallDTO(c))
	}
	return out
}

// NewestFirst returns the history in display order. Storage order is oldest
// first.
func NewestFirst(history []HistoryDTO) []HistoryDTO {
	out := slices.Clone(history)
	slices.Reverse(out)
	return out
}

func ToStatsDTO(s *servicecall.Stats) *StatsDTO {
	if s == nil {
		return nil
	}
	out := &StatsDTO{
		Total:                  s.Total,
		Open:                   s.Open,
		ByStatus:               make(map[string]int64, len(s.ByStatus)),
		ByCategory:             make(map[string]int64, len(s.ByCategory)),
		ByPriority:             make(map[string]int64, len(s.ByPriority)),
		AverageResolutionHours: s.AverageResolutionHours,
		ComputedAt:             s.ComputedAt,
	}
	for k, v := range s.ByStatus {
		out.ByStatus[k.String()] = v
	}
	for k, v := range s.ByCategory {
		out.ByCategory[k.String()] = v
	}
	for k, v := range s.ByPriority {
		key := k.String()
		if !k.IsSet() {
			key = "unset"
		}
		out.ByPriority[key] = v
	}
	return out
}

func toNoteDTO(n *servicecall.Note) NoteDTO {
	return NoteDTO{
		ID:        n.ID(),
		TechID:    n.TechID(),
		TechName:  n.TechName(),
		Text:      n.Text(),
		Timestamp: n.Timestamp(),
	}
}

func toSupplyDTO(r *servicecall.SuppliedEquipmentRecord) SupplyDTO {
	return SupplyDTO{
		ItemID:    r.ItemID(),
		ItemName:  r.ItemName(),
		Quantity:  r.Quantity(),
		TechID:    r.TechID(),
		TechName:  r.TechName(),
		Timestamp: r.Timestamp(),
	}
}

func toHistoryDTO(h *servicecall.HistoryEntry) HistoryDTO {
	return HistoryDTO{
		ID:              h.ID(),
		Action:          h.Action().String(),
		Description:     h.Description(),
		PerformedBy:     h.PerformedBy(),
		PerformedByName: h.PerformedByName(),
		OldValue:        h.OldValue(),
		NewValue:        h.NewValue(),
		OffGraph:        h.OffGraph(),
		Timestamp:       h.Timestamp(),
	}
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
