package calls

import (
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/application/servicecall/usecases"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/domain/shared"
)

const defaultSource = "web"

type LocationRequest struct {
	FloorLabel    string `json:"floor_label"`
	CategoryLabel string `json:"category_label"`
	RoomLabel     string `json:"room_label"`
	RoomNumber    string `json:"room_number"`
}

// CreateCallRequest opens a call on behalf of the calling actor.
type CreateCallRequest struct {
	Category        string          `json:"category" binding:"required"`
	Description     string          `json:"description" binding:"required,max=4000"`
	ClientPhone     string          `json:"client_phone"`
	ClientEmail     string          `json:"client_email" binding:"omitempty,email"`
	Location        LocationRequest `json:"location"`
	LocationDisplay string          `json:"location_display"`
	Source          string          `json:"source"`
}

func (r *CreateCallRequest) ToCommand(schoolID string, actor shared.Actor) usecases.CreateCallCommand {
	source := r.Source
	if source == "" {
		source = defaultSource
	}
	return usecases.CreateCallCommand{
		SchoolID:    schoolID,
		Category:    r.Category,
		Description: r.Description,
		Client: servicecall.Client{
			ID:    actor.ID,
			Name:  actor.DisplayName(),
			Phone: r.ClientPhone,
			Email: r.ClientEmail,
		},
		Location: servicecall.Location{
			FloorLabel:    r.Location.FloorLabel,
			CategoryLabel: r.Location.CategoryLabel,
			RoomLabel:     r.Location.RoomLabel,
			RoomNumber:    r.Location.RoomNumber,
		},
		LocationDisplay: r.LocationDisplay,
		Source:          source,
	}
}

type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Override bool   `json:"override"`
}

type UpdatePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

type UpdateCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

type AddNoteRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

type SupplyRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// SupplyResponse reports what the ledger actually took next to the call.
type SupplyResponse struct {
	ItemID     string       `json:"item_id"`
	Requested  int          `json:"requested"`
	Applied    int          `json:"applied"`
	StockAfter int          `json:"stock_after"`
	Clamped    bool         `json:"clamped"`
	Call       *dto.CallDTO `json:"call"`
}

// ListCallsRequest binds the list filters from the query string.
type ListCallsRequest struct {
	ClientID   string `form:"client_id"`
	RoomNumber string `form:"room"`
	Status     string `form:"status"`
	Category   string `form:"category"`
	OpenOnly   bool   `form:"open_only"`
	Details    bool   `form:"details"`
}

func (r *ListCallsRequest) ToQuery(schoolID string, page, pageSize int) usecases.ListCallsQuery {
	return usecases.ListCallsQuery{
		SchoolID:    schoolID,
		ClientID:    r.ClientID,
		RoomNumber:  r.RoomNumber,
		Status:      r.Status,
		Category:    r.Category,
		OpenOnly:    r.OpenOnly,
		WithDetails: r.Details,
		Page:        page,
		PageSize:    pageSize,
	}
}
