package relay

import (
	"time"

	"github.com/schoolit/servicedesk/internal/domain/servicecall"
)

// Action tells the receiving sheet whether to append or overwrite a row.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Envelope is the exact body POSTed to a school's webhook.
type Envelope struct {
	ID      string      `json:"id"`
	Action  Action      `json:"action"`
	Payload CallPayload `json:"payload"`
}

type NotePayload struct {
	ID        string `json:"id"`
	TechID    string `json:"techId"`
	TechName  string `json:"techName"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type LocationPayload struct {
	FloorLabel    string `json:"floorLabel"`
	CategoryLabel string `json:"categoryLabel"`
	RoomLabel     string `json:"roomLabel"`
	RoomNumber    string `json:"roomNumber"`
}

// CallPayload mirrors the call with machine codes for status, priority and
// category. Unset optional values are JSON null.
type CallPayload struct {
	ID                string          `json:"id"`
	SchoolID          string          `json:"schoolId"`
	SchoolName        string          `json:"schoolName"`
	ClientID          string          `json:"clientId"`
	ClientName        string          `json:"clientName"`
	ClientPhone       string          `json:"clientPhone"`
	ClientEmail       string          `json:"clientEmail"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Status            string          `json:"status"`
	Priority          *string         `json:"priority"`
	Location          LocationPayload `json:"location"`
	LocationDisplay   string          `json:"locationDisplay"`
	Source            string          `json:"source"`
	LastHandledBy     string          `json:"lastHandledBy"`
	LastHandledByName string          `json:"lastHandledByName"`
	Notes             []NotePayload   `json:"notes"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
	ResolvedAt        *string         `json:"resolvedAt"`
	ClosedAt          *string         `json:"closedAt"`
}

// BuildEnvelope snapshots call for delivery.
func BuildEnvelope(call *servicecall.ServiceCall, action Action) Envelope {
	var priority *string
	if p := call.Priority(); p.IsSet() {
		s := p.String()
		priority = &s
	}

	notes := make([]NotePayload, 0, len(call.Notes()))
	for _, n := range call.Notes() {
		notes = append(notes, NotePayload{
			ID:        n.ID(),
			TechID:    n.TechID(),
			TechName:  n.TechName(),
			Text:      n.Text(),
			Timestamp: formatTime(n.Timestamp()),
		})
	}

	client := call.Client()
	loc := call.Location()

	return Envelope{
		ID:     call.ID(),
		Action: action,
		Payload: CallPayload{
			ID:          call.ID(),
			SchoolID:    call.SchoolID(),
			SchoolName:  call.SchoolName(),
			ClientID:    client.ID,
			ClientName:  client.Name,
			ClientPhone: client.Phone,
			ClientEmail: client.Email,
			Description: call.Description(),
			Category:    call.Category().String(),
			Status:      call.Status().String(),
			Priority:    priority,
			Location: LocationPayload{
				FloorLabel:    loc.FloorLabel,
				CategoryLabel: loc.CategoryLabel,
				RoomLabel:     loc.RoomLabel,
				RoomNumber:    loc.RoomNumber,
			},
			LocationDisplay:   call.LocationDisplay(),
			Source:            call.Source(),
			LastHandledBy:     call.LastHandledBy(),
			LastHandledByName: call.LastHandledByName(),
			Notes:             notes,
			CreatedAt:         formatTime(call.CreatedAt()),
			UpdatedAt:         formatTime(call.UpdatedAt()),
			ResolvedAt:        formatTimePtr(call.ResolvedAt()),
			ClosedAt:          formatTimePtr(call.ClosedAt()),
		},
	}
}

// isoMillis matches the ISO-8601 form spreadsheets parse natively.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
