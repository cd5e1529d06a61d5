package dto

import (
	"time"

	"github.com/schoolit/servicedesk/internal/domain/school"
)

type SchoolDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	WebhookURL  string    `json:"webhook_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AccountDTO struct {
	ID          string    `json:"id"`
	SchoolID    string    `json:"school_id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeletionReport counts what a school deletion removed.
type DeletionReport struct {
	SchoolID string `json:"school_id"`
	Calls    int64  `json:"calls"`
	Accounts int64  `json:"accounts"`
	Meta     int64  `json:"meta"`
	Batches  int    `json:"batches"`
}

func ToSchoolDTO(s *school.School) *SchoolDTO {
	if s == nil {
		return nil
	}
	return &SchoolDTO{
		ID:          s.ID(),
		Name:        s.Name(),
		Address:     s.Address(),
		ContactName: s.ContactName(),
		WebhookURL:  s.WebhookURL(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func ToSchoolDTOs(schools []*school.School) []*SchoolDTO {
	out := make([]*SchoolDTO, 0, len(schools))
	for _, s := range schools {
		out = append(out, ToSchoolDTO(s))
	}
	return out
}

func ToAccountDTO(a *school.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	return &AccountDTO{
		ID:          a.ID,
		SchoolID:    a.SchoolID,
		Role:        string(a.Role),
		DisplayName: a.DisplayName,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
	}
}

func ToAccountDTOs(accounts []*school.Account) []*AccountDTO {
	out := make([]*AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToAccountDTO(a))
	}
	return out
}
