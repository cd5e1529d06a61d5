package school

import (
	"fmt"
	"strings"
	"time"

	"github.com/schoolit/servicedesk/internal/shared/id"
)

type Role string

const (
	RoleTechManager Role = "tech_manager"
	RoleTechnician  Role = "technician"
	RoleSchoolAdmin Role = "school_admin"
	RoleClient      Role = "client"
)

var validRoles = map[Role]bool{
	RoleTechManager: true,
	RoleTechnician:  true,
	RoleSchoolAdmin: true,
	RoleClient:      true,
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

// Account is the minimal record of a user attached to a school. Identity
// and credentials live with the external auth provider.
type Account struct {
	ID          string
	SchoolID    string
	Role        Role
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

func NewAccount(schoolID string, role Role, displayName, email string, now time.Time) (*Account, error) {
	if schoolID == "" {
		return nil, fmt.Errorf("school ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}
	return &Account{
		ID:          id.New(id.PrefixAccount),
		SchoolID:    schoolID,
		Role:        role,
		DisplayName: displayName,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		CreatedAt:   now,
	}, nil
}
