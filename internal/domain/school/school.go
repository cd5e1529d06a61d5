package school

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/schoolit/servicedesk/internal/shared/id"
)

var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrInvalidWebhook = errors.New("webhook URL must be an absolute http(s) URL")
)

// School is the tenant every call, session and account belongs to. The
// optional webhook URL receives call create/update notifications.
type School struct {
	id          string
	name        string
	address     string
	contactName string
	webhookURL  string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSchool(name, address, contactName, webhookURL string, now time.Time) (*School, error) {
	s := &School{
		id:        id.New(id.PrefixSchool),
		createdAt: now,
	}
	if err := s.apply(Settings{Name: &name, Address: &address, ContactName: &contactName, WebhookURL: &webhookURL}, now); err != nil {
		return nil, err
	}
	return s, nil
}

func ReconstructSchool(schoolID, name, address, contactName, webhookURL string, createdAt, updatedAt time.Time) *School {
	return &School{
		id:          schoolID,
		name:        name,
		address:     address,
		contactName: contactName,
		webhookURL:  webhookURL,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *School) ID() string           { return s.id }
func (s *School) Name() string         { return s.name }
func (s *School) Address() string      { return s.address }
func (s *School) ContactName() string  { return s.contactName }
func (s *School) WebhookURL() string   { return s.webhookURL }
func (s *School) CreatedAt() time.Time { return s.createdAt }
func (s *School) UpdatedAt() time.Time { return s.updatedAt }

// Settings holds optional changes; nil fields are left as is. An empty
// WebhookURL disables outbound sync.
type Settings struct {
	Name        *string
	Address     *string
	ContactName *string
	WebhookURL  *string
}

func (s *School) UpdateSettings(u Settings, now time.Time) error {
	return s.apply(u, now)
}

func (s *School) apply(u Settings, now time.Time) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return fmt.Errorf("school name is required")
		}
		s.name = name
	}
	if u.WebhookURL != nil {
		raw := strings.TrimSpace(*u.WebhookURL)
		if err := validateWebhookURL(raw); err != nil {
			return err
		}
		s.webhookURL = raw
	}
	if u.Address != nil {
		s.address = strings.TrimSpace(*u.Address)
	}
	if u.ContactName != nil {
		s.contactName = strings.TrimSpace(*u.ContactName)
	}
	s.updatedAt = now
	return nil
}

func validateWebhookURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidWebhook
	}
	return nil
}
