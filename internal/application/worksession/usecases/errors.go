package usecases

import (
	"errors"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
)

func translateError(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, worksession.ErrSessionNotFound):
		return apperrors.NewNotFoundError("work session not found")
	case errors.Is(err, school.ErrSchoolNotFound):
		return apperrors.NewNotFoundError("school not found")
	case errors.Is(err, worksession.ErrSessionClosed):
		return apperrors.NewValidationError(err.Error())
	}
	return common.InternalOr(err, fallback)
}

func sessionChanged(s *worksession.WorkSession) pubsub.ChangeEvent {
	return pubsub.ChangeEvent{
		Topic:     pubsub.TopicSessions,
		SchoolID:  s.SchoolID(),
		TechID:    s.TechID(),
		SessionID: s.ID(),
	}
}
