package usecases

import (
	"errors"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
)

func translateError(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, school.ErrSchoolNotFound):
		return apperrors.NewNotFoundError("school not found")
	case errors.Is(err, school.ErrInvalidWebhook):
		return apperrors.NewValidationError(err.Error())
	}
	return common.InternalOr(err, fallback)
}

func schoolChanged(schoolID string) pubsub.ChangeEvent {
	return pubsub.ChangeEvent{Topic: pubsub.TopicSchools, SchoolID: schoolID}
}
