package usecases

import (
	"errors"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
)

// translateError maps domain sentinels to the error kinds callers see.
// Anything unrecognised becomes an internal error with fallback as message.
func translateError(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, servicecall.ErrCallNotFound):
		return apperrors.NewNotFoundError("service call not found")
	case errors.Is(err, inventory.ErrItemNotFound):
		return apperrors.NewNotFoundError("inventory item not found")
	case errors.Is(err, school.ErrSchoolNotFound):
		return apperrors.NewNotFoundError("school not found")
	case errors.Is(err, inventory.ErrItemInactive),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, servicecall.ErrInvalidQuantity),
		errors.Is(err, servicecall.ErrEmptyNote),
		errors.Is(err, servicecall.ErrDescriptionMissing):
		return apperrors.NewValidationError(err.Error())
	}
	return common.InternalOr(err, fallback)
}
