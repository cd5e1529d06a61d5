package usecases

import (
	"errors"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
)

func translateError(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, inventory.ErrItemNotFound):
		return apperrors.NewNotFoundError("inventory item not found")
	case errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrNegativeStock),
		errors.Is(err, inventory.ErrItemInactive):
		return apperrors.NewValidationError(err.Error())
	}
	return common.InternalOr(err, fallback)
}

func itemChanged(itemID string) pubsub.ChangeEvent {
	return pubsub.ChangeEvent{Topic: pubsub.TopicInventory, ItemID: itemID}
}
