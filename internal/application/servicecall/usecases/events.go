package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
)

func callChanged(c *servicecall.ServiceCall) pubsub.ChangeEvent {
	return pubsub.ChangeEvent{
		Topic:      pubsub.TopicCalls,
		SchoolID:   c.SchoolID(),
		CallID:     c.ID(),
		ClientID:   c.Client().ID,
		RoomNumber: c.Location().RoomNumber,
		Timestamp:  biztime.ToMillis(c.UpdatedAt()),
	}
}

func inventoryChanged(itemID string) pubsub.ChangeEvent {
	return pubsub.ChangeEvent{Topic: pubsub.TopicInventory, ItemID: itemID}
}

// schoolCategories returns the school's category list, or the built-in
// defaults when it never defined one.
func schoolCategories(ctx context.Context, metaRepo school.MetaRepository, schoolID string) ([]vo.CategoryOption, error) {
	opts, err := metaRepo.GetCategories(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return school.CategoriesOrDefault(opts), nil
}
