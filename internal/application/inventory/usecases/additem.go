package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/inventory/dto"
	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type AddItemCommand struct {
	Name     string
	Category string
	SKU      string
	InStock  int
	MinStock int
}

// AddItemUseCase registers a new, active inventory item.
type AddItemUseCase struct {
	itemRepo  inventory.Repository
	publisher pubsub.ChangePublisher
	clock     biztime.Clock
	logger    logger.Interface
}

func NewAddItemUseCase(itemRepo inventory.Repository, publisher pubsub.ChangePublisher, logger logger.Interface) *AddItemUseCase {
	return &AddItemUseCase{
		itemRepo:  itemRepo,
		publisher: publisher,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *AddItemUseCase) Execute(ctx context.Context, cmd AddItemCommand) (*dto.ItemDTO, error) {
	uc.logger.Infow("executing add item use case", "name", cmd.Name, "category", cmd.Category)

	category, err := inventory.NewCategory(cmd.Category)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	item, err := inventory.NewItem(cmd.Name, category, cmd.SKU, cmd.InStock, cmd.MinStock, uc.clock())
	if err != nil {
		uc.logger.Warnw("invalid add item command", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		uc.logger.Errorw("failed to create inventory item", "name", cmd.Name, "error", err)
		return nil, translateError(err, "failed to create inventory item")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, itemChanged(item.ID()))

	uc.logger.Infow("inventory item created successfully", "item_id", item.ID())
	return dto.ToItemDTO(item), nil
}
