package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/domain/school"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// MetaUseCase reads and replaces a school's category list and location
// tree. Reads fall back to the built-in defaults until a school saves its own.
type MetaUseCase struct {
	schoolRepo school.Repository
	metaRepo   school.MetaRepository
	publisher  pubsub.ChangePublisher
	logger     logger.Interface
}

func NewMetaUseCase(
	schoolRepo school.Repository,
	metaRepo school.MetaRepository,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *MetaUseCase {
	return &MetaUseCase{
		schoolRepo: schoolRepo,
		metaRepo:   metaRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *MetaUseCase) GetCategories(ctx context.Context, schoolID string) ([]vo.CategoryOption, error) {
	if _, err := uc.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, translateError(err, "failed to get categories")
	}
	opts, err := uc.metaRepo.GetCategories(ctx, schoolID)
	if err != nil {
		uc.logger.Errorw("failed to get categories", "school_id", schoolID, "error", err)
		return nil, translateError(err, "failed to get categories")
	}
	return school.CategoriesOrDefault(opts), nil
}

func (uc *MetaUseCase) UpdateCategories(ctx context.Context, schoolID string, opts []vo.CategoryOption) ([]vo.CategoryOption, error) {
	uc.logger.Infow("executing update categories use case", "school_id", schoolID, "count", len(opts))

	if err := vo.ValidateOptions(opts); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if _, err := uc.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, translateError(err, "failed to update categories")
	}
	if err := uc.metaRepo.SaveCategories(ctx, schoolID, opts); err != nil {
		uc.logger.Errorw("failed to save categories", "school_id", schoolID, "error", err)
		return nil, translateError(err, "failed to update categories")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, schoolChanged(schoolID))
	return opts, nil
}

func (uc *MetaUseCase) GetLocations(ctx context.Context, schoolID string) (*school.Locations, error) {
	if _, err := uc.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, translateError(err, "failed to get locations")
	}
	locs, err := uc.metaRepo.GetLocations(ctx, schoolID)
	if err != nil {
		uc.logger.Errorw("failed to get locations", "school_id", schoolID, "error", err)
		return nil, translateError(err, "failed to get locations")
	}
	if locs == nil {
		d := school.DefaultLocations()
		return &d, nil
	}
	return locs, nil
}

func (uc *MetaUseCase) UpdateLocations(ctx context.Context, schoolID string, locs school.Locations) (*school.Locations, error) {
	uc.logger.Infow("executing update locations use case", "school_id", schoolID, "floors", len(locs.Floors))

	if err := locs.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if _, err := uc.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, translateError(err, "failed to update locations")
	}
	if err := uc.metaRepo.SaveLocations(ctx, schoolID, locs); err != nil {
		uc.logger.Errorw("failed to save locations", "school_id", schoolID, "error", err)
		return nil, translateError(err, "failed to update locations")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, schoolChanged(schoolID))
	return &locs, nil
}
