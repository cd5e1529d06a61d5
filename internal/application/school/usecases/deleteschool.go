package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/school/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

const defaultDeleteBatchSize = 400

// batchDeleter removes up to limit rows owned by a school. counted is what
// the report tallies; rows is what the batch bound applies to.
type batchDeleter func(ctx context.Context, schoolID string, limit int) (counted, rows int64, err error)

func rowsOnly(del func(context.Context, string, int) (int64, error)) batchDeleter {
	return func(ctx context.Context, schoolID string, limit int) (int64, int64, error) {
		n, err := del(ctx, schoolID, limit)
		return n, n, err
	}
}

// DeleteSchoolUseCase removes a school and everything it owns. Rows are
// deleted in bounded batches, each in its own transaction, so a large school
// never holds one long write lock. Work sessions stay as payroll history.
type DeleteSchoolUseCase struct {
	schoolRepo  school.Repository
	callRepo    servicecall.Repository
	accountRepo school.AccountRepository
	metaRepo    school.MetaRepository
	txMgr       common.Transactor
	publisher   pubsub.ChangePublisher
	batchSize   int
	logger      logger.Interface
}

func NewDeleteSchoolUseCase(
	schoolRepo school.Repository,
	callRepo servicecall.Repository,
	accountRepo school.AccountRepository,
	metaRepo school.MetaRepository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	batchSize int,
	logger logger.Interface,
) *DeleteSchoolUseCase {
	if batchSize <= 0 {
		batchSize = defaultDeleteBatchSize
	}
	return &DeleteSchoolUseCase{
		schoolRepo:  schoolRepo,
		callRepo:    callRepo,
		accountRepo: accountRepo,
		metaRepo:    metaRepo,
		txMgr:       txMgr,
		publisher:   publisher,
		batchSize:   batchSize,
		logger:      logger,
	}
}

func (uc *DeleteSchoolUseCase) Execute(ctx context.Context, schoolID string) (*dto.DeletionReport, error) {
	uc.logger.Infow("executing delete school use case", "school_id", schoolID, "batch_size", uc.batchSize)

	if schoolID == "" {
		return nil, errors.NewValidationError("school ID is required")
	}
	if _, err := uc.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, translateError(err, "failed to delete school")
	}

	report := &dto.DeletionReport{SchoolID: schoolID}

	steps := []struct {
		name  string
		del   batchDeleter
		count *int64
	}{
		{name: "calls", del: uc.callRepo.DeleteBatchBySchool, count: &report.Calls},
		{name: "accounts", del: rowsOnly(uc.accountRepo.DeleteBatchBySchool), count: &report.Accounts},
		{name: "meta", del: rowsOnly(uc.metaRepo.DeleteBatchBySchool), count: &report.Meta},
	}
	for _, step := range steps {
		if err := uc.drain(ctx, schoolID, step.del, step.count, &report.Batches); err != nil {
			uc.logger.Errorw("school deletion stopped part way",
				"school_id", schoolID,
				"step", step.name,
				"deleted_calls", report.Calls,
				"deleted_accounts", report.Accounts,
				"error", err,
			)
			return nil, translateError(err, "failed to delete school")
		}
	}

	err := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		return uc.schoolRepo.Delete(txCtx, schoolID)
	})
	if err != nil {
		uc.logger.Errorw("failed to delete school record", "school_id", schoolID, "error", err)
		return nil, translateError(err, "failed to delete school")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, schoolChanged(schoolID))

	uc.logger.Infow("school deleted successfully",
		"school_id", schoolID,
		"calls", report.Calls,
		"accounts", report.Accounts,
		"meta", report.Meta,
		"batches", report.Batches,
	)
	return report, nil
}

// drain repeats del until a batch comes back short.
func (uc *DeleteSchoolUseCase) drain(ctx context.Context, schoolID string, del batchDeleter, count *int64, batches *int) error {
	for {
		var counted, rows int64
		err := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
			var err error
			counted, rows, err = del(txCtx, schoolID, uc.batchSize)
			return err
		})
		if err != nil {
			return err
		}
		*count += counted
		if rows > 0 {
			*batches++
		}
		if rows < int64(uc.batchSize) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
