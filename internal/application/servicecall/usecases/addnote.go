package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/config"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/services/plaintext"
)

type AddNoteCommand struct {
	CallID string
	Text   string
	Actor  shared.Actor
}

type AddNoteResult struct {
	NoteID string
	Call   *dto.CallDTO
}

type AddNoteUseCase struct {
	callRepo  servicecall.Repository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	cleaner   plaintext.Cleaner
	workflow  config.WorkflowConfig
	clock     biztime.Clock
	logger    logger.Interface
}

func NewAddNoteUseCase(
	callRepo servicecall.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	cleaner plaintext.Cleaner,
	workflow config.WorkflowConfig,
	logger logger.Interface,
) *AddNoteUseCase {
	return &AddNoteUseCase{
		callRepo:  callRepo,
		txMgr:     txMgr,
		publisher: publisher,
		cleaner:   cleaner,
		workflow:  workflow,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *AddNoteUseCase) Execute(ctx context.Context, cmd AddNoteCommand) (*AddNoteResult, error) {
	uc.logger.Infow("executing add note use case", "call_id", cmd.CallID, "actor", cmd.Actor.ID)

	if cmd.CallID == "" {
		return nil, errors.NewValidationError("call ID is required")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	text := uc.cleaner.Clean(cmd.Text)
	if text == "" {
		uc.logger.Warnw("note rejected as empty after cleaning", "call_id", cmd.CallID)
		return nil, errors.NewValidationError(servicecall.ErrEmptyNote.Error())
	}

	var (
		call *servicecall.ServiceCall
		note *servicecall.Note
	)
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		c, err := uc.callRepo.GetByID(txCtx, cmd.CallID)
		if err != nil {
			return err
		}
		n, _, err := c.AddNote(text, cmd.Actor, uc.clock(), uc.workflow.NotePreviewLength)
		if err != nil {
			return err
		}
		if err := uc.callRepo.Update(txCtx, c); err != nil {
			return err
		}
		call, note = c, n
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to add note", "call_id", cmd.CallID, "error", txErr)
		return nil, translateError(txErr, "failed to add note")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, callChanged(call))

	uc.logger.Infow("note added successfully", "call_id", call.ID(), "note_id", note.ID())

	return &AddNoteResult{
		NoteID: note.ID(),
		Call:   dto.ToCallDTO(call),
	}, nil
}
