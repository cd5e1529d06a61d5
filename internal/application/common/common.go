// Package common holds the ports and helpers every command shares.
package common

import (
	"context"

	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// Transactor runs fn in a transaction, re-running it on write conflicts.
// *db.TransactionManager satisfies it.
type Transactor interface {
	RunInTransactionWithRetry(ctx context.Context, fn func(ctx context.Context) error) error
}

// InternalOr passes AppErrors through and hides anything else behind an
// internal error carrying message.
func InternalOr(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(message).WithCause(err)
}

// PublishChange announces a committed change. The commit already happened,
// so a failed publish is logged and otherwise ignored.
func PublishChange(ctx context.Context, pub pubsub.ChangePublisher, log logger.Interface, event pubsub.ChangeEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warnw("failed to publish change event",
			"topic", event.Topic,
			"error", err,
		)
	}
}
