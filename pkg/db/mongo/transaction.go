package mongo

import (
	"context"
	"fmt"

	apperrors "boatsafari/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc runs inside a session. Every read and write in the
// function must use the session context or it escapes the transaction.
type TransactionFunc func(ctx mongo.SessionContext) error

// TransactionManager wraps multi-document writes in a Mongo transaction.
// Reservations touch Trips and Bookings together, payment settlement
// touches Payments and Bookings together; neither pair may be observed
// half-applied.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type transactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &transactionManager{
		client: client,
		// Snapshot reads so a seat count taken inside the transaction
		// cannot see bookings committed after the transaction started.
		opts: options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
	}
}

func (m *transactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)
	if err == nil {
		return nil
	}

	// Domain errors pass through untouched so callers can map them to
	// HTTP codes; only driver failures get wrapped.
	if apperrors.IsAppError(err) {
		return err
	}
	return fmt.Errorf("transaction failed: %w", err)
}
