package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner executes a function inside a single transactional boundary.
// Every multi-document cart mutation goes through one of these so the two
// writes either both land or neither does.
type TxnRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTxnRunner struct {
	client *mongo.Client
}

// NewTxnRunner returns a runner backed by MongoDB multi-document
// transactions. Requires a replica set or mongos.
func NewTxnRunner(client *mongo.Client) TxnRunner {
	return &mongoTxnRunner{client: client}
}

func (r *mongoTxnRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// SequentialRunner runs the function directly, with no transaction. Used
// against standalone mongod deployments that cannot open transactions; the
// multi-step cart mutations then degrade to ordered independent writes.
type SequentialRunner struct{}

func (SequentialRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
