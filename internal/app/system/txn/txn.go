// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one. Standalone servers (local development, most
// test setups) have no transactions, so Run falls back to plain writes.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes meaning "transactions are not available here".
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation: not a replica set member
	51:  true, // IllegalOperation (older servers)
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means the server cannot run the
// operation inside a transaction.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return notSupportedCodes[cmdErr.Code]
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session") || strings.Contains(msg, "illegal operation")) {
		return true
	}
	return strings.Contains(msg, "session") && strings.Contains(msg, "not supported")
}

// Run calls fn inside a transaction on client. If the deployment cannot
// run transactions, fn is called again without one; any writes from the
// aborted attempt were rolled back.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions unavailable; running without one", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}
