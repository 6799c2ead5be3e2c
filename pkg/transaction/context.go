package transaction

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey keys the transaction object stored in the context
type txContextKey struct{}

// WithTransaction injects the transaction object into the context so it can
// be propagated through repository calls.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// GetTransactionOrDB returns the transaction from the context when one is
// active, otherwise the provided default connection.
func GetTransactionOrDB(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return defaultDB.WithContext(ctx)
}
