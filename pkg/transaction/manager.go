package transaction

import (
	"context"
	"database/sql"

	"github.com/iceymoss/sentinelpost/pkg/db"

	"gorm.io/gorm"
)

// Manager owns the database transaction lifecycle and context propagation.
type Manager struct {
	db *gorm.DB
}

// NewManager creates a transaction manager bound to the article store.
func NewManager() *Manager {
	return &Manager{
		db: db.GetGormConn(db.DB_SENTINELPOST),
	}
}

// NewManagerWithDB creates a transaction manager over an explicit connection.
// Used by tests to run against a throwaway database.
func NewManagerWithDB(conn *gorm.DB) *Manager {
	return &Manager{db: conn}
}

// Execute runs the operation inside a transaction.
// - ctx: context for timeout control and cancellation
// - opts: transaction isolation options
// - operation: business logic executed within the transaction
//
// The whole operation commits or rolls back as a unit; an error from the
// operation aborts the transaction.
func (m *Manager) Execute(
	ctx context.Context,
	opts *sql.TxOptions,
	operation func(ctx context.Context) error,
) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Inject the transaction instance into the context
		ctxWithTx := WithTransaction(ctx, tx)
		// Run the business operation with the enriched context
		return operation(ctxWithTx)
	}, opts)
}
