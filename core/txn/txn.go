package txn

import (
	"context"

	"gorm.io/gorm"
)

// Runner executes a unit of work inside a database transaction: commit on
// success, rollback on error or panic. Every transactional path in the
// service layer goes through a Runner so commit/rollback discipline lives in
// one place instead of per endpoint.
type Runner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormRunner struct {
	db *gorm.DB
}

// NewRunner returns a Runner backed by the given gorm DB handle.
func NewRunner(db *gorm.DB) Runner {
	return &gormRunner{db: db}
}

// InTx runs fn inside a transaction bound to ctx. The connection is checked
// out from the pool for the duration of fn and released unconditionally.
// Context cancellation aborts in-flight statements and rolls back, so a
// caller that gives up never leaves a transaction open.
func (r *gormRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
