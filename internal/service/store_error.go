package service

import (
	"errors"

	"credential-market/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Transient SQLSTATE codes: serialization failure, deadlock detected,
// lock not available. Transactions failing with these are safe to retry
// from the top after rollback.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
)

// storeError classifies a storage-layer error. Transient conflicts become
// SYS_002 so clients know a retry is worthwhile; everything else is SYS_001.
func storeError(err error) *apperror.AppError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
			return apperror.ErrTransientStore(err)
		}
	}
	return apperror.InternalError(err)
}
