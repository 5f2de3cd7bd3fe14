package repository

import (
	"errors"
	"fmt"

	"tablebooking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs that mean a concurrency-control mechanism fired: serialization
// failure, deadlock, exclusion-constraint violation, lock not available,
// statement timeout. All of them make the whole operation retryable.
var retryableStates = map[string]struct{}{
	"40001": {},
	"40P01": {},
	"23P01": {},
	"55P03": {},
	"57014": {},
}

// mapPGError translates driver errors into the domain taxonomy. Anything
// unrecognized passes through unchanged.
func mapPGError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := retryableStates[pgErr.Code]; ok {
			return fmt.Errorf("%w (sqlstate %s)", domain.ErrConflictRetryable, pgErr.Code)
		}
		// FK violation from deleting a table that bookings still reference.
		if pgErr.Code == "23503" {
			return domain.ErrTableInUse
		}
	}
	return err
}
