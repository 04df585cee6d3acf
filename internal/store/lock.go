package store

import (
	"context"
	"errors"
	"fmt"
)

// runLockKey identifies the catalog sync in pg_try_advisory_lock
const runLockKey int64 = 0x46425359

// ErrLocked is returned when another process holds the run lock
var ErrLocked = errors.New("another catalog sync is running")

// TryLock takes the cross-process run lock. On PostgreSQL this is a session
// advisory lock held on a dedicated connection until release is called.
// Other dialects have no cross-process lock and always succeed.
func (s *Store) TryLock(ctx context.Context) (release func(), err error) {
	if s.db.Dialector.Name() != "postgres" {
		return func() {}, nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve lock connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", runLockKey).Scan(&acquired); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to take run lock: %w", err)
	}
	if !acquired {
		conn.Close()
		return nil, ErrLocked
	}

	return func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", runLockKey)
		conn.Close()
	}, nil
}
