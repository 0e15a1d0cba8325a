package repository

import (
	"context"
	"database/sql"

	"stockmana/internal/db"
)

// Store hands out repositories bound to one connection or transaction.
type Store interface {
	Users() UserRepository
	PasswordResets() PasswordResetRepository
	Products() ProductRepository
	// WithTx runs fn with a Store whose repositories share one transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type sqlStore struct {
	sqlDB *sql.DB
	conn  db.DBTX
}

func NewStore(sqlDB *sql.DB) Store {
	return &sqlStore{sqlDB: sqlDB, conn: sqlDB}
}

func (s *sqlStore) Users() UserRepository {
	return NewUserRepository(s.conn)
}

func (s *sqlStore) PasswordResets() PasswordResetRepository {
	return NewPasswordResetRepository(s.conn)
}

func (s *sqlStore) Products() ProductRepository {
	return NewProductRepository(s.conn)
}

func (s *sqlStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return db.WithTx(ctx, s.sqlDB, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &sqlStore{sqlDB: s.sqlDB, conn: tx})
	})
}
