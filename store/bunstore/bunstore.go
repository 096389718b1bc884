// Package bunstore provides a durable KV backend over a local SQLite
// database, using uptrace/bun. It backs the credential store so sessions
// survive process restarts.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var _ inkwell.KV = (*Store)(nil)

type record struct {
	bun.BaseModel `bun:"table:kv_records,alias:kv"`

	Key       string    `bun:"key,pk"`
	Value     []byte    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type Store struct {
	db    *bun.DB
	owned bool
}

// Open creates a store over a SQLite database at dsn, e.g. a file path or
// "file::memory:?cache=shared". The backing table is created if missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open kv database")
	}

	store := &Store{
		db:    bun.NewDB(sqldb, sqlitedialect.New()),
		owned: true,
	}
	if err := store.init(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing bun DB. The caller keeps ownership of the handle.
func New(ctx context.Context, db *bun.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*record)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create kv table")
	}
	return nil
}

// Close releases the database handle when this store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	rec := &record{}
	err := s.db.NewSelect().
		Model(rec).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "kv get failed")
	}
	return rec.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	rec := &record{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "kv set failed")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*record)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "kv delete failed")
	}
	return nil
}
