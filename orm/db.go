package orm

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log"
	"time"

	"adminql/orm/internal/errs"
	"adminql/orm/internal/valuer"
	"adminql/orm/model"
)

type DBOption func(db *DB)

// DB decorates sql.DB with a model registry, a dialect and a middleware
// chain.
type DB struct {
	core
	db *sql.DB
}

// Open picks the dialect from the driver name, MySQL when the driver is not
// known.
func Open(driver string, dataSourceName string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}
	if dialect, ok := DialectOf(driver); ok {
		opts = append([]DBOption{DBWithDialect(dialect)}, opts...)
	}
	return OpenDB(db, opts...)
}

func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	res := &DB{
		core: core{
			r:       model.NewRegistry(),
			creator: valuer.NewUnsafeValue,
			dialect: DialectMySQL,
		},
		db: db,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

// DBWithMiddleware replaces the chain; the first middleware runs outermost.
func DBWithMiddleware(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

func DBWithDialect(dialect Dialect) DBOption {
	return func(db *DB) {
		db.dialect = dialect
	}
}

func DBWithReflect() DBOption {
	return func(db *DB) {
		db.creator = valuer.NewReflectValue
	}
}

func DBWithRegistry(r model.Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

func MustOpenDB(driver string, dataSourceName string, opts ...DBOption) *DB {
	res, err := Open(driver, dataSourceName, opts...)
	if err != nil {
		panic(err)
	}
	return res
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Model returns the metadata of entity, a pointer to struct.
func (db *DB) Model(entity any) (*model.Model, error) {
	return db.r.Get(entity)
}

// Exec runs a statement that is not built by this package, such as DDL.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{
		tx: tx,
		db: db,
	}, nil
}

func (db *DB) getCore() core {
	return db.core
}

// DoTx commits when fn returns nil and rolls back when fn fails or panics.
// A panic is reported as an error.
func (db *DB) DoTx(ctx context.Context,
	fn func(ctx context.Context, tx *Tx) error,
	opts *sql.TxOptions) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	panicked := true
	defer func() {
		if panicked || err != nil {
			if r := recover(); r != nil {
				err = errors.Join(err, errs.NewErrPanic(r))
			}
			if e := tx.Rollback(); e != nil {
				err = errs.NewErrFailedToRollbackTx(err, e, panicked)
			}
			return
		}
		err = tx.Commit()
	}()
	err = fn(ctx, tx)
	panicked = false
	return err
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Wait blocks until the database answers a ping or ctx is done.
func (db *DB) Wait(ctx context.Context) error {
	err := db.db.PingContext(ctx)
	for errors.Is(err, driver.ErrBadConn) {
		log.Println("orm: waiting for the database to start...")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
		err = db.db.PingContext(ctx)
	}
	return err
}
