package orm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminql/orm/internal/errs"
)

func TestOpen_dialect(t *testing.T) {
	db, err := Open("sqlite3", "file:test.db?cache=shared&mode=memory")
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, db.Dialect())

	db, err = Open("sqlite3", "file:test.db?cache=shared&mode=memory", DBWithDialect(DialectPostgres))
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, db.Dialect())

	m, err := db.Model(&User{})
	require.NoError(t, err)
	assert.Equal(t, "user", m.TableName)
}

func TestMustOpenDB(t *testing.T) {
	assert.PanicsWithError(t, `sql: unknown driver "oracle" (forgotten import?)`, func() {
		MustOpenDB("oracle", "scott/tiger")
	})
	var db *DB
	require.NotPanics(t, func() {
		db = MustOpenDB("sqlite3", "file:must_open?mode=memory&cache=shared")
	})
	assert.Equal(t, DialectSQLite, db.Dialect())
	require.NoError(t, db.Close())
}

func TestDialectOf(t *testing.T) {
	testCases := []struct {
		driver string
		want   Dialect
		wantOK bool
	}{
		{driver: "mysql", want: DialectMySQL, wantOK: true},
		{driver: "sqlite3", want: DialectSQLite, wantOK: true},
		{driver: "postgres", want: DialectPostgres, wantOK: true},
		{driver: "oracle"},
	}
	for _, tc := range testCases {
		t.Run(tc.driver, func(t *testing.T) {
			d, ok := DialectOf(tc.driver)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, d)
			if !ok {
				return
			}
			named, _ := DialectOf(d.Name())
			assert.Equal(t, d, named)
		})
	}
}

func TestDB_DoTx(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		fn      func(ctx context.Context, tx *Tx) error
		wantErr error
	}{
		{
			name: "commit",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO .*").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *Tx) error {
				return NewInserter[TestModel](tx).Values(&TestModel{Id: 1}).Exec(ctx).Err()
			},
		},
		{
			name: "begin error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin error"))
			},
			fn: func(ctx context.Context, tx *Tx) error {
				return nil
			},
			wantErr: errors.New("begin error"),
		},
		{
			name: "rollback on error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(ctx context.Context, tx *Tx) error {
				return errors.New("biz error")
			},
			wantErr: errors.New("biz error"),
		},
		{
			name: "rollback error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback error"))
			},
			fn: func(ctx context.Context, tx *Tx) error {
				return errors.New("biz error")
			},
			wantErr: errs.NewErrFailedToRollbackTx(errors.New("biz error"), errors.New("rollback error"), false),
		},
		{
			name: "rollback on panic",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(ctx context.Context, tx *Tx) error {
				panic("boom")
			},
			wantErr: errors.Join(nil, errs.NewErrPanic("boom")),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer mockDB.Close()
			db, err := OpenDB(mockDB)
			require.NoError(t, err)
			tc.mock(mock)

			err = db.DoTx(context.Background(), tc.fn, nil)
			assert.Equal(t, tc.wantErr, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTx_RollbackIfNotCommit(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.RollbackIfNotCommit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
