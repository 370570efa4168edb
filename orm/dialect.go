package orm

import (
	"strconv"

	"adminql/orm/internal/errs"
)

var (
	DialectMySQL    Dialect = mysqlDialect{}
	DialectSQLite   Dialect = sqliteDialect{}
	DialectPostgres Dialect = postgresDialect{}
)

type Dialect interface {
	// Name is the database/sql driver name the dialect is used with.
	Name() string

	// quoter wraps identifiers: ` for MySQL, " for PostgreSQL
	quoter() byte
	// placeholder renders the idx-th (1-based) parameter
	placeholder(idx int) string

	buildUpsert(b *builder, upsert *Upsert) error
}

// DialectOf returns the dialect matching a database/sql driver name.
func DialectOf(driver string) (Dialect, bool) {
	switch driver {
	case "mysql":
		return DialectMySQL, true
	case "sqlite3", "sqlite":
		return DialectSQLite, true
	case "postgres", "pgx":
		return DialectPostgres, true
	}
	return nil, false
}

type standardSQL struct{}

func (s standardSQL) quoter() byte {
	return '"'
}

func (s standardSQL) placeholder(int) string {
	return "?"
}

// buildUpsert renders ON CONFLICT ... DO UPDATE, shared by SQLite and
// PostgreSQL.
func (s standardSQL) buildUpsert(b *builder, upsert *Upsert) error {
	b.sb.WriteString(" ON CONFLICT(")
	for i, col := range upsert.conflictColumns {
		if i > 0 {
			b.sb.WriteByte(',')
		}
		err := b.buildColumn(Column{
			name: col,
		})
		if err != nil {
			return err
		}
	}
	b.sb.WriteString(") DO UPDATE SET ")
	for idx, assign := range upsert.assigns {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		switch a := assign.(type) {
		case Assignment:
			if err := b.buildColumn(C(a.col)); err != nil {
				return err
			}
			b.sb.WriteByte('=')
			b.param(a.val)
		case Column:
			fd, err := b.fieldOf(a)
			if err != nil {
				return err
			}
			b.quote(fd.ColName)
			b.sb.WriteString("=excluded.")
			b.quote(fd.ColName)
		default:
			return errs.NewErrUnSupportedAssignable(assign)
		}
	}
	return nil
}

type mysqlDialect struct {
	standardSQL
}

func (m mysqlDialect) Name() string {
	return "mysql"
}

func (m mysqlDialect) quoter() byte {
	return '`'
}

func (m mysqlDialect) buildUpsert(b *builder, upsert *Upsert) error {
	b.sb.WriteString(" ON DUPLICATE KEY UPDATE ")
	for idx, assign := range upsert.assigns {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		switch a := assign.(type) {
		case Assignment:
			if err := b.buildColumn(C(a.col)); err != nil {
				return err
			}
			b.sb.WriteByte('=')
			b.param(a.val)
		case Column:
			fd, err := b.fieldOf(a)
			if err != nil {
				return err
			}
			b.quote(fd.ColName)
			b.sb.WriteString("=VALUES(")
			b.quote(fd.ColName)
			b.sb.WriteByte(')')
		default:
			return errs.NewErrUnSupportedAssignable(assign)
		}
	}
	return nil
}

type sqliteDialect struct {
	standardSQL
}

func (s sqliteDialect) Name() string {
	return "sqlite3"
}

func (s sqliteDialect) quoter() byte {
	return '`'
}

type postgresDialect struct {
	standardSQL
}

func (p postgresDialect) Name() string {
	return "postgres"
}

func (p postgresDialect) placeholder(idx int) string {
	return "$" + strconv.Itoa(idx)
}
