// Package drivers picks the namedsql dialect for a database/sql driver.
//
// Importing this package registers the lib/pq ("postgres"), go-sql-driver/mysql
// ("mysql") and modernc.org/sqlite ("sqlite") drivers.
package drivers

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gandaldf/namedsql"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

var ErrUnknownDriver = errors.New("namedsql/drivers: unknown driver")

var dialectByDriverName = map[string]namedsql.Dialect{
	"azuresql":         namedsql.SQLServer,
	"mssql":            namedsql.SQLServer,
	"sqlserver":        namedsql.SQLServer,
	"cloudsqlpostgres": namedsql.Postgres,
	"cockroach":        namedsql.Postgres,
	"nrpostgres":       namedsql.Postgres,
	"pgx":              namedsql.Postgres,
	"postgres":         namedsql.Postgres,
	"pq-timeouts":      namedsql.Postgres,
	"mysql":            namedsql.MySQL,
	"nrmysql":          namedsql.MySQL,
	"nrsqlite3":        namedsql.SQLite,
	"sqlite":           namedsql.SQLite,
	"sqlite3":          namedsql.SQLite,
}

// DialectByName returns the dialect for a database/sql driver name as passed
// to sql.Open. Matching is case-insensitive.
func DialectByName(driverName string) (namedsql.Dialect, bool) {
	d, ok := dialectByDriverName[strings.ToLower(driverName)]
	return d, ok
}

// DialectOf returns the dialect of the driver behind db.
func DialectOf(db *sql.DB) (namedsql.Dialect, error) {
	switch drv := db.Driver().(type) {
	case *pq.Driver:
		return namedsql.Postgres, nil
	case *mysql.MySQLDriver:
		return namedsql.MySQL, nil
	case *sqlite.Driver:
		return namedsql.SQLite, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownDriver, drv)
	}
}

// New returns a namedsql.SQLR rendering for the driver behind db.
func New(db *sql.DB, cfg ...namedsql.Config) (*namedsql.SQLR, error) {
	d, err := DialectOf(db)
	if err != nil {
		return nil, err
	}
	return namedsql.New(d, cfg...), nil
}
