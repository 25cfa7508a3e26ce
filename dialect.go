package namedsql

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dialect identifies the SQL dialect used for placeholder rendering.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
	SQLite
	SQLServer
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	case SQLServer:
		return "sqlserver"
	default:
		return "unknown"
	}
}

// ParseDialect returns the dialect named s. Matching is case-insensitive and
// accepts a few common aliases (postgresql, pg, sqlite3, mssql).
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
}

// UnmarshalYAML decodes a dialect from its name.
func (d *Dialect) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseDialect(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = v
	return nil
}

// MarshalYAML encodes a dialect as its name.
func (d Dialect) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Resolve rewrites template for the dialect. MySQL and SQLite bind a value per
// occurrence (ResolveNumbered); Postgres and SQL Server reuse numbered markers
// across occurrences of the same name (ResolveReused).
func (d Dialect) Resolve(template string, supplied Placeholders) (string, []any, error) {
	switch d {
	case MySQL, SQLite:
		return resolveNumbered(template, supplied, "?")
	case Postgres:
		return resolveReused(template, supplied, dollarOrdinal)
	case SQLServer:
		return resolveReused(template, supplied, atOrdinal)
	default:
		return "", nil, fmt.Errorf("%w: %d", ErrUnknownDialect, int(d))
	}
}
