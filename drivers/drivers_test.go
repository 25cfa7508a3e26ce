package drivers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gandaldf/namedsql"
)

func TestDialectByName(t *testing.T) {
	tests := []struct {
		name string
		want namedsql.Dialect
		ok   bool
	}{
		{"postgres", namedsql.Postgres, true},
		{"pgx", namedsql.Postgres, true},
		{"mysql", namedsql.MySQL, true},
		{"sqlite", namedsql.SQLite, true},
		{"SQLite3", namedsql.SQLite, true},
		{"sqlserver", namedsql.SQLServer, true},
		{"oracle", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DialectByName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// TestDialectOf opens each registered driver without connecting and checks the
// detected dialect.
func TestDialectOf(t *testing.T) {
	tests := []struct {
		driver string
		dsn    string
		want   namedsql.Dialect
	}{
		{"postgres", "host=localhost dbname=app sslmode=disable", namedsql.Postgres},
		{"mysql", "user:pass@tcp(localhost:3306)/app", namedsql.MySQL},
		{"sqlite", ":memory:", namedsql.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db, err := sql.Open(tt.driver, tt.dsn)
			require.NoError(t, err)
			defer db.Close()

			got, err := DialectOf(db)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			byName, ok := DialectByName(tt.driver)
			require.True(t, ok)
			assert.Equal(t, got, byName)
		})
	}
}

func TestDialectOf_Unknown(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = DialectOf(db)
	require.ErrorIs(t, err, ErrUnknownDriver)

	_, err = New(db)
	require.ErrorIs(t, err, ErrUnknownDriver)
}

// openSQLite returns a single-connection in-memory database with a users table.
func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`create table users (user_id integer primary key, name text not null, birthdate text)`)
	require.NoError(t, err)
	return db
}

// TestSQLite_ResolvedStatementsExecute runs resolved statements, including the
// empty-list sub-query, against a real SQLite database.
func TestSQLite_ResolvedStatementsExecute(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	s, err := New(db)
	require.NoError(t, err)
	require.Equal(t, namedsql.SQLite, s.Dialect())

	for _, u := range []struct {
		id   int
		name string
	}{{2, "Jane"}, {3, "John"}, {5, "Joe"}, {6, "Ann"}} {
		_, err := s.Write("insert into users (user_id, name, birthdate) values (:id, :name, :birthdate)").
			Bind("id", u.id, "name", u.name, "birthdate", "2001-02-03").
			ExecContext(ctx, db)
		require.NoError(t, err)
	}

	queryIDs := func(t *testing.T, b *namedsql.Builder) []int {
		t.Helper()
		rows, err := b.QueryContext(ctx, db)
		require.NoError(t, err)
		defer rows.Close()
		ids := []int{}
		for rows.Next() {
			var id int
			require.NoError(t, rows.Scan(&id))
			ids = append(ids, id)
		}
		require.NoError(t, rows.Err())
		return ids
	}

	ids := queryIDs(t, s.Write("select user_id from users where user_id in :ids order by user_id").
		Bind("ids", []int{2, 3, 5}))
	assert.Equal(t, []int{2, 3, 5}, ids)

	ids = queryIDs(t, s.Write("select user_id from users where user_id in :ids").
		Bind("ids", []int{}))
	assert.Empty(t, ids)

	ids = queryIDs(t, s.Write("select user_id from users where (:name is null or name = :name) and user_id not in :skip order by user_id").
		Bind(namedsql.P{"name": nil, "skip": []int{}}))
	assert.Equal(t, []int{2, 3, 5, 6}, ids)

	ids = queryIDs(t, s.Write("select user_id from users where (:name is null or name = :name) or name in :names order by user_id").
		Bind(namedsql.P{"name": "Ann", "names": []string{"Jane", "Joe"}}))
	assert.Equal(t, []int{2, 5, 6}, ids)
}

// TestSQLite_MismatchLeavesDatabaseUntouched ensures an unused name aborts
// before the statement runs.
func TestSQLite_MismatchLeavesDatabaseUntouched(t *testing.T) {
	db := openSQLite(t)
	s, err := New(db)
	require.NoError(t, err)

	_, err = s.Write("insert into users (user_id, name) values (1, 'x')").
		Bind("user_id", 1).
		Exec(db)
	var pe *namedsql.PlaceholderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, []string{"user_id"}, pe.UnusedNames)
	assert.Empty(t, pe.UndefinedNames)

	var n int
	require.NoError(t, db.QueryRow("select count(*) from users").Scan(&n))
	assert.Zero(t, n)
}
