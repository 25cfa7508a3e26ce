package namedsql

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// SQLR is the main entry point. It holds the selected dialect, configuration,
// and a pool of statement buffers shared by its Builders.
// A single SQLR instance is safe for concurrent use.
type SQLR struct {
	dialect Dialect
	config  Config
	pool    sync.Pool
}

// Builder assembles a single SQL statement and its placeholder values.
// It is NOT safe for concurrent use and is single-use: Build() releases it,
// after which every method is a no-op and Build/Preview return ErrBuilderReleased.
type Builder struct {
	s   *SQLR
	st  *stmtState
	gen uint64
}

// stmtState is the pooled part of a Builder. gen is bumped on every release so
// a Builder left over from an earlier statement can no longer reach it.
type stmtState struct {
	gen    uint64
	parts  []string
	inputs []any // Placeholders, maps or pairs, in Bind order
	err    error
}

// pairs collects the values of consecutive Bind(key, value, ...) calls.
// It is a distinct type so it is never confused with a caller's map.
type pairs map[string]any

// Execer abstracts *sql.DB / *sql.Tx ExecContext for easy testing.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queryer abstracts *sql.DB / *sql.Tx QueryContext for easy testing.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// New returns a new SQLR for the given dialect. Optionally provide a Config;
// unspecified fields fall back to sensible per-dialect defaults.
func New(dialect Dialect, cfg ...Config) *SQLR {
	s := &SQLR{
		dialect: dialect,
		config:  defaultConfig(dialect, cfg...),
	}
	s.pool.New = func() any {
		return &stmtState{
			parts:  make([]string, 0, 16),
			inputs: make([]any, 0, 8),
		}
	}
	return s
}

// Dialect returns the dialect s renders for.
func (s *SQLR) Dialect() Dialect {
	return s.dialect
}

// Config returns the effective configuration, defaults applied.
func (s *SQLR) Config() Config {
	return s.config
}

// Write starts a new statement and returns a single-use Builder.
// More fragments can be added with Write/Writef and values with Bind.
func (s *SQLR) Write(sql string) *Builder {
	st := s.pool.Get().(*stmtState)
	if sql != "" {
		st.parts = append(st.parts, sql)
	}
	return &Builder{s: s, st: st, gen: st.gen}
}

// live returns the statement state, or nil once the builder was released.
func (b *Builder) live() *stmtState {
	if b.st == nil || b.st.gen != b.gen {
		return nil
	}
	return b.st
}

// Write appends a raw SQL fragment. No auto-spacing is performed.
func (b *Builder) Write(sql string) *Builder {
	if st := b.live(); st != nil && st.err == nil {
		st.parts = append(st.parts, sql)
	}
	return b
}

// Writef appends a formatted SQL fragment. No auto-spacing is performed.
func (b *Builder) Writef(format string, args ...any) *Builder {
	return b.Write(fmt.Sprintf(format, args...))
}

// Bind adds placeholder values. Supported forms:
//   - nil or no arguments (ignored)
//   - Placeholders
//   - map[string]any or any map with string-like keys
//   - k/v pairs (even number of args, keys are non-empty strings)
//
// Bind may be called several times. When a name is bound more than once,
// the value from the latest call wins. Every bound name must appear in the
// statement.
func (b *Builder) Bind(args ...any) *Builder {
	st := b.live()
	if st == nil || st.err != nil {
		return b
	}

	switch len(args) {
	case 0:
	case 1:
		if args[0] != nil {
			st.inputs = append(st.inputs, args[0])
		}
	default:
		if len(args)%2 != 0 {
			st.err = fmt.Errorf("namedsql: Bind expects even number of args (key,value,...), got %d", len(args))
			return b
		}
		for i := 0; i < len(args); i += 2 {
			if k, ok := args[i].(string); !ok || k == "" {
				st.err = fmt.Errorf("namedsql: Bind key at position %d must be a non-empty string (got %T)", i, args[i])
				return b
			}
		}
		bag := st.pairs()
		for i := 0; i < len(args); i += 2 {
			bag[args[i].(string)] = args[i+1]
		}
	}
	return b
}

// pairs returns the k/v bag at the end of the inputs, appending a new one if
// the latest input is something else.
func (st *stmtState) pairs() pairs {
	if n := len(st.inputs); n > 0 {
		if bag, ok := st.inputs[n-1].(pairs); ok {
			return bag
		}
	}
	bag := make(pairs, 4)
	st.inputs = append(st.inputs, bag)
	return bag
}

// Build concatenates the statement, resolves its placeholders, and releases
// the builder. The builder must not be used afterwards.
func (b *Builder) Build() (string, []any, error) {
	st := b.live()
	if st == nil {
		return "", nil, ErrBuilderReleased
	}
	defer b.Release()
	return b.s.render(st)
}

// Preview renders the SQL statement and bound args without releasing the Builder.
// Safe to call multiple times; identical to Build() except it does NOT Release().
//
// If the builder has already been released, it returns ErrBuilderReleased.
func (b *Builder) Preview() (string, []any, error) {
	st := b.live()
	if st == nil {
		return "", nil, ErrBuilderReleased
	}
	return b.s.render(st)
}

// Release returns the builder's buffers to the pool. It is safe to call
// Release multiple times; only the first call on a live builder has effect.
func (b *Builder) Release() {
	st := b.live()
	if st == nil {
		return
	}
	b.st = nil

	st.gen++
	clear(st.parts)
	st.parts = st.parts[:0]
	clear(st.inputs)
	st.inputs = st.inputs[:0]
	st.err = nil
	b.s.pool.Put(st)
}

// Exec is a convenience that builds and executes the statement with context.Background().
func (b *Builder) Exec(db Execer) (sql.Result, error) {
	return b.ExecContext(context.Background(), db)
}

// Query is a convenience that builds and runs the statement with context.Background().
func (b *Builder) Query(db Queryer) (*sql.Rows, error) {
	return b.QueryContext(context.Background(), db)
}

// ExecContext builds and executes the statement with the provided context.
func (b *Builder) ExecContext(ctx context.Context, db Execer) (sql.Result, error) {
	q, args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, q, args...)
}

// QueryContext builds and runs the statement with the provided context.
// The caller must close the returned rows.
func (b *Builder) QueryContext(ctx context.Context, db Queryer) (*sql.Rows, error) {
	q, args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, q, args...)
}

// render resolves st without modifying it and applies the MaxParams limit.
func (s *SQLR) render(st *stmtState) (string, []any, error) {
	if st.err != nil {
		return "", nil, st.err
	}

	supplied, err := mergeInputs(st.inputs)
	if err != nil {
		return "", nil, err
	}

	out, args, err := s.dialect.Resolve(strings.Join(st.parts, ""), supplied)
	if err != nil {
		return "", nil, err
	}
	if limit := s.config.MaxParams; limit > 0 && len(args) > limit {
		return "", nil, fmt.Errorf("%w: requested=%d, limit=%d", ErrTooManyParams, len(args), limit)
	}
	return out, args, nil
}

// mergeInputs folds the Bind() inputs into one Placeholders, in order, so a
// name bound again by a later input takes the later value.
func mergeInputs(inputs []any) (Placeholders, error) {
	out := make(Placeholders, 8)
	for _, in := range inputs {
		if err := mergeInput(out, in); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeInput copies a single Bind() input into dst.
func mergeInput(dst Placeholders, in any) error {
	switch m := in.(type) {
	case pairs:
		for k, v := range m {
			dst[k] = valueOf(v)
		}
		return nil
	case Placeholders:
		for k, v := range m {
			dst[k] = v
		}
		return nil
	case map[string]Value:
		for k, v := range m {
			dst[k] = v
		}
		return nil
	case map[string]any:
		for k, v := range m {
			dst[k] = valueOf(v)
		}
		return nil
	}

	rv := reflect.ValueOf(in)
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("%w: %T", ErrBindUnsupported, in)
	}
	iter := rv.MapRange()
	for iter.Next() {
		dst[iter.Key().String()] = valueOf(iter.Value().Interface())
	}
	return nil
}
