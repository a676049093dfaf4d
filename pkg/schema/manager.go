// Package schema is a terse layer for writing schema migrations.
//
// Column types are values built from named constructors and refined with
// orthogonal modifiers; the DDL shorthand turns runtime table and column names
// into statements that a Manager executes against Postgres, SQLite or MySQL.
//
// Example:
//
//	m, err := schema.New(schema.WithDatabaseURL("postgres://localhost/app"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	err = schema.CreateTable(ctx, m, "users", func(t *schema.TableCreateStatement) {
//	    t.Column("id", schema.PkAuto())
//	    t.Column("email", schema.StringLen(255).Uniq())
//	})
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/dialect"
	"github.com/hlop3z/schemakit/internal/engine"
	"github.com/hlop3z/schemakit/internal/introspect"
	"github.com/hlop3z/schemakit/internal/metrics"
)

// Driver names accepted by WithDriver.
const (
	DriverPQ  = "postgres"
	DriverPgx = "pgx"
)

// sqlitePragmas are appended to every SQLite DSN.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Manager executes statements against one database.
//
// Create a Manager with New and close it with Close when done. A Manager is
// safe for concurrent use; it holds no state beyond the connection pool.
type Manager struct {
	db      *sql.DB
	ownsDB  bool
	dialect dialect.Dialect
	config  *Config
	exec    *engine.Executor
	inspect introspect.Introspector
}

// New connects to the database the options describe.
//
// Either WithDatabaseURL or WithDB must be provided. The dialect is detected
// from the URL unless WithDialect sets it.
func New(opts ...Option) (*Manager, error) {
	cfg := &Config{
		ConnectTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.dbSet && cfg.DB == nil {
		return nil, ErrNilDB
	}
	if cfg.DB == nil && cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.Dialect == "" {
		if cfg.DB != nil {
			return nil, fmt.Errorf("%w: WithDB requires WithDialect", ErrUnsupportedDialect)
		}
		cfg.Dialect = detectDialect(cfg.DatabaseURL)
	}

	d := dialect.Get(cfg.Dialect)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, cfg.Dialect)
	}
	cfg.Dialect = d.Name()

	db, owns := cfg.DB, false
	if db == nil {
		var err error
		db, err = openDatabase(cfg.DatabaseURL, cfg.Dialect, cfg.Driver)
		if err != nil {
			return nil, &ConnectionError{
				URL:     redactURL(cfg.DatabaseURL),
				Dialect: cfg.Dialect,
				Cause:   err,
			}
		}
		owns = true

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, &ConnectionError{
				URL:     redactURL(cfg.DatabaseURL),
				Dialect: cfg.Dialect,
				Cause:   err,
			}
		}
	}

	m, err := metrics.New(cfg.Registerer)
	if err != nil {
		if owns {
			db.Close()
		}
		return nil, err
	}

	exec := engine.New(db, d,
		engine.WithLogger(cfg.Logger),
		engine.WithMetrics(m),
		engine.WithTimeout(cfg.Timeout),
	)

	return &Manager{
		db:      db,
		ownsDB:  owns,
		dialect: d,
		config:  cfg,
		exec:    exec,
		inspect: exec.Introspector(),
	}, nil
}

// Close closes the connection pool unless it was supplied with WithDB.
func (m *Manager) Close() error {
	if m.db != nil && m.ownsDB {
		return m.db.Close()
	}
	return nil
}

// DB returns the underlying connection pool.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Dialect returns the dialect name ("postgres", "sqlite" or "mysql").
func (m *Manager) Dialect() string {
	return m.dialect.Name()
}

// Config returns a copy of the manager configuration.
func (m *Manager) Config() Config {
	return *m.config
}

// SupportsNativeEnums reports whether enum columns need a named type.
func (m *Manager) SupportsNativeEnums() bool {
	return m.dialect.SupportsNativeEnums()
}

// Apply renders and executes stmts in order. Tables created in the same call
// are ordered so referenced tables come first. Nothing runs if any statement
// fails to render. Database errors are returned unchanged.
func (m *Manager) Apply(ctx context.Context, stmts ...Statement) error {
	ops, err := collect(stmts)
	if err != nil {
		return err
	}
	return m.exec.Execute(ctx, ops...)
}

// SQL renders stmts without executing them.
func (m *Manager) SQL(stmts ...Statement) ([]string, error) {
	ops, err := collect(stmts)
	if err != nil {
		return nil, err
	}
	return m.exec.SQL(ops...)
}

// DataLoss reports the drops in stmts that would discard rows or non-null
// column values, checked against the current catalog.
func (m *Manager) DataLoss(ctx context.Context, stmts ...Statement) ([]DataLoss, error) {
	ops, err := collect(stmts)
	if err != nil {
		return nil, err
	}
	return m.exec.DataLoss(ctx, ops...)
}

// Render renders stmts for the named dialect without a connection.
func Render(dialectName string, stmts ...Statement) ([]string, error) {
	d := dialect.Get(dialectName)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialectName)
	}
	ops, err := collect(stmts)
	if err != nil {
		return nil, err
	}
	if ops, err = engine.OrderCreates(ops); err != nil {
		return nil, err
	}

	var out []string
	for _, op := range ops {
		sqls, err := dialect.SQL(d, op)
		if err != nil {
			return nil, err
		}
		out = append(out, sqls...)
	}
	return out, nil
}

func collect(stmts []Statement) ([]Operation, error) {
	var ops []Operation
	for i, s := range stmts {
		if s == nil {
			return nil, alerr.Newf(alerr.ErrSchemaInvalid, "statement %d is nil", i)
		}
		ops = append(ops, s.Operations()...)
	}
	return ops, nil
}

// -----------------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------------

// HasTable reports whether table exists.
func (m *Manager) HasTable(ctx context.Context, table string) (bool, error) {
	return m.inspect.TableExists(ctx, table)
}

// HasColumn reports whether table has column.
func (m *Manager) HasColumn(ctx context.Context, table, column string) (bool, error) {
	return m.inspect.ColumnExists(ctx, table, column)
}

// HasIndex reports whether the index exists on table.
func (m *Manager) HasIndex(ctx context.Context, table, index string) (bool, error) {
	return m.inspect.IndexExists(ctx, table, index)
}

// EnumTypeExists reports whether the native enumerated type exists.
func (m *Manager) EnumTypeExists(ctx context.Context, name string) (bool, error) {
	return m.inspect.EnumTypeExists(ctx, name)
}

// Tables lists user tables in name order.
func (m *Manager) Tables(ctx context.Context) ([]string, error) {
	return m.inspect.ListTables(ctx)
}

// Columns returns the columns of table in declaration order.
func (m *Manager) Columns(ctx context.Context, table string) ([]*ColumnInfo, error) {
	return m.inspect.Columns(ctx, table)
}

// Table describes table, or returns nil when it does not exist.
func (m *Manager) Table(ctx context.Context, table string) (*TableInfo, error) {
	return m.inspect.IntrospectTable(ctx, table)
}

// -----------------------------------------------------------------------------
// Connection helpers
// -----------------------------------------------------------------------------

// DetectDialect returns the dialect a connection URL selects, as New would
// pick it.
func DetectDialect(url string) string {
	return detectDialect(url)
}

// detectDialect auto-detects the database dialect from the connection URL.
//
// Detection rules:
//   - postgres://, postgresql:// or pgx:// -> postgres
//   - mysql:// or a go-sql-driver DSN (user@tcp(host)/db) -> mysql
//   - sqlite://, file:, :memory: or a path ending with .db/.sqlite/.sqlite3 -> sqlite
func detectDialect(dsn string) string {
	lower := strings.ToLower(dsn)

	switch {
	case strings.HasPrefix(lower, "postgres://"),
		strings.HasPrefix(lower, "postgresql://"),
		strings.HasPrefix(lower, "pgx://"):
		return "postgres"

	case strings.HasPrefix(lower, "mysql://"),
		strings.Contains(lower, "@tcp("),
		strings.Contains(lower, "@unix("):
		return "mysql"

	case strings.HasPrefix(lower, "sqlite://"),
		strings.HasPrefix(lower, "sqlite3://"),
		strings.HasPrefix(lower, "file:"),
		lower == ":memory:":
		return "sqlite"

	case strings.HasSuffix(lower, ".db"),
		strings.HasSuffix(lower, ".sqlite"),
		strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	}

	// Default to postgres if no match
	return "postgres"
}

// openDatabase opens a connection pool for the dialect.
func openDatabase(dsn, dialectName, driver string) (*sql.DB, error) {
	switch dialectName {
	case "postgres":
		driverName := DriverPQ
		if strings.HasPrefix(strings.ToLower(dsn), "pgx://") {
			driverName = DriverPgx
			dsn = "postgres://" + dsn[len("pgx://"):]
		} else if driver == DriverPgx {
			driverName = DriverPgx
		} else if driver != "" && driver != DriverPQ {
			return nil, fmt.Errorf("unsupported postgres driver: %s", driver)
		}
		return sql.Open(driverName, dsn)

	case "sqlite":
		db, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, err
		}
		// SQLite allows one writer; a single connection also keeps :memory: intact.
		db.SetMaxOpenConns(1)
		return db, nil

	case "mysql":
		mdsn, err := mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
		return sql.Open("mysql", mdsn)

	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialectName)
	}
}

// sqliteDSN converts a sqlite:// URL or plain path to a modernc DSN with
// foreign keys enabled.
func sqliteDSN(dsn string) string {
	path := strings.TrimPrefix(dsn, "sqlite://")
	path = strings.TrimPrefix(path, "sqlite3://")
	path = strings.TrimPrefix(path, "file:")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + sqlitePragmas
}

// mysqlDSN converts a mysql:// URL to a go-sql-driver DSN. Native DSNs are
// parsed and re-encoded so both forms get parseTime.
func mysqlDSN(dsn string) (string, error) {
	var cfg *mysql.Config

	if strings.HasPrefix(strings.ToLower(dsn), "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", err
		}
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		if u.Port() == "" {
			cfg.Addr = u.Hostname() + ":3306"
		}
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		q := u.Query()
		if len(q) > 0 {
			cfg.Params = make(map[string]string, len(q))
			for k := range q {
				cfg.Params[k] = q.Get(k)
			}
		}
	} else {
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		cfg = parsed
	}

	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// redactURL removes sensitive information from a database URL for logging.
func redactURL(url string) string {
	// Pattern: ://user:password@ or user:password@tcp(
	start := strings.Index(url, "://")
	if start == -1 {
		start = 0
	} else {
		start += 3
	}

	end := strings.LastIndex(url, "@")
	if end == -1 || end < start {
		return url
	}

	credentials := url[start:end]
	if colonIdx := strings.Index(credentials, ":"); colonIdx != -1 {
		user := credentials[:colonIdx]
		return url[:start] + user + ":***@" + url[end+1:]
	}

	return url
}
