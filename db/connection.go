package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and addresses the database backend
type Options struct {
	Driver string

	// SQLite database file
	Path string

	// PostgreSQL connection parameters
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (o Options) flavor() sqlbuilder.Flavor {
	if o.Driver == DriverPostgres {
		return sqlbuilder.PostgreSQL
	}
	return sqlbuilder.SQLite
}

func (o Options) validate() error {
	switch o.Driver {
	case DriverSQLite:
		if o.Path == "" {
			return fmt.Errorf("sqlite database path is required")
		}
	case DriverPostgres:
		if o.Host == "" || o.Name == "" {
			return fmt.Errorf("postgres host and database name are required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", o.Driver)
	}
	return nil
}

// Build the lib/pq key/value connection string
func buildConnectionString(host string, port int, user, password, dbname string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)
}

// migrationURL is the database URL golang-migrate expects for the backend
func (o Options) migrationURL() string {
	if o.Driver == DriverPostgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(o.User, o.Password),
			Host:     fmt.Sprintf("%s:%d", o.Host, o.Port),
			Path:     "/" + o.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}
	return "sqlite://" + o.Path
}

func connection(opts Options) (*sql.DB, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.Driver == DriverPostgres {
		db, err := sql.Open("postgres", buildConnectionString(opts.Host, opts.Port, opts.User, opts.Password, opts.Name))
		if err != nil {
			return nil, err
		}

		db.SetMaxOpenConns(20)           // Allow multiple concurrent operations
		db.SetMaxIdleConns(10)           // Keep some connections ready
		db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
		db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour
		return db, nil
	}

	// Enable foreign keys and WAL mode
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", opts.Path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)            // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)            // Keep one connection in the pool
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -32000; -- 32MB cache
		PRAGMA temp_store = MEMORY;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	return db, nil
}
