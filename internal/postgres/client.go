package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/jackc/pgx/v5"
)

// Session is what the adapter needs from one live connection.
type Session interface {
	ListDatabases(ctx context.Context) ([]string, error)
	DatabaseSizes(ctx context.Context) (map[string]string, error)
	ConnectionCount(ctx context.Context) (int64, error)
	ListTables(ctx context.Context) ([]string, error)
	DatabaseExists(ctx context.Context, name string) (bool, error)
	TerminateConnections(ctx context.Context, name string) (int64, error)
	DropDatabase(ctx context.Context, name string) error
	Close(ctx context.Context) error
}

// Dialer opens a session connected to the given database.
type Dialer func(ctx context.Context, database string) (Session, error)

// NewDialer dials real servers with a fresh pgx connection per call.
func NewDialer(cfg config.PostgresConfig) Dialer {
	return func(ctx context.Context, database string) (Session, error) {
		return Connect(ctx, ConnectionString(cfg, database))
	}
}

// ConnectionString builds a postgres:// URL, escaping credentials.
func ConnectionString(cfg config.PostgresConfig, database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + database,
	}
	return u.String()
}

// Conn is a single, unpooled connection.
type Conn struct {
	conn *pgx.Conn
}

func Connect(ctx context.Context, connectionString string) (*Conn, error) {
	conn, err := pgx.Connect(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &Conn{conn: conn}, nil
}

func (c *Conn) ListDatabases(ctx context.Context) ([]string, error) {
	query := "SELECT datname FROM pg_database WHERE datistemplate = false"

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	databases, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan databases: %w", err)
	}

	return databases, nil
}

func (c *Conn) DatabaseSizes(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT datname, pg_size_pretty(pg_database_size(datname))
		FROM pg_database
		WHERE datistemplate = false
	`

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query database sizes: %w", err)
	}
	defer rows.Close()

	sizes := make(map[string]string)
	for rows.Next() {
		var name, size string
		if err := rows.Scan(&name, &size); err != nil {
			return nil, fmt.Errorf("failed to scan database size: %w", err)
		}
		sizes[name] = size
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read database sizes: %w", err)
	}

	return sizes, nil
}

func (c *Conn) ConnectionCount(ctx context.Context) (int64, error) {
	var count int64
	query := "SELECT count(*) FROM pg_stat_activity"

	if err := c.conn.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count connections: %w", err)
	}

	return count, nil
}

// ListTables lists the public tables of the connected database, sorted by name.
func (c *Conn) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name::text
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tables: %w", err)
	}

	return tables, nil
}

func (c *Conn) DatabaseExists(ctx context.Context, name string) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)"

	var exists bool
	if err := c.conn.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}

	return exists, nil
}

// TerminateConnections kills every other backend attached to the database
// and returns how many were signalled.
func (c *Conn) TerminateConnections(ctx context.Context, name string) (int64, error) {
	query := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1
		AND pid <> pg_backend_pid()
	`

	tag, err := c.conn.Exec(ctx, query, name)
	if err != nil {
		return 0, fmt.Errorf("failed to terminate connections to %s: %w", name, err)
	}

	return tag.RowsAffected(), nil
}

func (c *Conn) DropDatabase(ctx context.Context, name string) error {
	// DROP DATABASE takes no bind parameters, so the identifier is quoted instead
	query := "DROP DATABASE " + pgx.Identifier{name}.Sanitize()

	if _, err := c.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", name, err)
	}

	return nil
}

func (c *Conn) Close(ctx context.Context) error {
	if c.conn != nil {
		err := c.conn.Close(ctx)
		c.conn = nil
		return err
	}
	return nil
}
