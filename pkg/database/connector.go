package database

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/escuela-api/pkg/config"
)

// Connector wraps the single client handle to the relational backend.
type Connector struct {
	db         *sqlx.DB
	configured bool
}

// NewConnector builds the backend handle from the endpoint URL and access key. Reachability is
// not checked here; an unreachable backend surfaces on the first query.
func NewConnector(cfg config.BackendConfig) (*Connector, error) {
	if !cfg.IsConfigured() {
		return &Connector{}, nil
	}

	dsn, err := buildDSN(cfg.URL, cfg.AccessKey)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	return &Connector{db: db, configured: true}, nil
}

// IsConfigured reports whether a live backend handle exists.
func (c *Connector) IsConfigured() bool {
	return c != nil && c.configured
}

// DB returns the backend handle, nil in mock mode.
func (c *Connector) DB() *sqlx.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// Close releases the handle if one was opened.
func (c *Connector) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func buildDSN(rawURL, accessKey string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported backend scheme %q", u.Scheme)
	}
	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, accessKey)

	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
