package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"eposupdate/internal/config"
)

const (
	defaultMaxOpen         = 10
	defaultConnMaxLifetime = 30 * time.Minute
)

// pool is the connection pool shape applied to the record store.
type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// poolFor fills unset pool settings and caps idle connections at the open limit.
func poolFor(cfg *config.DBConfig) pool {
	p := pool{maxOpen: cfg.MaxOpen, maxIdle: cfg.MaxIdle, maxLifetime: cfg.ConnMaxLifetime}
	if p.maxOpen <= 0 {
		p.maxOpen = defaultMaxOpen
	}
	if p.maxIdle < 0 || p.maxIdle > p.maxOpen {
		p.maxIdle = p.maxOpen
	}
	if p.maxLifetime <= 0 {
		p.maxLifetime = defaultConnMaxLifetime
	}
	return p
}

// NewDB connects to the record store and checks it answers.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to record store %s/%s: %w", cfg.Host, cfg.Name, err)
	}
	p := poolFor(cfg)
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	return db, nil
}
