package database

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/avdn/go-chatstore/internal/config"
	"github.com/avdn/go-chatstore/internal/stats"
)

const (
	metricQueries      = "QueriesTotal"
	metricTransactions = "TransactionsTotal"
	metricStoreErrors  = "StoreErrorsTotal"
)

// PgChatRepository implements ChatRepository against PostgreSQL. It wraps a
// database/sql pool; every statement is parameterized and borrows a pooled
// connection only for its own duration.
type PgChatRepository struct {
	conn  *sql.DB
	log   *log.Logger
	stats stats.StatsProvider
	now   func() int64
}

func NewPgChatRepository(logger *log.Logger, dsn string, sp stats.StatsProvider) (*PgChatRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if err := db.Ping(); err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if sp == nil {
		sp = stats.NoopStats{}
	}
	sp.RegisterMetric(metricQueries)
	sp.RegisterMetric(metricTransactions)
	sp.RegisterMetric(metricStoreErrors)

	logger.Println("connected to database")

	return &PgChatRepository{
		conn:  db,
		log:   logger,
		stats: sp,
		now:   func() int64 { return time.Now().Unix() },
	}, nil
}

// NewPgChatRepositoryFromConfig opens the pool with the configured size limits.
func NewPgChatRepositoryFromConfig(logger *log.Logger, cfg *config.Config, sp stats.StatsProvider) (*PgChatRepository, error) {
	repo, err := NewPgChatRepository(logger, cfg.DatabaseDSN, sp)
	if err != nil {
		return nil, err
	}

	repo.conn.SetMaxOpenConns(cfg.MaxOpenConns)
	repo.conn.SetMaxIdleConns(cfg.MaxIdleConns)

	return repo, nil
}

func (db *PgChatRepository) Close() error {
	if db.conn != nil {
		db.log.Println("closing database connection")
		return db.conn.Close()
	}
	return nil
}

func (db *PgChatRepository) Ping() error {
	return db.conn.Ping()
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the single-row and
// exec helpers work inside and outside transactions.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func (db *PgChatRepository) query(query string, args ...any) (*sql.Rows, error) {
	db.stats.Incr(metricQueries)
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		db.stats.Incr(metricStoreErrors)
	}
	return rows, err
}

func (db *PgChatRepository) queryRow(query string, args ...any) *sql.Row {
	db.stats.Incr(metricQueries)
	return db.conn.QueryRow(query, args...)
}

func (db *PgChatRepository) exec(query string, args ...any) (sql.Result, error) {
	db.stats.Incr(metricQueries)
	res, err := db.conn.Exec(query, args...)
	if err != nil {
		db.stats.Incr(metricStoreErrors)
	}
	return res, err
}

func (db *PgChatRepository) begin() (*sql.Tx, error) {
	db.stats.Incr(metricTransactions)
	return db.conn.Begin()
}

// rowErr maps the driver's no-row signal onto ErrNotFound and counts any
// other failure as a store error.
func (db *PgChatRepository) rowErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	db.stats.Incr(metricStoreErrors)
	return err
}

// execOne runs a statement expected to affect at least one row, mapping zero
// affected rows to ErrNotFound. Gated updates use that signal to detect a
// failed authorization predicate or a missing target.
func (db *PgChatRepository) execOne(q querier, query string, args ...any) error {
	db.stats.Incr(metricQueries)
	res, err := q.Exec(query, args...)
	if err != nil {
		db.stats.Incr(metricStoreErrors)
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
