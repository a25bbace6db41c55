package merchant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alovak/bacgateway/merchant/models"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var (
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("conflict")
)

// Schema creates the journal table used by the pg backend.
const Schema = `
CREATE SCHEMA IF NOT EXISTS journal;
CREATE TABLE IF NOT EXISTS journal.entries (
    entry_id           uuid PRIMARY KEY,
    operation          text        NOT NULL,
    order_id           text        NOT NULL DEFAULT '',
    amount             bigint      NOT NULL,
    currency           text        NOT NULL DEFAULT '',
    authorization_code text        NOT NULL DEFAULT '',
    succeeded          boolean     NOT NULL,
    message            text        NOT NULL DEFAULT '',
    error_code         text        NOT NULL DEFAULT '',
    avs_code           text        NOT NULL DEFAULT '',
    cvv_code           text        NOT NULL DEFAULT '',
    test               boolean     NOT NULL,
    created_at         timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS entries_order_id_idx ON journal.entries(order_id);
`

// Repository is the payment journal. Without a db it keeps entries in memory.
type Repository struct {
	mu      sync.RWMutex
	entries []*models.Entry
	index   map[string]*models.Entry

	db *sql.DB
}

func NewRepository() *Repository {
	return &Repository{
		entries: make([]*models.Entry, 0),
		index:   make(map[string]*models.Entry),
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate applies Schema. It is a no-op for the memory backend.
func (r *Repository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrating journal: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, e *models.Entry) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.index[e.ID]; ok {
			return fmt.Errorf("entry %s exists: %w", e.ID, ErrConflict)
		}
		cp := *e
		r.entries = append(r.entries, &cp)
		r.index[e.ID] = &cp
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO journal.entries(entry_id, operation, order_id, amount, currency, authorization_code,
                                    succeeded, message, error_code, avs_code, cvv_code, test, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, e.ID, string(e.Operation), e.OrderID, e.Amount, e.Currency, e.Authorization,
		e.Succeeded, e.Message, e.ErrorCode, e.AVSCode, e.CVVCode, e.Test, e.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("entry %s exists: %w", e.ID, ErrConflict)
	}
	return err
}

const selectEntry = `SELECT entry_id, operation, order_id, amount, currency, authorization_code,
       succeeded, message, error_code, avs_code, cvv_code, test, created_at
  FROM journal.entries`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var e models.Entry
	var op string
	err := s.Scan(&e.ID, &op, &e.OrderID, &e.Amount, &e.Currency, &e.Authorization,
		&e.Succeeded, &e.Message, &e.ErrorCode, &e.AVSCode, &e.CVVCode, &e.Test, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Operation = models.Operation(op)
	return &e, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Entry, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		e, ok := r.index[id]
		if !ok {
			return nil, ErrNotFound
		}
		cp := *e
		return &cp, nil
	}
	e, err := scanEntry(r.db.QueryRowContext(ctx, selectEntry+` WHERE entry_id=$1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListByOrder returns the entries of an order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]*models.Entry, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		var out []*models.Entry
		for _, e := range r.entries {
			if e.OrderID == orderID {
				cp := *e
				out = append(out, &cp)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, selectEntry+` WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Ping returns DB readiness
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
