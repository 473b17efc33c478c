package ledger

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore persists reservations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed reservation ledger.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the reservations table if it does not exist. The
// schema is small enough that versioned migrations would be overkill.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reservations (
			reservation_id       TEXT PRIMARY KEY,
			order_id             TEXT NOT NULL DEFAULT '',
			reference_id         TEXT NOT NULL,
			domain               TEXT NOT NULL,
			buyer                TEXT NOT NULL,
			created_at           TIMESTAMPTZ NOT NULL,
			commit_tx_approved   BOOLEAN NOT NULL DEFAULT FALSE,
			purchase_tx_approved BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS reservations_order_id_idx ON reservations (order_id) WHERE order_id <> '';
	`)
	if err != nil {
		return fmt.Errorf("ensure reservations schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, r Reservation) error {
	query := `
		INSERT INTO reservations (
			reservation_id, order_id, reference_id, domain, buyer, created_at,
			commit_tx_approved, purchase_tx_approved
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ReservationID, r.OrderID, r.ReferenceID, r.Domain, r.Buyer, r.CreatedAt,
		r.CommitTxApproved, r.PurchaseTxApproved,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByReservationID(ctx context.Context, reservationID string) (Reservation, error) {
	return s.findOne(ctx, `WHERE reservation_id = $1`, reservationID)
}

func (s *PostgresStore) FindByOrderID(ctx context.Context, orderID string) (Reservation, error) {
	return s.findOne(ctx, `WHERE order_id = $1 AND order_id <> ''`, orderID)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg string) (Reservation, error) {
	query := `
		SELECT reservation_id, order_id, reference_id, domain, buyer, created_at,
		       commit_tx_approved, purchase_tx_approved
		FROM reservations ` + where
	var r Reservation
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&r.ReservationID, &r.OrderID, &r.ReferenceID, &r.Domain, &r.Buyer, &r.CreatedAt,
		&r.CommitTxApproved, &r.PurchaseTxApproved,
	)
	if err == sql.ErrNoRows {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("query reservation: %w", err)
	}
	return r, nil
}

// AttachOrder sets the order id on a reservation exactly once. The guarded
// UPDATE makes the read-modify-write atomic per record under concurrent
// purchase calls.
func (s *PostgresStore) AttachOrder(ctx context.Context, reservationID, orderID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reservations SET order_id = $2
		WHERE reservation_id = $1 AND order_id = ''
	`, reservationID, orderID)
	if err != nil {
		return fmt.Errorf("attach order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach order rows: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.FindByReservationID(ctx, reservationID); err != nil {
		return err
	}
	return ErrOrderAttached
}
