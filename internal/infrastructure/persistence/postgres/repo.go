package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fnb-insights/internal/application/dataset"
	authDomain "fnb-insights/internal/domain/auth"
	"fnb-insights/internal/domain/sales"
)

// Repo provides Postgres access for datasets, transactions and accounts.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// SaveDataset stores the dataset header and its rows in one transaction.
func (r *Repo) SaveDataset(ctx context.Context, ds dataset.Dataset) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	const headerQ = `
INSERT INTO datasets (name, created_at)
VALUES ($1, $2)
RETURNING id;
`
	createdAt := ds.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var id string
	if err := tx.QueryRowContext(ctx, headerQ, ds.Name, createdAt).Scan(&id); err != nil {
		return "", fmt.Errorf("insert dataset: %w", err)
	}

	const rowQ = `
INSERT INTO transactions (
    dataset_id, sales_date, branch, bill_number, net_sales, menu, qty,
    channel, payment_method, order_in, order_out, order_time
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	stmt, err := tx.PrepareContext(ctx, rowQ)
	if err != nil {
		return "", fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for _, row := range ds.Rows {
		if _, err := stmt.ExecContext(ctx, id,
			row.SalesDate,
			row.Branch,
			row.BillNumber,
			row.NetSales,
			row.Menu,
			row.Qty,
			nullableString(row.Channel),
			nullableString(row.PaymentMethod),
			nullableTime(row.OrderIn),
			nullableTime(row.OrderOut),
			nullableTime(row.OrderTime),
		); err != nil {
			return "", fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetDataset loads the dataset header and all of its rows.
func (r *Repo) GetDataset(ctx context.Context, id string) (dataset.Dataset, error) {
	const headerQ = `SELECT id, name, created_at FROM datasets WHERE id = $1;`
	var ds dataset.Dataset
	if err := r.db.QueryRowContext(ctx, headerQ, id).Scan(&ds.ID, &ds.Name, &ds.CreatedAt); err != nil {
		return dataset.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}

	const rowsQ = `
SELECT sales_date, branch, bill_number, net_sales, menu, qty,
       channel, payment_method, order_in, order_out, order_time
FROM transactions
WHERE dataset_id = $1
ORDER BY sales_date, bill_number;
`
	rows, err := r.db.QueryContext(ctx, rowsQ, id)
	if err != nil {
		return dataset.Dataset{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var t sales.Transaction
		var channel, payment sql.NullString
		var orderIn, orderOut, orderTime sql.NullTime
		if err := rows.Scan(
			&t.SalesDate,
			&t.Branch,
			&t.BillNumber,
			&t.NetSales,
			&t.Menu,
			&t.Qty,
			&channel,
			&payment,
			&orderIn,
			&orderOut,
			&orderTime,
		); err != nil {
			return dataset.Dataset{}, err
		}
		t.Channel = channel.String
		t.PaymentMethod = payment.String
		t.OrderIn = orderIn.Time
		t.OrderOut = orderOut.Time
		t.OrderTime = orderTime.Time
		ds.Rows = append(ds.Rows, t)
	}
	return ds, rows.Err()
}

// ListDatasets returns dataset headers with their row counts, newest last.
func (r *Repo) ListDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	const q = `
SELECT d.id, d.name, d.created_at
FROM datasets d
ORDER BY d.created_at, d.id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.Dataset
	for rows.Next() {
		var ds dataset.Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// FindByEmail looks up an account for login.
func (r *Repo) FindByEmail(ctx context.Context, email string) (authDomain.User, error) {
	const q = `
SELECT id, email, name, role, status, password_hash
FROM users
WHERE email = $1;
`
	return r.scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByID looks up an account by ID, used by the auth middleware.
func (r *Repo) FindByID(ctx context.Context, id string) (authDomain.User, error) {
	const q = `
SELECT id, email, name, role, status, password_hash
FROM users
WHERE id = $1;
`
	return r.scanUser(r.db.QueryRowContext(ctx, q, id))
}

// UpsertUser creates or updates an account keyed by email.
func (r *Repo) UpsertUser(ctx context.Context, u authDomain.User) (string, error) {
	const q = `
INSERT INTO users (email, name, role, status, password_hash)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email)
DO UPDATE SET name = EXCLUDED.name,
              role = EXCLUDED.role,
              status = EXCLUDED.status,
              password_hash = EXCLUDED.password_hash,
              updated_at = NOW()
RETURNING id;
`
	var id string
	err := r.db.QueryRowContext(ctx, q, u.Email, u.Name, string(u.Role), string(u.Status), u.PasswordHash).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) scanUser(row *sql.Row) (authDomain.User, error) {
	var u authDomain.User
	var role, status string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &status, &u.PasswordHash); err != nil {
		return authDomain.User{}, err
	}
	u.Role = authDomain.Role(role)
	u.Status = authDomain.Status(status)
	return u, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
