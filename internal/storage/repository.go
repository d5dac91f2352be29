package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bollette/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how payment dates are stored; ISO dates compare
// correctly as text, so range queries stay plain string comparisons.
const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The foreign_keys pragma must be on for payment rows to follow
	// their bill on delete.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateBill persists a new bill template and returns it with its
// assigned id.
func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bills (name, category, amount_cents, due_day, description, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.Name, string(b.Category), b.Amount.Cents, b.DueDay, b.Description, b.Active,
	)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("bill insert id: %w", err)
	}
	b.ID = id

	slog.InfoContext(ctx, "Bill saved",
		"id", b.ID,
		"name", b.Name,
		"category", b.Category,
		"amount_cents", b.Amount.Cents,
		"due_day", b.DueDay)

	return b, nil
}

func (r *SQLiteRepository) GetBill(ctx context.Context, id int64) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, amount_cents, due_day, description, active
		FROM bills
		WHERE id = ?`, id)

	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, core.ErrBillNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	return r.listBills(ctx, `
		SELECT id, name, category, amount_cents, due_day, description, active
		FROM bills
		ORDER BY name, id`)
}

// ListActiveBills returns the bills eligible for payment generation.
func (r *SQLiteRepository) ListActiveBills(ctx context.Context) ([]core.Bill, error) {
	return r.listBills(ctx, `
		SELECT id, name, category, amount_cents, due_day, description, active
		FROM bills
		WHERE active = 1
		ORDER BY name, id`)
}

func (r *SQLiteRepository) listBills(ctx context.Context, query string) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bills
		SET name = ?, category = ?, amount_cents = ?, due_day = ?, description = ?, active = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		b.Name, string(b.Category), b.Amount.Cents, b.DueDay, b.Description, b.Active, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bill affected rows: %w", err)
	}
	if affected == 0 {
		return core.ErrBillNotFound
	}
	return nil
}

// DeleteBill removes a bill; its payments go with it via the schema's
// ON DELETE CASCADE.
func (r *SQLiteRepository) DeleteBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bill affected rows: %w", err)
	}
	if affected == 0 {
		return core.ErrBillNotFound
	}

	slog.InfoContext(ctx, "Bill deleted", "id", id)
	return nil
}

// CreatePayment persists a new payment instance and returns it with its
// assigned id.
func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (bill_id, amount_cents, status, due_date, paid_date, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.BillID, p.Amount.Cents, string(p.Status), p.DueDate.Format(dateLayout), nullDate(p.PaidDate), p.Notes,
	)
	if err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("payment insert id: %w", err)
	}
	p.ID = id

	slog.InfoContext(ctx, "Payment saved",
		"id", p.ID,
		"bill_id", p.BillID,
		"amount_cents", p.Amount.Cents,
		"status", p.Status,
		"due_date", p.DueDate.Format(dateLayout))

	return p, nil
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id int64) (core.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, bill_id, amount_cents, status, due_date, paid_date, notes
		FROM payments
		WHERE id = ?`, id)

	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, core.ErrPaymentNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPaymentsByBill(ctx context.Context, billID int64) ([]core.Payment, error) {
	return r.listPayments(ctx, `
		SELECT id, bill_id, amount_cents, status, due_date, paid_date, notes
		FROM payments
		WHERE bill_id = ?
		ORDER BY due_date, id`, billID)
}

// ListPaymentsInRange returns the payments whose due date falls inside
// [from, to).
func (r *SQLiteRepository) ListPaymentsInRange(ctx context.Context, from, to time.Time) ([]core.Payment, error) {
	return r.listPayments(ctx, `
		SELECT id, bill_id, amount_cents, status, due_date, paid_date, notes
		FROM payments
		WHERE due_date >= ? AND due_date < ?
		ORDER BY due_date, id`,
		from.Format(dateLayout), to.Format(dateLayout))
}

func (r *SQLiteRepository) listPayments(ctx context.Context, query string, args ...any) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// BillPaymentExistsInRange reports whether the bill already has a
// payment due inside [from, to). The payment generator's duplicate
// check.
func (r *SQLiteRepository) BillPaymentExistsInRange(ctx context.Context, billID int64, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE bill_id = ? AND due_date >= ? AND due_date < ?
		)`,
		billID, from.Format(dateLayout), to.Format(dateLayout),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check payment exists: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, p core.Payment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET amount_cents = ?, status = ?, due_date = ?, paid_date = ?, notes = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Amount.Cents, string(p.Status), p.DueDate.Format(dateLayout), nullDate(p.PaidDate), p.Notes, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment affected rows: %w", err)
	}
	if affected == 0 {
		return core.ErrPaymentNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete payment affected rows: %w", err)
	}
	if affected == 0 {
		return core.ErrPaymentNotFound
	}
	return nil
}

// MarkOverdueBefore flips every pending payment due strictly before the
// cutoff to overdue and returns how many rows changed. Paid and already
// overdue payments are untouched by the status filter.
func (r *SQLiteRepository) MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE status = ? AND due_date < ?`,
		string(core.StatusOverdue), string(core.StatusPending), cutoff.Format(dateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("mark payments overdue: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark overdue affected rows: %w", err)
	}
	return affected, nil
}

// SumByStatusInRange sums payment amounts per status over [from, to).
// Statuses with no payments are absent from the map.
func (r *SQLiteRepository) SumByStatusInRange(ctx context.Context, from, to time.Time) (map[core.Status]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE due_date >= ? AND due_date < ?
		GROUP BY status`,
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("sum payments by status: %w", err)
	}
	defer rows.Close()

	sums := make(map[core.Status]int64)
	for rows.Next() {
		var status string
		var cents int64
		if err := rows.Scan(&status, &cents); err != nil {
			return nil, fmt.Errorf("scan status sum: %w", err)
		}
		sums[core.Status(status)] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status sums: %w", err)
	}
	return sums, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (core.Bill, error) {
	var b core.Bill
	var category string
	err := row.Scan(&b.ID, &b.Name, &category, &b.Amount.Cents, &b.DueDay, &b.Description, &b.Active)
	if err != nil {
		return core.Bill{}, err
	}
	b.Category = core.Category(category)
	return b, nil
}

func scanPayment(row rowScanner) (core.Payment, error) {
	var p core.Payment
	var status, dueDate string
	var paidDate sql.NullString
	err := row.Scan(&p.ID, &p.BillID, &p.Amount.Cents, &status, &dueDate, &paidDate, &p.Notes)
	if err != nil {
		return core.Payment{}, err
	}

	p.Status = core.Status(status)

	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return core.Payment{}, fmt.Errorf("parse due date %q: %w", dueDate, err)
	}
	p.DueDate = core.Date{Time: due}

	if paidDate.Valid && paidDate.String != "" {
		paid, err := time.Parse(dateLayout, paidDate.String)
		if err != nil {
			return core.Payment{}, fmt.Errorf("parse paid date %q: %w", paidDate.String, err)
		}
		p.PaidDate = core.Date{Time: paid}
	}

	return p, nil
}

func nullDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.Format(dateLayout)
}
