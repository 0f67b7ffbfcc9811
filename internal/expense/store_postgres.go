// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finstack/finstack/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// expenseColumns is the canonical scan order shared by every query here.
const expenseColumns = "e.id, e.user_id, e.item_name, e.amount, e.date, e.description, e.created_at, e.updated_at"

// ListAll returns every expense joined with its owner's public profile.
func (repository *PostgresRepository) ListAll(ctx context.Context) ([]ExpenseWithUser, error) {
	const query = `
		SELECT ` + expenseColumns + `,
		       u.id, u.first_name, u.last_name, u.email
		FROM expenses e
		INNER JOIN users u ON u.id = e.user_id
		ORDER BY e.date DESC, e.created_at DESC`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_expense_repo_list_all_failed: %w", err)
	}
	defer rows.Close()

	results := []ExpenseWithUser{}
	for rows.Next() {
		var row ExpenseWithUser
		err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.ItemName,
			&row.Amount,
			&row.Date,
			&row.Description,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.User.ID,
			&row.User.FirstName,
			&row.User.LastName,
			&row.User.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_expense_repo_scan_failed: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_expense_repo_list_all_failed: %w", err)
	}

	return results, nil
}

// ListByUser returns the expenses belonging to one user, newest first.
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Expense, error) {
	const query = `
		SELECT ` + expenseColumns + `
		FROM expenses e
		WHERE e.user_id = $1
		ORDER BY e.date DESC, e.created_at DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_expense_repo_list_by_user_failed: %w", err)
	}
	defer rows.Close()

	results := []Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_expense_repo_list_by_user_failed: %w", err)
	}

	return results, nil
}

// Create persists a new expense record; RETURNING copies the generated ID
// and timestamps back into the entity.
func (repository *PostgresRepository) Create(ctx context.Context, expense *Expense) error {
	const query = `
		INSERT INTO expenses (user_id, item_name, amount, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := repository.pool.QueryRow(ctx, query,
		expense.UserID,
		expense.ItemName,
		expense.Amount,
		expense.Date,
		expense.Description,
	).Scan(
		&expense.ID,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_expense_repo_create_failed: %w", err)
	}

	return nil
}

// Update applies the non-nil changes and returns the updated row.
func (repository *PostgresRepository) Update(ctx context.Context, id string, changes UpdateChanges) (*Expense, error) {
	const query = `
		UPDATE expenses e
		SET item_name   = COALESCE($2, e.item_name),
		    amount      = COALESCE($3, e.amount),
		    date        = COALESCE($4, e.date),
		    description = COALESCE($5, e.description),
		    updated_at  = now()
		WHERE e.id = $1
		RETURNING ` + expenseColumns

	row := repository.pool.QueryRow(ctx, query,
		id,
		changes.ItemName,
		changes.Amount,
		changes.Date,
		changes.Description,
	)

	return scanExpenseRow(row, "postgres_expense_repo_update_failed")
}

// Delete removes the expense and returns the deleted row.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) (*Expense, error) {
	const query = `
		DELETE FROM expenses e
		WHERE e.id = $1
		RETURNING ` + expenseColumns

	row := repository.pool.QueryRow(ctx, query, id)

	return scanExpenseRow(row, "postgres_expense_repo_delete_failed")
}

// scanExpense reads one expense out of a multi-row result set.
func scanExpense(rows pgx.Rows) (*Expense, error) {
	expense := &Expense{}
	err := rows.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.ItemName,
		&expense.Amount,
		&expense.Date,
		&expense.Description,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_expense_repo_scan_failed: %w", err)
	}
	return expense, nil
}

// scanExpenseRow reads a single-row result, mapping absence to dberr.ErrNotFound.
func scanExpenseRow(row pgx.Row, failureLabel string) (*Expense, error) {
	expense := &Expense{}
	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.ItemName,
		&expense.Amount,
		&expense.Date,
		&expense.Description,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", failureLabel, err)
	}
	return expense, nil
}
