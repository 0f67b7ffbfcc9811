// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package income

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

// incomeColumns is the canonical scan order shared by every query here.
const incomeColumns = "i.id, i.user_id, i.source, i.amount, i.date, i.description, i.created_at, i.updated_at"

// ListAll returns every income joined with its owner's public profile.
func (repository *PostgresRepository) ListAll(ctx context.Context) ([]IncomeWithUser, error) {
	const query = `
		SELECT ` + incomeColumns + `,
		       u.id, u.first_name, u.last_name, u.email
		FROM incomes i
		INNER JOIN users u ON u.id = i.user_id
		ORDER BY i.date DESC, i.created_at DESC`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_income_repo_list_all_failed: %w", err)
	}
	defer rows.Close()

	results := []IncomeWithUser{}
	for rows.Next() {
		var row IncomeWithUser
		err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Source,
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
			return nil, fmt.Errorf("postgres_income_repo_scan_failed: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_income_repo_list_all_failed: %w", err)
	}

	return results, nil
}

// ListByUser returns the incomes belonging to one user, newest first.
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Income, error) {
	const query = `
		SELECT ` + incomeColumns + `
		FROM incomes i
		WHERE i.user_id = $1
		ORDER BY i.date DESC, i.created_at DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_income_repo_list_by_user_failed: %w", err)
	}
	defer rows.Close()

	results := []Income{}
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *income)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_income_repo_list_by_user_failed: %w", err)
	}

	return results, nil
}

// Create persists a new income record.
//
// The database generates the ID and both timestamps; RETURNING copies them
// back into the entity.
func (repository *PostgresRepository) Create(ctx context.Context, income *Income) error {
	const query = `
		INSERT INTO incomes (user_id, source, amount, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := repository.pool.QueryRow(ctx, query,
		income.UserID,
		income.Source,
		income.Amount,
		income.Date,
		income.Description,
	).Scan(
		&income.ID,
		&income.CreatedAt,
		&income.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_income_repo_create_failed: %w", err)
	}

	return nil
}

// Update applies the non-nil changes and returns the updated row.
//
// COALESCE keeps the stored value for every field the client omitted, so a
// partial update needs a single round trip.
func (repository *PostgresRepository) Update(ctx context.Context, id string, changes UpdateChanges) (*Income, error) {
	const query = `
		UPDATE incomes i
		SET source      = COALESCE($2, i.source),
		    amount      = COALESCE($3, i.amount),
		    date        = COALESCE($4, i.date),
		    description = COALESCE($5, i.description),
		    updated_at  = now()
		WHERE i.id = $1
		RETURNING ` + incomeColumns

	row := repository.pool.QueryRow(ctx, query,
		id,
		changes.Source,
		changes.Amount,
		changes.Date,
		changes.Description,
	)

	return scanIncomeRow(row, "postgres_income_repo_update_failed")
}

// Delete removes the income and returns the deleted row, mirroring the API
// contract of echoing what was removed.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) (*Income, error) {
	const query = `
		DELETE FROM incomes i
		WHERE i.id = $1
		RETURNING ` + incomeColumns

	row := repository.pool.QueryRow(ctx, query, id)

	return scanIncomeRow(row, "postgres_income_repo_delete_failed")
}

// scanIncome reads one income out of a multi-row result set.
func scanIncome(rows pgx.Rows) (*Income, error) {
	income := &Income{}
	err := rows.Scan(
		&income.ID,
		&income.UserID,
		&income.Source,
		&income.Amount,
		&income.Date,
		&income.Description,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_income_repo_scan_failed: %w", err)
	}
	return income, nil
}

// scanIncomeRow reads a single-row result, mapping absence to dberr.ErrNotFound.
func scanIncomeRow(row pgx.Row, failureLabel string) (*Income, error) {
	income := &Income{}
	err := row.Scan(
		&income.ID,
		&income.UserID,
		&income.Source,
		&income.Amount,
		&income.Date,
		&income.Description,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", failureLabel, err)
	}
	return income, nil
}
