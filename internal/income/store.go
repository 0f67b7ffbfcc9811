// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package income

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// UpdateChanges carries the partial-update fields for an income.
// A nil field keeps the stored value.
type UpdateChanges struct {
	Source      *string
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
}

// Repository abstracts persistence of [Income] records.
//
// # Error Contract
//
// Absent rows surface as [dberr.ErrNotFound]; other failures are returned
// wrapped but raw, for the service layer to classify.
type Repository interface {
	// ListAll returns every income joined with its owner's profile.
	ListAll(ctx context.Context) ([]IncomeWithUser, error)

	// ListByUser returns the incomes belonging to one user.
	ListByUser(ctx context.Context, userID string) ([]Income, error)

	// Create persists a new income and fills in the generated ID and timestamps.
	Create(ctx context.Context, income *Income) error

	// Update applies the non-nil changes and returns the updated row.
	Update(ctx context.Context, id string, changes UpdateChanges) (*Income, error)

	// Delete removes the income and returns the deleted row.
	Delete(ctx context.Context, id string) (*Income, error)
}
