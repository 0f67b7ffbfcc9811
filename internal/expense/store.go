// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// UpdateChanges carries the partial-update fields for an expense.
// A nil field keeps the stored value.
type UpdateChanges struct {
	ItemName    *string
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
}

// Repository abstracts persistence of [Expense] records. The error contract
// matches the income repository: [dberr.ErrNotFound] for absent rows, raw
// wrapped errors otherwise.
type Repository interface {
	ListAll(ctx context.Context) ([]ExpenseWithUser, error)
	ListByUser(ctx context.Context, userID string) ([]Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, id string, changes UpdateChanges) (*Expense, error)
	Delete(ctx context.Context, id string) (*Expense, error)
}
