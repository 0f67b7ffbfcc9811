// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finstack/finstack/internal/auth"
)

// Expense is a single spending record belonging to a user.
type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	ItemName    string          `json:"item_name"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseWithUser pairs an expense with the public profile of its owner.
type ExpenseWithUser struct {
	Expense
	User auth.UserInfo `json:"user"`
}
