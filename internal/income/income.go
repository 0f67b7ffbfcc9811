// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package income

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finstack/finstack/internal/auth"
)

// Income is a single earning record belonging to a user.
//
// Amount is a decimal, never a float: money survives the trip through JSON,
// pgx, and arithmetic without binary rounding.
type Income struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Source      string          `json:"source"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IncomeWithUser pairs an income with the public profile of its owner.
// It is the row shape of the admin-style "all incomes" listing.
type IncomeWithUser struct {
	Income
	User auth.UserInfo `json:"user"`
}
