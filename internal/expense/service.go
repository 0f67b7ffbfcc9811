// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package expense implements the spending-tracking use cases for the Finstack
// platform. It mirrors the income package; the two are kept separate because
// their schemas and reporting semantics are expected to diverge.
package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/dberr"
)

// Service implements expense management use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// ListAll returns every expense joined with its owner's public profile.
func (service *Service) ListAll(context context.Context) ([]ExpenseWithUser, error) {
	results, err := service.repository.ListAll(context)
	if err != nil {
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return results, nil
}

// ListByUser returns the expenses belonging to one user. An unknown user
// yields an empty list, not an error.
func (service *Service) ListByUser(context context.Context, userID string) ([]Expense, error) {
	results, err := service.repository.ListByUser(context, userID)
	if err != nil {
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return results, nil
}

// CreateInput holds the data required to record a new expense.
type CreateInput struct {
	UserID      string
	ItemName    string
	Amount      decimal.Decimal
	Date        time.Time
	Description *string
}

// Create persists a new expense record and returns it with its generated
// ID and timestamps.
func (service *Service) Create(context context.Context, input CreateInput) (*Expense, error) {
	expense := &Expense{
		UserID:      input.UserID,
		ItemName:    input.ItemName,
		Amount:      input.Amount,
		Date:        input.Date,
		Description: input.Description,
	}

	if err := service.repository.Create(context, expense); err != nil {
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}

	return expense, nil
}

// Update applies a partial update and returns the updated row.
func (service *Service) Update(context context.Context, id string, changes UpdateChanges) (*Expense, error) {
	expense, err := service.repository.Update(context, id, changes)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Expense")
		}
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return expense, nil
}

// Delete removes an expense and returns the deleted row.
func (service *Service) Delete(context context.Context, id string) (*Expense, error) {
	expense, err := service.repository.Delete(context, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Expense")
		}
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return expense, nil
}
