// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

// Package income implements the earning-tracking use cases for the Finstack
// platform.
//
// # Architecture
//
// The service orchestrates the [Repository] interface and knows nothing about
// HTTP or SQL. Every route consuming it sits behind the authentication
// middleware; authorization beyond "holds a valid token" is not enforced
// here — update and delete act on any income the id resolves to.
package income

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/dberr"
)

// Service implements income management use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// ListAll returns every income joined with its owner's public profile.
func (service *Service) ListAll(context context.Context) ([]IncomeWithUser, error) {
	results, err := service.repository.ListAll(context)
	if err != nil {
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return results, nil
}

// ListByUser returns the incomes belonging to one user.
//
// An unknown user is not an error: the result is simply empty, matching the
// listing semantics of the write-side FK (a bad user_id cannot exist here).
func (service *Service) ListByUser(context context.Context, userID string) ([]Income, error) {
	results, err := service.repository.ListByUser(context, userID)
	if err != nil {
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return results, nil
}

// CreateInput holds the data required to record a new income.
type CreateInput struct {
	UserID      string
	Source      string
	Amount      decimal.Decimal
	Date        time.Time
	Description *string
}

// Create persists a new income record and returns it with its generated
// ID and timestamps.
func (service *Service) Create(context context.Context, input CreateInput) (*Income, error) {
	income := &Income{
		UserID:      input.UserID,
		Source:      input.Source,
		Amount:      input.Amount,
		Date:        input.Date,
		Description: input.Description,
	}

	if err := service.repository.Create(context, income); err != nil {
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}

	return income, nil
}

// Update applies a partial update and returns the updated row.
func (service *Service) Update(context context.Context, id string, changes UpdateChanges) (*Income, error) {
	income, err := service.repository.Update(context, id, changes)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Income")
		}
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return income, nil
}

// Delete removes an income and returns the deleted row.
func (service *Service) Delete(context context.Context, id string) (*Income, error) {
	income, err := service.repository.Delete(context, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Income")
		}
		return nil, dberr.Classify(err, apperr.CodeDBQuery, "Database query failed")
	}
	return income, nil
}
