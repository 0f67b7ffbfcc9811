// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package income

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finstack/finstack/internal/auth"
	"github.com/finstack/finstack/internal/platform/apperr"
	"github.com/finstack/finstack/internal/platform/dberr"
)

// memoryRepository is an in-memory [Repository] for service tests.
type memoryRepository struct {
	incomes map[string]*Income
	owners  map[string]auth.UserInfo
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		incomes: make(map[string]*Income),
		owners:  make(map[string]auth.UserInfo),
	}
}

func (repository *memoryRepository) ListAll(_ context.Context) ([]IncomeWithUser, error) {
	results := []IncomeWithUser{}
	for _, income := range repository.incomes {
		results = append(results, IncomeWithUser{
			Income: *income,
			User:   repository.owners[income.UserID],
		})
	}
	return results, nil
}

func (repository *memoryRepository) ListByUser(_ context.Context, userID string) ([]Income, error) {
	results := []Income{}
	for _, income := range repository.incomes {
		if income.UserID == userID {
			results = append(results, *income)
		}
	}
	return results, nil
}

func (repository *memoryRepository) Create(_ context.Context, income *Income) error {
	income.ID = uuid.NewString()
	income.CreatedAt = time.Now()
	income.UpdatedAt = income.CreatedAt
	repository.incomes[income.ID] = income
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, id string, changes UpdateChanges) (*Income, error) {
	income, ok := repository.incomes[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	if changes.Source != nil {
		income.Source = *changes.Source
	}
	if changes.Amount != nil {
		income.Amount = *changes.Amount
	}
	if changes.Date != nil {
		income.Date = *changes.Date
	}
	if changes.Description != nil {
		income.Description = changes.Description
	}
	income.UpdatedAt = time.Now()
	return income, nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (*Income, error) {
	income, ok := repository.incomes[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	delete(repository.incomes, id)
	return income, nil
}

func seedIncome(t *testing.T, service *Service, userID string) *Income {
	t.Helper()

	income, err := service.Create(context.Background(), CreateInput{
		UserID: userID,
		Source: "Salary",
		Amount: decimal.RequireFromString("5000.00"),
		Date:   time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return income
}

func TestCreate_StampsServerFields(t *testing.T) {
	service := NewService(newMemoryRepository())
	userID := uuid.NewString()

	income := seedIncome(t, service, userID)

	assert.NotEmpty(t, income.ID)
	assert.False(t, income.CreatedAt.IsZero())
	assert.False(t, income.UpdatedAt.IsZero())
	assert.Equal(t, userID, income.UserID)
	assert.True(t, income.Amount.Equal(decimal.RequireFromString("5000.00")))
}

func TestListByUser_FiltersOwner(t *testing.T) {
	service := NewService(newMemoryRepository())
	alice := uuid.NewString()
	bob := uuid.NewString()

	seedIncome(t, service, alice)
	seedIncome(t, service, alice)
	seedIncome(t, service, bob)

	incomes, err := service.ListByUser(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, incomes, 2)

	// An unknown user yields an empty list, not an error.
	incomes, err = service.ListByUser(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, incomes)
}

func TestUpdate_PartialChanges(t *testing.T) {
	service := NewService(newMemoryRepository())
	income := seedIncome(t, service, uuid.NewString())

	newAmount := decimal.RequireFromString("6500.50")
	updated, err := service.Update(context.Background(), income.ID, UpdateChanges{
		Amount: &newAmount,
	})
	require.NoError(t, err)

	// Only the amount changed; every omitted field kept its value.
	assert.True(t, updated.Amount.Equal(newAmount))
	assert.Equal(t, "Salary", updated.Source)
	assert.Equal(t, income.Date, updated.Date)
}

func TestUpdate_UnknownRow(t *testing.T) {
	service := NewService(newMemoryRepository())

	_, err := service.Update(context.Background(), uuid.NewString(), UpdateChanges{})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestDelete_EchoesRow verifies the delete contract: the removed row comes back
to the caller, and a second delete of the same id is NOT_FOUND.
*/
func TestDelete_EchoesRow(t *testing.T) {
	service := NewService(newMemoryRepository())
	income := seedIncome(t, service, uuid.NewString())

	deleted, err := service.Delete(context.Background(), income.ID)
	require.NoError(t, err)
	assert.Equal(t, income.ID, deleted.ID)
	assert.Equal(t, "Salary", deleted.Source)

	_, err = service.Delete(context.Background(), income.ID)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
