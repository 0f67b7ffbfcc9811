// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package expense

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finstack/finstack/internal/platform/dberr"
)

// memoryRepository is an in-memory [Repository] for handler tests.
type memoryRepository struct {
	expenses map[string]*Expense
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{expenses: make(map[string]*Expense)}
}

func (repository *memoryRepository) ListAll(_ context.Context) ([]ExpenseWithUser, error) {
	results := []ExpenseWithUser{}
	for _, expense := range repository.expenses {
		results = append(results, ExpenseWithUser{Expense: *expense})
	}
	return results, nil
}

func (repository *memoryRepository) ListByUser(_ context.Context, userID string) ([]Expense, error) {
	results := []Expense{}
	for _, expense := range repository.expenses {
		if expense.UserID == userID {
			results = append(results, *expense)
		}
	}
	return results, nil
}

func (repository *memoryRepository) Create(_ context.Context, expense *Expense) error {
	expense.ID = uuid.NewString()
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	repository.expenses[expense.ID] = expense
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, id string, changes UpdateChanges) (*Expense, error) {
	expense, ok := repository.expenses[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	if changes.ItemName != nil {
		expense.ItemName = *changes.ItemName
	}
	if changes.Amount != nil {
		expense.Amount = *changes.Amount
	}
	if changes.Date != nil {
		expense.Date = *changes.Date
	}
	if changes.Description != nil {
		expense.Description = changes.Description
	}
	return expense, nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (*Expense, error) {
	expense, ok := repository.expenses[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	delete(repository.expenses, id)
	return expense, nil
}

func newTestRouter() (http.Handler, *memoryRepository) {
	repository := newMemoryRepository()
	handler := NewHandler(NewService(repository))
	return handler.Routes(), repository
}

func performRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestCreateExpense_Success(t *testing.T) {
	router, repository := newTestRouter()
	userID := uuid.NewString()

	body := `{"user_id":"` + userID + `","item_name":"Groceries","amount":82.50,"date":"2026-08-01"}`
	recorder := performRequest(router, http.MethodPost, "/", body)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var created Expense
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Groceries", created.ItemName)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("82.50")))
	assert.Len(t, repository.expenses, 1)
}

/*
TestCreateExpense_Validation verifies that malformed payloads are rejected at
the boundary with VALIDATION_ERROR and never reach the repository.
*/
func TestCreateExpense_Validation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"missing_item_name", `{"user_id":"` + uuid.NewString() + `","amount":10,"date":"2026-08-01"}`},
		{"bad_user_id", `{"user_id":"nope","item_name":"Coffee","amount":10,"date":"2026-08-01"}`},
		{"bad_date", `{"user_id":"` + uuid.NewString() + `","item_name":"Coffee","amount":10,"date":"01/08/2026"}`},
		{"zero_amount", `{"user_id":"` + uuid.NewString() + `","item_name":"Coffee","date":"2026-08-01"}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			router, repository := newTestRouter()

			recorder := performRequest(router, http.MethodPost, "/", testCase.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
			assert.Empty(t, repository.expenses)
		})
	}
}

func TestCreateExpense_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter()

	recorder := performRequest(router, http.MethodPost, "/", `{"item_name":`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INVALID_JSON")
}

func TestUpdateExpense_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	recorder := performRequest(router, http.MethodPut, "/"+uuid.NewString(), `{"amount":12.00}`)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "NOT_FOUND")
}

/*
TestDeleteExpense_EchoesRow verifies the delete response carries the removed
row, per the API contract.
*/
func TestDeleteExpense_EchoesRow(t *testing.T) {
	router, repository := newTestRouter()
	userID := uuid.NewString()

	created := performRequest(router, http.MethodPost, "/",
		`{"user_id":"`+userID+`","item_name":"Monitor","amount":430,"date":"2026-07-15"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var expense Expense
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &expense))

	recorder := performRequest(router, http.MethodDelete, "/"+expense.ID, "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Monitor")
	assert.Empty(t, repository.expenses)
}

func TestListByUser_FiltersOwner(t *testing.T) {
	router, _ := newTestRouter()
	alice := uuid.NewString()
	bob := uuid.NewString()

	for _, owner := range []string{alice, alice, bob} {
		recorder := performRequest(router, http.MethodPost, "/",
			`{"user_id":"`+owner+`","item_name":"Lunch","amount":15,"date":"2026-08-20"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := performRequest(router, http.MethodGet, "/"+alice, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var expenses []Expense
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &expenses))
	assert.Len(t, expenses, 2)
}
