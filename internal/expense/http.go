// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package expense

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	requestutil "github.com/finstack/finstack/internal/platform/request"
	"github.com/finstack/finstack/internal/platform/respond"
	"github.com/finstack/finstack/internal/platform/validate"
)

const dateLayout = "2006-01-02"

// Handler implements expense-related HTTP endpoints.
type Handler struct {
	expenseService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{expenseService: service}
}

// Routes returns a [chi.Router] with the expense routes. The caller mounts it
// behind the authentication middleware; no route here is public.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listAll)
	router.Get("/{userID}", handler.listByUser)
	router.Post("/", handler.create)
	router.Put("/{expenseID}", handler.update)
	router.Delete("/{expenseID}", handler.remove)

	return router
}

// listAll handles GET /api/expenses requests.
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	expenses, err := handler.expenseService.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, expenses)
}

// listByUser handles GET /api/expenses/{userID} requests.
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	if validator.UUID("user_id", userID); validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	expenses, err := handler.expenseService.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, expenses)
}

// createRequest represents the JSON payload for recording an expense.
type createRequest struct {
	UserID      string          `json:"user_id"`
	ItemName    string          `json:"item_name"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description *string         `json:"description"`
}

// create handles POST /api/expenses requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	date, dateErr := time.Parse(dateLayout, input.Date)

	validator := &validate.Validator{}
	validator.
		Required("user_id", input.UserID).
		UUID("user_id", input.UserID).
		Required("item_name", input.ItemName).
		Custom("amount", input.Amount.IsZero(), "This field is required").
		Custom("date", dateErr != nil, "Must be a valid date (YYYY-MM-DD)")

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	expense, err := handler.expenseService.Create(request.Context(), CreateInput{
		UserID:      input.UserID,
		ItemName:    input.ItemName,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, expense)
}

// updateRequest represents the JSON payload for a partial expense update.
// Omitted fields keep their stored values.
type updateRequest struct {
	ItemName    *string          `json:"item_name"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
}

// update handles PUT /api/expenses/{expenseID} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	expenseID := requestutil.Param(request, "expenseID")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var date *time.Time
	var dateErr error
	if input.Date != nil {
		parsed, err := time.Parse(dateLayout, *input.Date)
		date, dateErr = &parsed, err
	}

	validator := &validate.Validator{}
	validator.
		UUID("expense_id", expenseID).
		Custom("date", dateErr != nil, "Must be a valid date (YYYY-MM-DD)")

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	expense, err := handler.expenseService.Update(request.Context(), expenseID, UpdateChanges{
		ItemName:    input.ItemName,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, expense)
}

// remove handles DELETE /api/expenses/{expenseID} requests. The deleted row
// is echoed back in the response body.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	expenseID := requestutil.Param(request, "expenseID")

	validator := &validate.Validator{}
	if validator.UUID("expense_id", expenseID); validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	expense, err := handler.expenseService.Delete(request.Context(), expenseID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, expense)
}
