// Copyright (c) 2026 Finstack. All rights reserved.
// Author: dev@finstack.app

package income

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	requestutil "github.com/finstack/finstack/internal/platform/request"
	"github.com/finstack/finstack/internal/platform/respond"
	"github.com/finstack/finstack/internal/platform/validate"
)

// dateLayout is the wire format of the business date field (a calendar day,
// not an instant).
const dateLayout = "2006-01-02"

// Handler implements income-related HTTP endpoints.
type Handler struct {
	incomeService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{incomeService: service}
}

// Routes returns a [chi.Router] with the income routes. The caller mounts it
// behind the authentication middleware; no route here is public.
//
// # Endpoints
//   - GET    /          : All incomes with owner profiles.
//   - GET    /{userID}  : Incomes of one user.
//   - POST   /          : Records a new income.
//   - PUT    /{incomeID}: Partially updates an income.
//   - DELETE /{incomeID}: Deletes an income and echoes the removed row.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listAll)
	router.Get("/{userID}", handler.listByUser)
	router.Post("/", handler.create)
	router.Put("/{incomeID}", handler.update)
	router.Delete("/{incomeID}", handler.remove)

	return router
}

// listAll handles GET /api/incomes requests.
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	incomes, err := handler.incomeService.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, incomes)
}

// listByUser handles GET /api/incomes/{userID} requests.
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	if validator.UUID("user_id", userID); validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	incomes, err := handler.incomeService.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, incomes)
}

// createRequest represents the JSON payload for recording an income.
//
// Date travels as a YYYY-MM-DD string; Amount as a JSON number decoded
// through decimal to avoid float rounding.
type createRequest struct {
	UserID      string          `json:"user_id"`
	Source      string          `json:"source"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description *string         `json:"description"`
}

// create handles POST /api/incomes requests.
//
// # Returns
//   - Writes HTTP 201 Created with the persisted row.
//   - Writes HTTP 400 Bad Request if validation rules fail.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	date, dateErr := time.Parse(dateLayout, input.Date)

	validator := &validate.Validator{}
	validator.
		Required("user_id", input.UserID).
		UUID("user_id", input.UserID).
		Required("source", input.Source).
		Custom("amount", input.Amount.IsZero(), "This field is required").
		Custom("date", dateErr != nil, "Must be a valid date (YYYY-MM-DD)")

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	income, err := handler.incomeService.Create(request.Context(), CreateInput{
		UserID:      input.UserID,
		Source:      input.Source,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, income)
}

// updateRequest represents the JSON payload for a partial income update.
// Omitted fields keep their stored values.
type updateRequest struct {
	Source      *string          `json:"source"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
}

// update handles PUT /api/incomes/{incomeID} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	incomeID := requestutil.Param(request, "incomeID")

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
		UUID("income_id", incomeID).
		Custom("date", dateErr != nil, "Must be a valid date (YYYY-MM-DD)")

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	income, err := handler.incomeService.Update(request.Context(), incomeID, UpdateChanges{
		Source:      input.Source,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, income)
}

// remove handles DELETE /api/incomes/{incomeID} requests.
//
// The deleted row is echoed back so clients can offer an undo without a
// second fetch.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	incomeID := requestutil.Param(request, "incomeID")

	validator := &validate.Validator{}
	if validator.UUID("income_id", incomeID); validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	income, err := handler.incomeService.Delete(request.Context(), incomeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, income)
}
