package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/service"
	"github.com/ndewijer/folio/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// AllTransactions handles GET requests to list postings, newest first.
// Optional query parameters: asset, kind (comma separated), from, to.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of model.TransactionResponse
// Error: 400 Bad Request if a filter is malformed
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := request.ParseTransactionFilters(q.Get("asset"), q.Get("kind"), q.Get("from"), q.Get("to"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	rows, err := h.transactionService.GetTransactions(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rows)
}

// GetTransaction handles GET requests for the logical transaction a posting belongs to.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with model.JournalResponse
// Error: 404 Not Found if the posting does not exist
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	journal, err := h.transactionService.GetJournal(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, journal)
}

// CreateTransaction handles POST requests to record a logical transaction.
// A trade on a non-cash asset is balanced on the cash asset unless linkCash is false.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest
// Response: 201 Created with model.JournalResponse
// Error: 400 Bad Request if validation fails, the kind does not fit the asset or a sell exceeds the holding
// Error: 404 Not Found if the asset does not exist
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	journal, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create transaction")
		return
	}

	response.RespondJSON(w, http.StatusCreated, journal)
}

// UpdateTransaction handles PUT requests to edit a logical transaction through any
// of its postings. Both postings are regenerated.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with model.JournalResponse
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateTransaction(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	journal, err := h.transactionService.UpdateTransaction(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to update transaction")
		return
	}

	response.RespondJSON(w, http.StatusOK, journal)
}

// DeleteTransaction handles DELETE requests. The whole logical transaction is removed.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if transaction not found
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.transactionService.DeleteTransaction(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete transaction")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
