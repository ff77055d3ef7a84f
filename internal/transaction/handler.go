package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nixfunds/finance-api/internal/apperror"
	"github.com/nixfunds/finance-api/internal/auth"
	"github.com/nixfunds/finance-api/internal/httputil"
	"github.com/nixfunds/finance-api/internal/logging"
)

// Handler exposes the transaction routes. All of them sit behind
// auth.Middleware.RequireAuth.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the handlers under the caller's router group
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/summary", h.Summary)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns the caller's transactions
// @Summary      List transactions
// @Description  Return every transaction owned by the authenticated user
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  Transaction
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/transactions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.NewUnauthorized("Not authorized", nil))
		return
	}

	txs, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, r, txs, http.StatusOK)
}

// Create stores a new transaction for the caller
// @Summary      Create transaction
// @Description  Record an income or expense. The owner is always the authenticated user.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Payload true "Transaction"
// @Success      201 {object} Transaction
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/transactions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.NewUnauthorized("Not authorized", nil))
		return
	}

	var p Payload
	if err := httputil.DecodeJSON(w, r, &p); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	tx, err := h.service.Create(r.Context(), ownerID, p)
	if err != nil {
		logger.Warn("transaction create failed", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("transaction created", "transaction_id", tx.ID, "user_id", ownerID)
	httputil.RespondJSON(w, r, tx, http.StatusCreated)
}

// Update replaces a transaction the caller owns
// @Summary      Update transaction
// @Description  Replace description, amount, category and type. The date changes only when supplied.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string  true "Transaction ID"
// @Param        request body Payload true "Transaction"
// @Success      200 {object} Transaction
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Transaction not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/transactions/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.NewUnauthorized("Not authorized", nil))
		return
	}

	var p Payload
	if err := httputil.DecodeJSON(w, r, &p); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	tx, err := h.service.Update(r.Context(), ownerID, id, p)
	if err != nil {
		logger.Warn("transaction update failed", "transaction_id", id, "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("transaction updated", "transaction_id", tx.ID)
	httputil.RespondJSON(w, r, tx, http.StatusOK)
}

// Delete removes a transaction the caller owns
// @Summary      Delete transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Transaction ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Transaction not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/transactions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.NewUnauthorized("Not authorized", nil))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		logger.Warn("transaction delete failed", "transaction_id", id, "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("transaction deleted", "transaction_id", id)
	httputil.RespondMessage(w, r, "Transaction deleted", http.StatusOK)
}

// Summary returns income, expense and balance totals for the caller
// @Summary      Transaction summary
// @Description  Income, expense and balance totals plus expenses per category
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Summary
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/transactions/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.NewUnauthorized("Not authorized", nil))
		return
	}

	sum, err := h.service.Summarize(r.Context(), ownerID)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, r, sum, http.StatusOK)
}
