package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"styledecor/internal/payments/service"
	"styledecor/pkg/auth"
	httputil "styledecor/pkg/http"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type PaymentHandler struct {
	service service.PaymentService
	gate    *auth.Gate
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, gate *auth.Gate, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateCheckout", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := h.service.CreateCheckout(r.Context(), principal, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateCheckout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateCheckout", "operation", "WriteCreated", "error", err)
	}
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Confirm", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := h.service.Confirm(r.Context(), principal, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	offset := int64(page-1) * int64(limit)
	payments, total, err := h.service.ListMine(r.Context(), principal, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, payments, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/checkout", h.gate.Require(model.RoleClient, h.CreateCheckout))
	router.POST("/api/v1/payments/confirm", h.gate.Require(model.RoleClient, h.Confirm))
	router.GET("/api/v1/payments/mine", h.gate.Require(model.RoleClient, h.ListMine))
}
