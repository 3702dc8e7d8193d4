package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"styledecor/internal/decorators/service"
	"styledecor/pkg/auth"
	httputil "styledecor/pkg/http"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type DecoratorHandler struct {
	service service.DecoratorService
	gate    *auth.Gate
	log     *logger.Logger
}

func NewDecoratorHandler(service service.DecoratorService, gate *auth.Gate, log *logger.Logger) *DecoratorHandler {
	return &DecoratorHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *DecoratorHandler) Apply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var decorator model.Decorator
	if err := json.NewDecoder(r.Body).Decode(&decorator); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Apply", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.service.Apply(r.Context(), principal, &decorator); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Apply", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, decorator); err != nil {
		h.log.Error("failed to write created response", "handler", "Apply", "operation", "WriteCreated", "error", err)
	}
}

func (h *DecoratorHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	filter := model.DecoratorFilter{
		Status:   r.URL.Query().Get("status"),
		Location: r.URL.Query().Get("location"),
	}

	offset := int64(page-1) * int64(limit)
	decorators, total, err := h.service.Search(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, decorators, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *DecoratorHandler) TopRated(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	decorators, err := h.service.TopRated(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TopRated", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, decorators); err != nil {
		h.log.Error("failed to write success response", "handler", "TopRated", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DecoratorHandler) GetByEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	decorator, err := h.service.GetByEmail(r.Context(), principal, ps.ByName("email"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByEmail", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, decorator); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByEmail", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DecoratorHandler) AdjustPending(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var delta model.TaskCounterDelta
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "AdjustPending", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
	}

	if err := h.service.AdjustPending(r.Context(), ps.ByName("id"), delta.Delta); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdjustPending", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DecoratorHandler) Review(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var review model.DecoratorReview
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "Review", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
	}

	if err := h.service.Review(r.Context(), ps.ByName("id"), &review); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Review", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DecoratorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DecoratorHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/decorators/top", h.TopRated)
	router.POST("/api/v1/decorators", h.gate.Require(model.RoleDecorator, h.Apply))
	router.GET("/api/v1/decorators/email/:email", h.gate.Require(model.RoleDecorator, h.GetByEmail))
	router.GET("/api/v1/decorators", h.gate.Require(model.RoleAdmin, h.Search))
	router.POST("/api/v1/decorators/id/:id/pending", h.gate.Require(model.RoleAdmin, h.AdjustPending))
	router.PATCH("/api/v1/decorators/id/:id/review", h.gate.Require(model.RoleAdmin, h.Review))
	router.DELETE("/api/v1/decorators/id/:id", h.gate.Require(model.RoleAdmin, h.Delete))
}
