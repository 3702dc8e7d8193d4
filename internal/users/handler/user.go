package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"styledecor/internal/users/service"
	"styledecor/pkg/auth"
	httputil "styledecor/pkg/http"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type UserHandler struct {
	service service.UserService
	gate    *auth.Gate
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, gate *auth.Gate, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	created, err := h.service.Register(r.Context(), principal, &user)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if !created {
		if writeErr := httputil.WriteMessage(w, http.StatusOK, "user exists"); writeErr != nil {
			h.log.Error("failed to write message response", "handler", "Register", "operation", "WriteMessage", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

// Role returns the requester's own stored role; the frontend uses it to
// pick a dashboard.
func (h *UserHandler) Role(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	role, err := h.service.RoleByEmail(r.Context(), principal)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Role", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"email": principal, "role": role}); err != nil {
		h.log.Error("failed to write success response", "handler", "Role", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	offset := int64(page-1) * int64(limit)
	users, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, users, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	var update model.RoleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateRole", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateRole(r.Context(), email, update.Role); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateRole", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users", h.gate.Authenticated(h.Register))
	router.GET("/api/v1/users/role", h.gate.Authenticated(h.Role))
	router.GET("/api/v1/users", h.gate.Require(model.RoleAdmin, h.GetAll))
	router.PATCH("/api/v1/users/email/:email/role", h.gate.Require(model.RoleAdmin, h.UpdateRole))
}
