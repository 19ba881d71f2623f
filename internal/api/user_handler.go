package api

import (
	"net/http"

	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/service"
)

type UserHandler struct {
	Service *service.ActivationService
}

func NewUserHandler(svc *service.ActivationService) *UserHandler {
	return &UserHandler{Service: svc}
}

func (h *UserHandler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, err := pathID(r)
		if err != nil {
			apperrors.WriteError(w, err)
			return
		}
		u, err := h.Service.SetActive(r.Context(), sess, int(id), active)
		if err != nil {
			apperrors.WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (h *UserHandler) Activate() http.HandlerFunc   { return h.setActive(true) }
func (h *UserHandler) Deactivate() http.HandlerFunc { return h.setActive(false) }
