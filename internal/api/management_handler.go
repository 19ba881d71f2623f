package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkspotter-admin/internal/entities"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/service"
)

type ManagementHandler struct {
	Service *service.ManagementService
	Views   *listing.ViewStore
}

func NewManagementHandler(svc *service.ManagementService, views *listing.ViewStore) *ManagementHandler {
	return &ManagementHandler{Service: svc, Views: views}
}

type managementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

func (m managementRequest) toEntity() entities.ManagementItem {
	return entities.ManagementItem{Name: m.Name, Description: m.Description, Value: m.Value}
}

func (h *ManagementHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	in, err := listInput(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	kind := mux.Vars(r)["kind"]
	view, err := h.Service.List(r.Context(), kind, h.Views.Update(sess.ID, "management:"+kind, in))
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ManagementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req managementRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	created, err := h.Service.Create(r.Context(), mux.Vars(r)["kind"], req.toEntity())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ManagementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	var req managementRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), mux.Vars(r)["kind"], id, req.toEntity())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ManagementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["kind"], id); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}
