package api

import (
	"net/http"

	"parkspotter-admin/internal/entities"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/service"
)

type PlanHandler struct {
	Service *service.PlanService
}

func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{Service: svc}
}

type planRequest struct {
	Name           string  `json:"name"`
	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"discount"`
}

func (p planRequest) toEntity() entities.SubscriptionPackage {
	return entities.SubscriptionPackage{Name: p.Name, DurationMonths: p.DurationMonths, Price: p.Price, Discount: p.Discount}
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	created, err := h.Service.Create(r.Context(), sess, req.toEntity())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), sess, int(id), req.toEntity())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
