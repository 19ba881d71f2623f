package api

import (
	"context"
	"fmt"
	"net/http"

	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/service"
	"parkspotter-admin/internal/session"
)

// View names under which list state is kept per session.
const (
	viewBookings      = "bookings"
	viewUsers         = "users"
	viewParkOwners    = "parkowners"
	viewSubscriptions = "subscriptions"
	viewPlans         = "plans"
	viewParkingZones  = "parking-zones"
)

type DashboardHandler struct {
	Service *service.DashboardService
	Views   *listing.ViewStore
}

func NewDashboardHandler(svc *service.DashboardService, views *listing.ViewStore) *DashboardHandler {
	return &DashboardHandler{Service: svc, Views: views}
}

// state applies the request's q/order/page to the stored state of view.
func (h *DashboardHandler) state(w http.ResponseWriter, r *http.Request, view string) (session.Session, listing.State, bool) {
	sess, ok := currentSession(w, r)
	if !ok {
		return sess, listing.State{}, false
	}
	in, err := listInput(r)
	if err != nil {
		apperrors.WriteError(w, err)
		return sess, listing.State{}, false
	}
	return sess, h.Views.Update(sess.ID, view, in), true
}

func (h *DashboardHandler) Shell(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Shell(r.Context(), sess))
}

func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Search(r.Context(), sess, r.URL.Query().Get("q")))
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Overview(r.Context(), sess))
}

func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Analytics(r.Context(), sess))
}

func (h *DashboardHandler) Zones(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Zones(r.Context(), sess))
}

func (h *DashboardHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.state(w, r, viewBookings)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Bookings(r.Context(), sess, st))
}

func (h *DashboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.state(w, r, viewUsers)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Users(r.Context(), sess, st))
}

func (h *DashboardHandler) ParkOwners(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.state(w, r, viewParkOwners)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.ParkOwners(r.Context(), sess, st))
}

func (h *DashboardHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.state(w, r, viewSubscriptions)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Subscriptions(r.Context(), sess, st))
}

func (h *DashboardHandler) Plans(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.state(w, r, viewPlans)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Plans(r.Context(), sess, st))
}

func (h *DashboardHandler) ParkingZones(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.state(w, r, viewParkingZones)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.ParkingZones(r.Context(), sess, st.Query))
}

type exportFunc func(ctx context.Context, sess session.Session, st listing.State) (service.ExportFile, error)

// export serves a CSV of everything the view's current query matches.
func (h *DashboardHandler) export(view string, fn exportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, st, ok := h.state(w, r, view)
		if !ok {
			return
		}
		file, err := fn(r.Context(), sess, st)
		if err != nil {
			apperrors.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		if file.Degraded {
			w.Header().Set("X-Degraded", "true")
		}
		w.WriteHeader(http.StatusOK)
		w.Write(file.Data)
	}
}

func (h *DashboardHandler) ExportBookings() http.HandlerFunc {
	return h.export(viewBookings, h.Service.ExportBookings)
}

func (h *DashboardHandler) ExportUsers() http.HandlerFunc {
	return h.export(viewUsers, h.Service.ExportUsers)
}

func (h *DashboardHandler) ExportParkOwners() http.HandlerFunc {
	return h.export(viewParkOwners, h.Service.ExportParkOwners)
}
