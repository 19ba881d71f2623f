package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkspotter-admin/internal/auth"
	"parkspotter-admin/internal/session"
)

type Handlers struct {
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Users      *UserHandler
	Plans      *PlanHandler
	Management *ManagementHandler
	Hub        *Hub
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter wires the public login route and the session-protected /admin routes.
// Mutations additionally require the admin role.
func NewRouter(h Handlers, resolver auth.Resolver) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, PrometheusMiddleware)

	// Public endpoints
	r.HandleFunc("/healthz", health).Methods("GET")
	r.HandleFunc("/api/login", h.Auth.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.SessionMiddleware(resolver))
	adminOnly := auth.RequireRole(session.RoleAdmin)

	admin.HandleFunc("/shell", h.Dashboard.Shell).Methods("GET")
	admin.HandleFunc("/search", h.Dashboard.Search).Methods("GET")
	admin.HandleFunc("/logout", h.Auth.Logout).Methods("POST")
	admin.HandleFunc("/overview", h.Dashboard.Overview).Methods("GET")
	admin.HandleFunc("/ws/overview", h.Hub.ServeOverview).Methods("GET")
	admin.HandleFunc("/analytics", h.Dashboard.Analytics).Methods("GET")

	admin.HandleFunc("/bookings", h.Dashboard.Bookings).Methods("GET")
	admin.HandleFunc("/bookings/export", h.Dashboard.ExportBookings()).Methods("GET")

	admin.HandleFunc("/users", h.Dashboard.Users).Methods("GET")
	admin.HandleFunc("/users/export", h.Dashboard.ExportUsers()).Methods("GET")
	admin.Handle("/users/{id:[0-9]+}/activate", adminOnly(h.Users.Activate())).Methods("POST")
	admin.Handle("/users/{id:[0-9]+}/deactivate", adminOnly(h.Users.Deactivate())).Methods("POST")

	admin.HandleFunc("/parkowners", h.Dashboard.ParkOwners).Methods("GET")
	admin.HandleFunc("/parkowners/export", h.Dashboard.ExportParkOwners()).Methods("GET")
	admin.HandleFunc("/parking-zones", h.Dashboard.ParkingZones).Methods("GET")
	admin.HandleFunc("/zones", h.Dashboard.Zones).Methods("GET")

	admin.HandleFunc("/subscriptions", h.Dashboard.Subscriptions).Methods("GET")
	admin.HandleFunc("/plans", h.Dashboard.Plans).Methods("GET")
	admin.Handle("/plans", adminOnly(http.HandlerFunc(h.Plans.Create))).Methods("POST")
	admin.Handle("/plans/{id:[0-9]+}", adminOnly(http.HandlerFunc(h.Plans.Update))).Methods("PUT")

	admin.HandleFunc("/management/{kind}", h.Management.List).Methods("GET")
	admin.Handle("/management/{kind}", adminOnly(http.HandlerFunc(h.Management.Create))).Methods("POST")
	admin.Handle("/management/{kind}/{id:[0-9]+}", adminOnly(http.HandlerFunc(h.Management.Update))).Methods("PUT")
	admin.Handle("/management/{kind}/{id:[0-9]+}", adminOnly(http.HandlerFunc(h.Management.Delete))).Methods("DELETE")

	return r
}
