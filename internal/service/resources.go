package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"parkspotter-admin/internal/backend"
	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/resource"
)

// Backend is the subset of the ParkSpotter API the dashboard uses. *backend.Client implements it.
type Backend interface {
	ListUsers(ctx context.Context, token string) ([]entities.User, error)
	ListParkOwners(ctx context.Context, token string) ([]entities.ParkOwner, error)
	ListCustomers(ctx context.Context, token string) ([]entities.Customer, error)
	ListEmployees(ctx context.Context, token string) ([]entities.Employee, error)
	ListBookings(ctx context.Context, token string, page int) ([]entities.Booking, error)
	ListSubscriptionPackages(ctx context.Context, token string) ([]entities.SubscriptionPackage, error)
	CreateSubscriptionPackage(ctx context.Context, token string, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error)
	UpdateSubscriptionPackage(ctx context.Context, token string, id int, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error)
	DashboardSummary(ctx context.Context, token string) (entities.DashboardSummary, error)
	Login(ctx context.Context, username, password string) (backend.LoginResult, error)
	Logout(ctx context.Context, token string) error
	SetUserActive(ctx context.Context, token string, id int, active bool) error
}

// maxBookingPages bounds how far the bookings walk goes when the backend never returns an
// empty page.
const maxBookingPages = 50

// Resources holds one cached resource per backend list, keyed by session id. Every page loads
// from here.
type Resources struct {
	Users      *resource.Resource[[]entities.User]
	ParkOwners *resource.Resource[[]entities.ParkOwner]
	Customers  *resource.Resource[[]entities.Customer]
	Employees  *resource.Resource[[]entities.Employee]
	Bookings   *resource.Resource[[]entities.Booking]
	Packages   *resource.Resource[[]entities.SubscriptionPackage]
	Summary    *resource.Resource[entities.DashboardSummary]
}

func NewResources(b Backend, log *slog.Logger) *Resources {
	return &Resources{
		Users:      resource.New("users", b.ListUsers, log),
		ParkOwners: resource.New("parkowners", b.ListParkOwners, log),
		Customers:  resource.New("customers", b.ListCustomers, log),
		Employees:  resource.New("employees", b.ListEmployees, log),
		Bookings:   resource.New("bookings", allBookings(b), log),
		Packages:   resource.New("packages", b.ListSubscriptionPackages, log),
		Summary:    resource.New("summary", b.DashboardSummary, log),
	}
}

// Forget drops everything stored for session.
func (r *Resources) Forget(session string) {
	r.Users.Forget(session)
	r.ParkOwners.Forget(session)
	r.Customers.Forget(session)
	r.Employees.Forget(session)
	r.Bookings.Forget(session)
	r.Packages.Forget(session)
	r.Summary.Forget(session)
}

// PruneIdle drops snapshots of sessions not seen since before.
func (r *Resources) PruneIdle(before time.Time) int {
	return r.Users.PruneIdle(before) +
		r.ParkOwners.PruneIdle(before) +
		r.Customers.PruneIdle(before) +
		r.Employees.PruneIdle(before) +
		r.Bookings.PruneIdle(before) +
		r.Packages.PruneIdle(before) +
		r.Summary.PruneIdle(before)
}

// allBookings walks the backend's paginated booking list until an empty or missing page.
func allBookings(b Backend) resource.Fetcher[[]entities.Booking] {
	return func(ctx context.Context, token string) ([]entities.Booking, error) {
		var all []entities.Booking
		seen := map[int]bool{}
		for page := 1; page <= maxBookingPages; page++ {
			items, err := b.ListBookings(ctx, token, page)
			var se *backend.StatusError
			if page > 1 && errors.As(err, &se) && se.Code == http.StatusNotFound {
				break
			}
			if err != nil {
				return nil, err
			}
			added := 0
			for _, it := range items {
				if !seen[it.ID] {
					seen[it.ID] = true
					all = append(all, it)
					added++
				}
			}
			// A backend that ignores ?page keeps returning the same records.
			if added == 0 {
				break
			}
		}
		return all, nil
	}
}
