package backend

import (
	"context"
	"fmt"
	"net/http"

	"parkspotter-admin/internal/entities"
)

const (
	pathUsers          = "/accounts/user-list/"
	pathParkOwners     = "/accounts/parkowner-list/"
	pathSummary        = "/accounts/admin-dashboard/"
	pathBookings       = "/accounts/bookings/"
	pathPackages       = "/accounts/subscription_package/"
	pathEmployees      = "/accounts/employee-list/"
	pathCustomers      = "/customer/customer-list/"
	pathLogin          = "/accounts/login/"
	pathLogout         = "/accounts/logout/"
	pathUserActivate   = "/accounts/user/%d/activate/"
	pathUserDeactivate = "/accounts/user/%d/deactivate/"
)

func (c *Client) ListUsers(ctx context.Context, token string) ([]entities.User, error) {
	raw, err := getList[userWire](ctx, c, "users", pathUsers, token)
	if err != nil {
		return nil, err
	}
	return mapAll(raw, parseUser), nil
}

func (c *Client) ListParkOwners(ctx context.Context, token string) ([]entities.ParkOwner, error) {
	raw, err := getList[parkOwnerWire](ctx, c, "parkowners", pathParkOwners, token)
	if err != nil {
		return nil, err
	}
	return mapAll(raw, parseParkOwner), nil
}

func (c *Client) ListCustomers(ctx context.Context, token string) ([]entities.Customer, error) {
	raw, err := getList[customerWire](ctx, c, "customers", pathCustomers, token)
	if err != nil {
		return nil, err
	}
	return mapAll(raw, parseCustomer), nil
}

func (c *Client) ListEmployees(ctx context.Context, token string) ([]entities.Employee, error) {
	raw, err := getList[employeeWire](ctx, c, "employees", pathEmployees, token)
	if err != nil {
		return nil, err
	}
	return mapAll(raw, parseEmployee), nil
}

// ListBookings fetches one backend page of bookings; page < 1 is sent as 1.
func (c *Client) ListBookings(ctx context.Context, token string, page int) ([]entities.Booking, error) {
	if page < 1 {
		page = 1
	}
	raw, err := getList[bookingWire](ctx, c, "bookings", fmt.Sprintf("%s?page=%d", pathBookings, page), token)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Booking, 0, len(raw))
	for _, w := range raw {
		if b, ok := parseBooking(w); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *Client) ListSubscriptionPackages(ctx context.Context, token string) ([]entities.SubscriptionPackage, error) {
	raw, err := getList[packageWire](ctx, c, "packages", pathPackages, token)
	if err != nil {
		return nil, err
	}
	return mapAll(raw, parsePackage), nil
}

func (c *Client) CreateSubscriptionPackage(ctx context.Context, token string, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	var out packageWire
	err := c.do(ctx, "packages", http.MethodPost, pathPackages, token, toPackageRequest(p), &out)
	if err != nil {
		return entities.SubscriptionPackage{}, err
	}
	return parsePackage(out), nil
}

func (c *Client) UpdateSubscriptionPackage(ctx context.Context, token string, id int, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	var out packageWire
	err := c.do(ctx, "packages", http.MethodPut, fmt.Sprintf("%s%d/", pathPackages, id), token, toPackageRequest(p), &out)
	if err != nil {
		return entities.SubscriptionPackage{}, err
	}
	pkg := parsePackage(out)
	if pkg.ID == 0 {
		pkg.ID = id
	}
	return pkg, nil
}

func toPackageRequest(p entities.SubscriptionPackage) packageRequest {
	return packageRequest{Name: p.Name, DurationMonths: p.DurationMonths, Price: p.Price, Discount: p.Discount}
}

func (c *Client) DashboardSummary(ctx context.Context, token string) (entities.DashboardSummary, error) {
	var out summaryWire
	if err := c.do(ctx, "summary", http.MethodGet, pathSummary, token, nil, &out); err != nil {
		return entities.DashboardSummary{}, err
	}
	return parseSummary(out), nil
}

type LoginResult struct {
	Token  string
	UserID int
	Role   string
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out loginResponse
	if err := c.do(ctx, "login", http.MethodPost, pathLogin, "", loginRequest{Username: username, Password: password}, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" {
		return LoginResult{}, &DecodeError{Resource: "login", Err: fmt.Errorf("response has no token")}
	}
	return LoginResult{Token: out.Token, UserID: out.UserID, Role: out.Role}, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "logout", http.MethodGet, pathLogout, token, nil, nil)
}

func (c *Client) SetUserActive(ctx context.Context, token string, id int, active bool) error {
	path := fmt.Sprintf(pathUserDeactivate, id)
	if active {
		path = fmt.Sprintf(pathUserActivate, id)
	}
	return c.do(ctx, "activation", http.MethodPost, path, token, nil, nil)
}
