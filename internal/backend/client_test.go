package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspotter-admin/internal/entities"
)

func setupTest(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "Token", 2*time.Second)
}

func TestListParkOwners(t *testing.T) {
	c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathParkOwners, r.URL.Path)
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"id": 1, "park_owner_id": {"username": "rahim", "first_name": "Rahim", "last_name": "Uddin", "email": "r@x.io"},
			 "area": "Dhaka", "latitude": "23.8", "longitude": 90.4, "subscription_id": 2, "amount": "1500.00",
			 "subscription_end_date": "2030-01-01", "joined_date": "2024-02-10"},
			{"id": 2, "park_owner_id": null, "area": "Tongi", "latitude": null, "longitude": "90.4", "is_active": false}
		]`))
	})

	owners, err := c.ListParkOwners(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, owners, 2)

	assert.Equal(t, "Rahim Uddin", owners[0].Name())
	require.NotNil(t, owners[0].Latitude)
	assert.InDelta(t, 23.8, *owners[0].Latitude, 1e-9)
	assert.InDelta(t, 1500.0, owners[0].Amount, 1e-9)
	assert.Equal(t, 2, *owners[0].SubscriptionID)
	assert.True(t, owners[0].IsActive)
	require.NotNil(t, owners[0].JoinedDate)

	assert.Nil(t, owners[1].Latitude)
	assert.NotNil(t, owners[1].Longitude)
	assert.False(t, owners[1].IsActive)
}

func TestListBookingsSkipsInvalidRecords(t *testing.T) {
	c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`{"count": 4, "results": [
			{"id": 1, "vehicle": {"plate_number": "DHA-1"}, "booking_time": "2024-03-01T10:00:00Z", "customer": 5},
			{"id": 2, "vehicle": {"plate_number": "DHA-2"}, "booking_time": "2024-03-02T10:00:00Z", "employee": 9},
			{"id": 3, "vehicle": {"plate_number": "DHA-3"}, "booking_time": "2024-03-03T10:00:00Z", "customer": 5, "employee": 9},
			{"id": 4, "vehicle": {"plate_number": "DHA-4"}, "booking_time": "yesterday"}
		]}`))
	})

	bookings, err := c.ListBookings(context.Background(), "", 3)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, entities.OriginCustomer, bookings[0].Origin())
	assert.Equal(t, entities.OriginEmployee, bookings[1].Origin())
	assert.Equal(t, "DHA-2", bookings[1].PlateNumber)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		})
		_, err := c.ListUsers(context.Background(), "t")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusForbidden, se.Code)
		assert.Equal(t, "users", se.Resource)
	})

	t.Run("decode error", func(t *testing.T) {
		c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"detail": "unexpected"}`))
		})
		_, err := c.ListEmployees(context.Background(), "t")
		var de *DecodeError
		require.ErrorAs(t, err, &de)
	})

	t.Run("transport error", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "Token", time.Second)
		_, err := c.ListCustomers(context.Background(), "t")
		var te *TransportError
		require.ErrorAs(t, err, &te)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.ListSubscriptionPackages(ctx, "t")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestEmptyList(t *testing.T) {
	c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	users, err := c.ListUsers(context.Background(), "t")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSubscriptionPackageMutations(t *testing.T) {
	c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		var body packageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, pathPackages, r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 7, "name": "` + body.Name + `", "duration_months": 6, "price": "999.50", "discount": 5}`))
		case http.MethodPut:
			assert.Equal(t, "/accounts/subscription_package/7/", r.URL.Path)
			w.Write([]byte(`{"name": "` + body.Name + `", "duration_months": 12, "price": 1800, "discount": "10"}`))
		}
	})

	created, err := c.CreateSubscriptionPackage(context.Background(), "t", entities.SubscriptionPackage{Name: "Gold", DurationMonths: 6, Price: 999.5, Discount: 5})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	assert.InDelta(t, 999.5, created.Price, 1e-9)

	updated, err := c.UpdateSubscriptionPackage(context.Background(), "t", 7, entities.SubscriptionPackage{Name: "Gold+", DurationMonths: 12, Price: 1800, Discount: 10})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.ID)
	assert.Equal(t, "Gold+", updated.Name)
	assert.InDelta(t, 10.0, updated.Discount, 1e-9)
}

func TestLoginAndActivation(t *testing.T) {
	var paths []string
	c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == pathLogin {
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{"token": "tok", "user_id": 4, "role": "admin"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	res, err := c.Login(context.Background(), "anna", "secret")
	require.NoError(t, err)
	assert.Equal(t, LoginResult{Token: "tok", UserID: 4, Role: "admin"}, res)

	require.NoError(t, c.SetUserActive(context.Background(), "tok", 12, false))
	require.NoError(t, c.SetUserActive(context.Background(), "tok", 12, true))
	require.NoError(t, c.Logout(context.Background(), "tok"))

	assert.Equal(t, []string{
		"POST /accounts/login/",
		"POST /accounts/user/12/deactivate/",
		"POST /accounts/user/12/activate/",
		"GET /accounts/logout/",
	}, paths)
}

func TestLoginWithoutToken(t *testing.T) {
	c := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user_id": 4}`))
	})
	_, err := c.Login(context.Background(), "anna", "secret")
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}
