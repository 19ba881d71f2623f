package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspotter-admin/internal/backend"
	"parkspotter-admin/internal/entities"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/repository"
	"parkspotter-admin/internal/session"
)

type fakeBackend struct {
	mu        sync.Mutex
	users     []entities.User
	owners    []entities.ParkOwner
	customers []entities.Customer
	employees []entities.Employee
	bookings  [][]entities.Booking
	packages  []entities.SubscriptionPackage
	summary   entities.DashboardSummary

	failing   map[string]error
	rejected  map[string]bool
	login     backend.LoginResult
	activated map[int]bool
	loggedOut []string
}

func (f *fakeBackend) fail(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failing[name]
}

func (f *fakeBackend) ListUsers(_ context.Context, token string) ([]entities.User, error) {
	if f.rejected[token] {
		return nil, &backend.StatusError{Resource: "users", Code: http.StatusUnauthorized}
	}
	return f.users, f.fail("users")
}

func (f *fakeBackend) ListParkOwners(context.Context, string) ([]entities.ParkOwner, error) {
	return f.owners, f.fail("parkowners")
}

func (f *fakeBackend) ListCustomers(context.Context, string) ([]entities.Customer, error) {
	return f.customers, f.fail("customers")
}

func (f *fakeBackend) ListEmployees(context.Context, string) ([]entities.Employee, error) {
	return f.employees, f.fail("employees")
}

func (f *fakeBackend) ListBookings(_ context.Context, _ string, page int) ([]entities.Booking, error) {
	if err := f.fail("bookings"); err != nil {
		return nil, err
	}
	if page > len(f.bookings) {
		return nil, &backend.StatusError{Resource: "bookings", Code: http.StatusNotFound}
	}
	return f.bookings[page-1], nil
}

func (f *fakeBackend) ListSubscriptionPackages(context.Context, string) ([]entities.SubscriptionPackage, error) {
	return f.packages, f.fail("packages")
}

func (f *fakeBackend) CreateSubscriptionPackage(_ context.Context, _ string, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	if err := f.fail("packages"); err != nil {
		return entities.SubscriptionPackage{}, err
	}
	p.ID = 99
	return p, nil
}

func (f *fakeBackend) UpdateSubscriptionPackage(_ context.Context, _ string, id int, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	if err := f.fail("packages"); err != nil {
		return entities.SubscriptionPackage{}, err
	}
	p.ID = id
	return p, nil
}

func (f *fakeBackend) DashboardSummary(context.Context, string) (entities.DashboardSummary, error) {
	return f.summary, f.fail("summary")
}

func (f *fakeBackend) Login(_ context.Context, _, _ string) (backend.LoginResult, error) {
	return f.login, f.fail("login")
}

func (f *fakeBackend) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	f.loggedOut = append(f.loggedOut, token)
	f.mu.Unlock()
	return f.fail("logout")
}

func (f *fakeBackend) SetUserActive(_ context.Context, _ string, id int, active bool) error {
	if err := f.fail("activate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activated == nil {
		f.activated = map[int]bool{}
	}
	f.activated[id] = active
	return nil
}

type sentEmail struct {
	to, subject string
}

type fakeNotifier struct {
	emails chan sentEmail
	sms    chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{emails: make(chan sentEmail, 10), sms: make(chan string, 10)}
}

func (n *fakeNotifier) SendEmail(_ context.Context, to, _, subject, _, _ string) error {
	n.emails <- sentEmail{to: to, subject: subject}
	return nil
}

func (n *fakeNotifier) SendSMS(_ context.Context, to, _ string) error {
	n.sms <- to
	return nil
}

func intPtr(i int) *int { return &i }

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

var adminSession = session.Session{ID: "s1", Token: "tok", Role: session.RoleAdmin, UserID: "1"}

func newTestDashboard(b *fakeBackend) *DashboardService {
	d := NewDashboardService(NewResources(b, nil), MapSettings{}, nil)
	d.now = func() time.Time { return testNow }
	return d
}

func TestBookingsResolvesOriginAndCounts(t *testing.T) {
	b := &fakeBackend{
		customers: []entities.Customer{{ID: 5, FirstName: "Karim", LastName: "Ali"}},
		employees: []entities.Employee{{ID: 9, FirstName: "Nila"}},
		bookings: [][]entities.Booking{{
			{ID: 1, PlateNumber: "DHA-1", BookingTime: testNow.Add(-3 * time.Hour), CustomerID: intPtr(5)},
			{ID: 2, PlateNumber: "DHA-2", BookingTime: testNow.Add(-2 * time.Hour), EmployeeID: intPtr(9)},
			{ID: 3, PlateNumber: "CTG-3", BookingTime: testNow.Add(-1 * time.Hour), CustomerID: intPtr(77)},
		}},
	}
	d := newTestDashboard(b)

	view := d.Bookings(context.Background(), adminSession, listing.NewState())
	require.False(t, view.Degraded)
	require.Len(t, view.Items, 3)
	assert.Equal(t, "Karim Ali", view.Items[0].BookedBy)
	assert.Equal(t, "Nila", view.Items[1].BookedBy)
	assert.Equal(t, unknownName, view.Items[2].BookedBy)
	assert.Equal(t, 2, view.Counts.Customer)
	assert.Equal(t, 1, view.Counts.Employee)

	filtered := d.Bookings(context.Background(), adminSession, listing.State{Query: "dha", Order: listing.Desc, Page: 1})
	require.Len(t, filtered.Items, 2)
	assert.Equal(t, 2, filtered.Items[0].ID)
	assert.Equal(t, 1, filtered.Counts.Customer)
}

func TestPageDegradesWhenOneFetchFails(t *testing.T) {
	b := &fakeBackend{
		users:     []entities.User{{ID: 1, Username: "rahim", IsActive: true}},
		customers: []entities.Customer{{ID: 1, MobileNo: "+8801"}},
	}
	d := newTestDashboard(b)

	first := d.Users(context.Background(), adminSession, listing.NewState())
	require.False(t, first.Degraded)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "+8801", first.Items[0].MobileNo)

	b.failing = map[string]error{"users": errors.New("boom")}
	second := d.Users(context.Background(), adminSession, listing.NewState())
	assert.True(t, second.Degraded)
	assert.Equal(t, []string{"users"}, second.Failed)
	require.Len(t, second.Items, 1, "previous data is kept")
	assert.Equal(t, "rahim", second.Items[0].Username)
}

func TestSessionsDoNotShareFallbackData(t *testing.T) {
	b := &fakeBackend{
		users:    []entities.User{{ID: 1, Username: "secret-admin", IsActive: true}},
		rejected: map[string]bool{"revoked": true},
	}
	d := newTestDashboard(b)

	mine := d.Users(context.Background(), adminSession, listing.NewState())
	require.Len(t, mine.Items, 1)

	other := session.Session{ID: "s2", Token: "revoked", Role: session.RoleStaff, UserID: "9"}
	theirs := d.Users(context.Background(), other, listing.NewState())
	assert.True(t, theirs.Degraded)
	assert.Equal(t, []string{"users"}, theirs.Failed)
	assert.Empty(t, theirs.Items)

	b.failing = map[string]error{"users": errors.New("boom")}
	again := d.Users(context.Background(), adminSession, listing.NewState())
	require.Len(t, again.Items, 1, "a session still falls back to its own data")
	assert.Equal(t, "secret-admin", again.Items[0].Username)
}

func TestParkOwnersPagingAndSlotOrder(t *testing.T) {
	b := &fakeBackend{
		packages: []entities.SubscriptionPackage{{ID: 1, Name: "Gold"}},
		owners: []entities.ParkOwner{
			{ID: 1, FirstName: "A", SlotSize: 5, SubscriptionID: intPtr(1), SubscriptionEndDate: "2024-07-01", Earnings: 10},
			{ID: 2, FirstName: "B", SlotSize: 20, SubscriptionEndDate: "2024-01-01", Earnings: 20},
			{ID: 3, FirstName: "C", SlotSize: 1, SubscriptionID: intPtr(8), Earnings: 30},
			{ID: 4, FirstName: "D", SlotSize: 9, Earnings: 40},
		},
	}
	d := newTestDashboard(b)

	asc := d.ParkOwners(context.Background(), adminSession, listing.NewState())
	require.Len(t, asc.Items, parkOwnersPageSize)
	assert.Equal(t, 2, asc.PageCount)
	assert.Equal(t, "Gold", asc.Items[0].Plan)
	assert.Equal(t, "Active", asc.Items[0].SubscriptionStatus)
	assert.Equal(t, "Expired", asc.Items[1].SubscriptionStatus)
	assert.Equal(t, unknownName, asc.Items[2].Plan)
	assert.Len(t, asc.Revenue.Data, 4)

	desc := d.ParkOwners(context.Background(), adminSession, listing.State{Order: listing.Desc, Page: 1})
	ids := []int{desc.Items[0].ID, desc.Items[1].ID, desc.Items[2].ID}
	assert.Equal(t, []int{2, 4, 1}, ids)
}

func TestActivationAppliesOnlyOnBackendSuccess(t *testing.T) {
	b := &fakeBackend{
		users:     []entities.User{{ID: 7, Username: "mina", Email: "mina@x.io", IsActive: true}},
		customers: []entities.Customer{{ID: 7, MobileNo: "+8802"}},
	}
	res := NewResources(b, nil)
	res.Users.Load(context.Background(), adminSession.ID, "tok")
	res.Customers.Load(context.Background(), adminSession.ID, "tok")
	n := newFakeNotifier()
	svc := NewActivationService(b, res, NewSenderService(n))

	b.failing = map[string]error{"activate": &backend.StatusError{Resource: "activation", Code: 500}}
	_, err := svc.SetActive(context.Background(), adminSession, 7, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusOf(err))
	assert.Contains(t, err.Error(), "backend status 500")
	assert.True(t, res.Users.Current(adminSession.ID).Value[0].IsActive)

	b.failing = nil
	u, err := svc.SetActive(context.Background(), adminSession, 7, false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.False(t, res.Users.Current(adminSession.ID).Value[0].IsActive)
	active, ok := b.activated[7]
	require.True(t, ok)
	assert.False(t, active)

	select {
	case e := <-n.emails:
		assert.Equal(t, "mina@x.io", e.to)
		assert.True(t, strings.Contains(e.subject, "deactivated"))
	case <-time.After(2 * time.Second):
		t.Fatal("no activation email sent")
	}
	select {
	case to := <-n.sms:
		assert.Equal(t, "+8802", to)
	case <-time.After(2 * time.Second):
		t.Fatal("no activation SMS sent")
	}
}

func TestSetUserActiveDoesNotMutateInput(t *testing.T) {
	in := []entities.User{{ID: 1, IsActive: true}, {ID: 2, IsActive: true}}
	out := SetUserActive(in, 2, false)
	assert.True(t, in[1].IsActive)
	assert.False(t, out[1].IsActive)
	assert.True(t, out[0].IsActive)
}

func TestPlanService(t *testing.T) {
	b := &fakeBackend{packages: []entities.SubscriptionPackage{{ID: 1, Name: "Basic", DurationMonths: 1}}}
	res := NewResources(b, nil)
	res.Packages.Load(context.Background(), adminSession.ID, "tok")
	svc := NewPlanService(b, res)

	_, err := svc.Create(context.Background(), adminSession, entities.SubscriptionPackage{Name: " ", DurationMonths: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	created, err := svc.Create(context.Background(), adminSession, entities.SubscriptionPackage{Name: " Gold ", DurationMonths: 12, Price: 1200})
	require.NoError(t, err)
	assert.Equal(t, "Gold", created.Name)
	assert.Len(t, res.Packages.Current(adminSession.ID).Value, 2)

	_, err = svc.Update(context.Background(), adminSession, 1, entities.SubscriptionPackage{Name: "Basic+", DurationMonths: 3})
	require.NoError(t, err)
	assert.Equal(t, "Basic+", res.Packages.Current(adminSession.ID).Value[0].Name)

	b.failing = map[string]error{"packages": errors.New("down")}
	_, err = svc.Update(context.Background(), adminSession, 1, entities.SubscriptionPackage{Name: "Other", DurationMonths: 3})
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusOf(err))
	assert.Equal(t, "Basic+", res.Packages.Current(adminSession.ID).Value[0].Name)
}

func TestManagementService(t *testing.T) {
	svc := NewManagementService(repository.NewMemoryManagementRepository())
	ctx := context.Background()

	_, err := svc.List(ctx, "widgets", listing.NewState())
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))

	_, err = svc.Create(ctx, "roles", entities.ManagementItem{Name: ""})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	editor, err := svc.Create(ctx, "roles", entities.ManagementItem{Name: "Editor", Description: "Edits zones"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Roles", entities.ManagementItem{Name: "Viewer"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "roles", entities.ManagementItem{Name: "Editor"})
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	view, err := svc.List(ctx, "roles", listing.State{Query: "zones", Order: listing.Asc, Page: 1})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Editor", view.Items[0].Name)

	updated, err := svc.Update(ctx, "roles", editor.ID, entities.ManagementItem{Name: "Zone editor"})
	require.NoError(t, err)
	assert.Equal(t, "Zone editor", updated.Name)

	require.NoError(t, svc.Delete(ctx, "roles", editor.ID))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(svc.Delete(ctx, "roles", editor.ID)))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(svc.Delete(ctx, "settings", 2)))
}

func TestNavigationByRole(t *testing.T) {
	titles := func(items []NavItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Title)
		}
		return out
	}
	assert.Contains(t, titles(Navigation(session.RoleAdmin)), "Admin Management")
	assert.NotContains(t, titles(Navigation(session.RoleStaff)), "Admin Management")
}

func TestSearch(t *testing.T) {
	b := &fakeBackend{
		owners: []entities.ParkOwner{{ID: 1, Username: "tongi_park", FirstName: "Tongi"}},
		users:  []entities.User{{ID: 2, Username: "tonmoy"}},
	}
	d := newTestDashboard(b)

	view := d.Search(context.Background(), adminSession, "analytics")
	assert.Equal(t, "/admin/analytics", view.Jump)

	view = d.Search(context.Background(), adminSession, "ton")
	assert.Empty(t, view.Jump)
	require.Len(t, view.Hits, 2)
	assert.Equal(t, "parkowner", view.Hits[0].Kind)
	assert.Equal(t, "/admin/parkowners?q=tongi_park", view.Hits[0].Route)
	assert.Equal(t, "user", view.Hits[1].Kind)

	assert.Empty(t, d.Search(context.Background(), adminSession, "  ").Hits)
}

func TestExportParkOwners(t *testing.T) {
	b := &fakeBackend{owners: []entities.ParkOwner{
		{ID: 1, FirstName: "Rahim", Area: "Dhaka", Earnings: 12.5},
		{ID: 2, FirstName: "Karim", Area: "Tongi"},
	}}
	d := newTestDashboard(b)

	file, err := d.ExportParkOwners(context.Background(), adminSession, listing.State{Query: "dhaka", Order: listing.Asc, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, "parkspotter-park-owners-2024-06-10.csv", file.Name)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Name,"))
	assert.Contains(t, lines[1], "Rahim")
	assert.Contains(t, lines[1], "12.50")
}

func TestAllBookingsStopsAtMissingPage(t *testing.T) {
	b := &fakeBackend{bookings: [][]entities.Booking{
		{{ID: 1}, {ID: 2}},
		{{ID: 3}},
	}}
	got, err := allBookings(b)(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestAllBookingsStopsWhenPageRepeats(t *testing.T) {
	page := []entities.Booking{{ID: 1}, {ID: 2}}
	b := &fakeBackend{bookings: [][]entities.Booking{page, page, page}}
	got, err := allBookings(b)(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAuthService(t *testing.T) {
	b := &fakeBackend{login: backend.LoginResult{Token: "backend-tok", UserID: 3, Role: "Admin"}}
	store := session.NewMemoryStore()
	views := listing.NewViewStore()
	mgr := session.NewManager(store, session.NewSigner("secret"), time.Hour)
	res := NewResources(b, nil)
	svc := NewAuthService(b, mgr, views, res)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	login, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, login.Session.Role)
	assert.Equal(t, "3", login.Session.UserID)

	resolved, err := mgr.Resolve(ctx, login.Signed)
	require.NoError(t, err)
	assert.Equal(t, "backend-tok", resolved.Token)

	q := "abc"
	views.Update(resolved.ID, "users", listing.Input{Query: &q})
	b.users = []entities.User{{ID: 3}}
	res.Users.Load(ctx, resolved.ID, resolved.Token)
	require.Len(t, res.Users.Current(resolved.ID).Value, 1)
	b.failing = map[string]error{"logout": errors.New("offline")}
	require.NoError(t, svc.Logout(ctx, resolved))
	assert.Equal(t, []string{"backend-tok"}, b.loggedOut)
	assert.Equal(t, "", views.Get(resolved.ID, "users").Query)
	assert.Empty(t, res.Users.Current(resolved.ID).Value)
	_, err = mgr.Resolve(ctx, login.Signed)
	assert.ErrorIs(t, err, session.ErrNotFound)

	b.failing = map[string]error{"login": &backend.StatusError{Resource: "login", Code: 400}}
	_, err = svc.Login(ctx, LoginRequest{Username: "admin", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
}

type fakeHub struct {
	clients int
	sent    []any
}

func (h *fakeHub) Broadcast(v any) { h.sent = append(h.sent, v) }
func (h *fakeHub) Clients() int    { return h.clients }

func TestExpiryDigestSentOncePerPeriod(t *testing.T) {
	b := &fakeBackend{owners: []entities.ParkOwner{
		{ID: 1, FirstName: "Soon", Email: "soon@x.io", SubscriptionEndDate: "2024-06-13"},
		{ID: 2, FirstName: "Later", SubscriptionEndDate: "2024-09-01"},
		{ID: 3, FirstName: "Gone", SubscriptionEndDate: "2024-05-01"},
	}}
	d := newTestDashboard(b)
	n := newFakeNotifier()
	jobs := NewJobService(JobConfig{AlertEmail: "ops@x.io", ServiceToken: "svc"}, d,
		repository.NewMemoryNoticeRepository(), NewSenderService(n), nil, nil)

	require.NoError(t, jobs.SendExpiryDigest(context.Background()))
	require.Len(t, n.emails, 1)
	e := <-n.emails
	assert.Equal(t, "ops@x.io", e.to)
	assert.Contains(t, e.subject, "1 ParkSpotter")

	require.NoError(t, jobs.SendExpiryDigest(context.Background()))
	assert.Len(t, n.emails, 0)

	b.failing = map[string]error{"parkowners": errors.New("down")}
	assert.Error(t, jobs.SendExpiryDigest(context.Background()))
}

func TestRefreshOverviewOnlyWithClients(t *testing.T) {
	b := &fakeBackend{summary: entities.DashboardSummary{TotalUsers: 4}}
	d := newTestDashboard(b)
	hub := &fakeHub{}
	jobs := NewJobService(JobConfig{ServiceToken: "svc"}, d, repository.NewMemoryNoticeRepository(), nil, hub, nil)

	jobs.RefreshOverview(context.Background())
	assert.Empty(t, hub.sent)

	hub.clients = 1
	jobs.RefreshOverview(context.Background())
	require.Len(t, hub.sent, 1)
	ov, ok := hub.sent[0].(OverviewView)
	require.True(t, ok)
	assert.Equal(t, 4.0, ov.Stats[0].Value)

	noToken := NewJobService(JobConfig{}, d, repository.NewMemoryNoticeRepository(), nil, hub, nil)
	noToken.RefreshOverview(context.Background())
	assert.Len(t, hub.sent, 1, "no broadcast without a service token")
}

func TestPruneDropsIdleSessionState(t *testing.T) {
	b := &fakeBackend{users: []entities.User{{ID: 1}}}
	d := newTestDashboard(b)
	views := listing.NewViewStore()
	pruned := 0
	jobs := NewJobService(JobConfig{
		Views:      views,
		SessionTTL: time.Hour,
		PruneSessions: func(context.Context) (int64, error) {
			pruned++
			return 1, nil
		},
	}, d, nil, nil, nil, nil)

	q := "ra"
	views.Update(adminSession.ID, "users", listing.Input{Query: &q})
	d.Res.Users.Load(context.Background(), adminSession.ID, adminSession.Token)

	// Still inside the TTL.
	jobs.Prune(context.Background())
	assert.Equal(t, 1, pruned)
	assert.Len(t, d.Res.Users.Current(adminSession.ID).Value, 1)

	d.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	jobs.Prune(context.Background())
	assert.Equal(t, 2, pruned)
	assert.Equal(t, listing.NewState(), views.Get(adminSession.ID, "users"))
	assert.Empty(t, d.Res.Users.Current(adminSession.ID).Value)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	jobs := NewJobService(JobConfig{ExpirySpec: "not a spec", RefreshSpec: "@every 1m"}, nil, nil, nil, nil, nil)
	_, err := jobs.Scheduler()
	assert.Error(t, err)

	jobs = NewJobService(JobConfig{ExpirySpec: "0 8 * * *", RefreshSpec: "@every 1m"}, nil, nil, nil, nil, nil)
	c, err := jobs.Scheduler()
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 3)
}

func fptr(f float64) *float64 { return &f }

func TestParkingZonesAndZones(t *testing.T) {
	b := &fakeBackend{owners: []entities.ParkOwner{
		{ID: 1, FirstName: "Rahim", Area: "Dhaka", Address: "Mirpur", Latitude: fptr(23.8), Longitude: fptr(90.4), Capacity: 10, AvailableSlot: 4},
		{ID: 2, FirstName: "Karim", Area: "Dhaka", Address: "Uttara", Latitude: fptr(123), Longitude: fptr(90.4), Capacity: 10, AvailableSlot: 6},
		{ID: 3, FirstName: "Nila", Area: "Tongi", Address: "Station Rd", Capacity: 5, AvailableSlot: 5},
	}}
	d := newTestDashboard(b)
	d.Map = MapSettings{Center: [2]float64{90.4125, 23.8103}, Token: "pk.test"}

	pz := d.ParkingZones(context.Background(), adminSession, "")
	require.Len(t, pz.Markers, 1, "owners with bad or missing coordinates are left off the map")
	assert.Equal(t, 1, pz.Markers[0].OwnerID)
	assert.Equal(t, "Dhaka", pz.Divisions.MaxDivision)
	assert.Equal(t, map[string]float64{"Dhaka": 66.67, "Tongi": 33.33}, pz.Ratio)
	assert.Equal(t, "pk.test", pz.MapboxToken)

	pz = d.ParkingZones(context.Background(), adminSession, "station")
	assert.Equal(t, 1, pz.Divisions.Total)
	assert.Equal(t, "Tongi", pz.Divisions.MaxDivision)
	assert.Empty(t, pz.Markers)

	zones := d.Zones(context.Background(), adminSession)
	require.Len(t, zones.Zones, 2)
	assert.Equal(t, ZoneSummary{Area: "Dhaka", Owners: 2, Capacity: 20, AvailableSlots: 10, Occupancy: 50}, zones.Zones[0])
	assert.Equal(t, "Tongi", zones.Zones[1].Area)
	assert.Zero(t, zones.Zones[1].Occupancy)
}

func TestSubscriptionsAndPlans(t *testing.T) {
	b := &fakeBackend{
		packages: []entities.SubscriptionPackage{{ID: 1, Name: "Basic", DurationMonths: 1, Price: 500, Discount: 10}},
		owners: []entities.ParkOwner{
			{ID: 1, FirstName: "A", SubscriptionID: intPtr(1), SubscriptionEndDate: "2024-12-31"},
			{ID: 2, FirstName: "B", SubscriptionID: intPtr(1), SubscriptionEndDate: "2024-01-31"},
			{ID: 3, FirstName: "C", SubscriptionID: intPtr(5), SubscriptionEndDate: "not a date"},
		},
	}
	d := newTestDashboard(b)

	subs := d.Subscriptions(context.Background(), adminSession, listing.NewState())
	assert.Equal(t, 1, subs.Active)
	assert.Equal(t, 2, subs.Expired)
	require.Len(t, subs.Items, 3)
	assert.Equal(t, "Expired", subs.Items[0].Status)
	assert.Equal(t, "Active", subs.Items[1].Status)
	assert.Equal(t, unknownName, subs.Items[2].Plan)

	expired := d.Subscriptions(context.Background(), adminSession, listing.NewState().WithQuery("expired"))
	assert.Equal(t, 2, expired.Total)

	plans := d.Plans(context.Background(), adminSession, listing.NewState())
	require.Len(t, plans.Items, 1)
	assert.Equal(t, 2, plans.Items[0].Subscribers)
	assert.Equal(t, 450.0, plans.Items[0].FinalPrice)
}

func TestNotificationsListOwnersEndingThisWeek(t *testing.T) {
	b := &fakeBackend{owners: []entities.ParkOwner{
		{ID: 1, FirstName: "Soon", SubscriptionEndDate: "2024-06-14"},
		{ID: 2, FirstName: "Later", SubscriptionEndDate: "2024-08-01"},
		{ID: 3, FirstName: "Gone", SubscriptionEndDate: "2024-06-01"},
	}}
	d := newTestDashboard(b)

	view := d.Notifications(context.Background(), adminSession)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].OwnerID)
	assert.Contains(t, view.Items[0].Message, "Soon")
	assert.Equal(t, "2024-06-14", view.Items[0].EndDate)
}

func TestRowCopyCarriesFieldsWithoutErrors(t *testing.T) {
	var buf bytes.Buffer
	d := NewDashboardService(NewResources(&fakeBackend{}, nil), MapSettings{}, slog.New(slog.NewTextHandler(&buf, nil)))
	d.now = func() time.Time { return testNow }

	users := d.userRows([]entities.User{{ID: 4, Username: "karim", Email: "k@x.io", Role: "staff", IsActive: true}}, nil)
	require.Len(t, users, 1)
	assert.Equal(t, UserRow{ID: 4, Username: "karim", Email: "k@x.io", Role: "staff", Status: "Active", IsActive: true}, users[0])

	owners := d.ownerRows([]entities.ParkOwner{{ID: 2, FirstName: "Nila", Area: "Tongi", Capacity: 8, Earnings: 12.5}}, nil)
	require.Len(t, owners, 1)
	assert.Equal(t, "Tongi", owners[0].Area)
	assert.Equal(t, 8, owners[0].Capacity)
	assert.Equal(t, 12.5, owners[0].Earnings)
	assert.Equal(t, "Nila", owners[0].Name)

	assert.NotContains(t, buf.String(), "copy")
}
