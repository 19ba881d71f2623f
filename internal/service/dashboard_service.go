package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/copier"

	"parkspotter-admin/internal/derive"
	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/resource"
	"parkspotter-admin/internal/session"
	"parkspotter-admin/internal/utils"
)

const (
	parkOwnersPageSize    = 3
	bookingsPageSize      = 10
	usersPageSize         = 10
	subscriptionsPageSize = 10
	plansPageSize         = 10
	topAreas              = 5
	expiryWindow          = 7 * 24 * time.Hour
)

const unknownName = "Unknown"

var (
	unknownPlan     = entities.SubscriptionPackage{Name: unknownName}
	unknownCustomer = entities.Customer{FirstName: unknownName}
	unknownEmployee = entities.Employee{FirstName: unknownName}
)

type MapSettings struct {
	Center [2]float64
	Token  string
}

type DashboardService struct {
	Res *Resources
	Map MapSettings
	log *slog.Logger
	now func() time.Time
}

func NewDashboardService(res *Resources, m MapSettings, log *slog.Logger) *DashboardService {
	if log == nil {
		log = slog.Default()
	}
	return &DashboardService{Res: res, Map: m, log: log, now: time.Now}
}

func mapResult[A, B any](r listing.Result[A], f func(A) B) listing.Result[B] {
	items := make([]B, len(r.Items))
	for i, it := range r.Items {
		items[i] = f(it)
	}
	return listing.Result[B]{
		Items: items, Total: r.Total, Page: r.Page, PageSize: r.PageSize, PageCount: r.PageCount, State: r.State,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func trendOf(growth float64) string {
	switch {
	case growth > 0:
		return "increase"
	case growth < 0:
		return "decrease"
	default:
		return "neutral"
	}
}

// Overview builds the landing page: summary boxes, monthly charts and busiest areas.
func (s *DashboardService) Overview(ctx context.Context, sess session.Session) OverviewView {
	var (
		summary  resource.Snapshot[entities.DashboardSummary]
		bookings resource.Snapshot[[]entities.Booking]
		owners   resource.Snapshot[[]entities.ParkOwner]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.Summary, sess.ID, sess.Token, &summary),
		resource.Into(s.Res.Bookings, sess.ID, sess.Token, &bookings),
		resource.Into(s.Res.ParkOwners, sess.ID, sess.Token, &owners),
	)
	return s.buildOverview(report, summary.Value, bookings.Value, owners.Value)
}

func (s *DashboardService) buildOverview(report resource.Report, sum entities.DashboardSummary, bookings []entities.Booking, owners []entities.ParkOwner) OverviewView {
	now := s.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var curCount, prevCount, curEarn, prevEarn float64
	for _, b := range bookings {
		switch {
		case !b.BookingTime.Before(thisMonth):
			curCount++
			curEarn += b.TotalAmount
		case !b.BookingTime.Before(lastMonth):
			prevCount++
			prevEarn += b.TotalAmount
		}
	}
	bookingGrowth := derive.Growth(curCount, prevCount)
	earningGrowth := derive.Growth(curEarn, prevEarn)

	stats := []StatBox{
		{Title: "Total Users", Value: float64(sum.TotalUsers), Trend: "neutral", Link: "/admin/users"},
		{Title: "Park Owners", Value: float64(sum.TotalParkOwners), Trend: "neutral", Link: "/admin/parkowners"},
		{Title: "Bookings This Month", Value: curCount, Growth: bookingGrowth, Trend: trendOf(bookingGrowth), Link: "/admin/bookings"},
		{Title: "Earnings This Month", Value: utils.RoundFloat(curEarn, 2), Growth: earningGrowth, Trend: trendOf(earningGrowth)},
		{Title: "Total Earnings", Value: utils.RoundFloat(sum.TotalEarnings, 2), Trend: "neutral"},
		{Title: "Active Subscriptions", Value: float64(sum.ActiveSubscriptions), Trend: "neutral", Link: "/admin/subscriptions"},
	}

	div := derive.Divisions(owners)
	areas := append([]derive.AreaShare(nil), div.Shares...)
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].Count > areas[j].Count })
	if len(areas) > topAreas {
		areas = areas[:topAreas]
	}

	return OverviewView{
		PageStatus:      statusOf(report),
		Stats:           stats,
		MonthlyEarnings: derive.MonthSeries("Earnings", derive.MonthSums(bookings, derive.BookingTime, derive.BookingAmount)),
		MonthlyBookings: derive.MonthCountSeries("Bookings", derive.MonthBuckets(bookings, derive.BookingTime)),
		TopAreas:        areas,
	}
}

func (s *DashboardService) Analytics(ctx context.Context, sess session.Session) AnalyticsView {
	var (
		users     resource.Snapshot[[]entities.User]
		customers resource.Snapshot[[]entities.Customer]
		bookings  resource.Snapshot[[]entities.Booking]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.Users, sess.ID, sess.Token, &users),
		resource.Into(s.Res.Customers, sess.ID, sess.Token, &customers),
		resource.Into(s.Res.Bookings, sess.ID, sess.Token, &bookings),
	)

	return AnalyticsView{
		PageStatus:      statusOf(report),
		UserStatus:      derive.ActivityBreakdown(users.Value, func(u entities.User) bool { return u.IsActive }),
		WeekdayActivity: derive.WeekdaySeries("Bookings", derive.WeekdayBuckets(bookings.Value, derive.BookingTime)),
		MonthlyBookings: derive.MonthCountSeries("Bookings", derive.MonthBuckets(bookings.Value, derive.BookingTime)),
		MonthlyEarnings: derive.MonthSeries("Earnings", derive.MonthSums(bookings.Value, derive.BookingTime, derive.BookingAmount)),
		CustomersJoined: derive.MonthCountSeries("New customers", derive.MonthBuckets(customers.Value, func(c entities.Customer) (time.Time, bool) {
			return derive.TimeOf(c.JoinedDate)
		})),
		BookingOrigins: derive.BookingOrigins(bookings.Value),
	}
}

var bookingSpec = listing.Spec[entities.Booking]{
	Fields:   func(b entities.Booking) []string { return []string{b.PlateNumber, b.TicketNo} },
	Less:     func(a, b entities.Booking) bool { return a.BookingTime.Before(b.BookingTime) },
	PageSize: bookingsPageSize,
}

// Bookings lists bookings by plate or ticket. Counts cover the whole filtered set, not just
// the visible page.
func (s *DashboardService) Bookings(ctx context.Context, sess session.Session, st listing.State) BookingsView {
	var (
		bookings  resource.Snapshot[[]entities.Booking]
		customers resource.Snapshot[[]entities.Customer]
		employees resource.Snapshot[[]entities.Employee]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.Bookings, sess.ID, sess.Token, &bookings),
		resource.Into(s.Res.Customers, sess.ID, sess.Token, &customers),
		resource.Into(s.Res.Employees, sess.ID, sess.Token, &employees),
	)

	counts := derive.BookingOrigins(listing.Filter(bookings.Value, st.Query, bookingSpec.Fields))
	page := listing.Apply(bookings.Value, st, bookingSpec)

	return BookingsView{
		PageStatus: statusOf(report),
		Result:     mapResult(page, bookingRowMapper(customers.Value, employees.Value)),
		Counts:     counts,
	}
}

// bookingRowMapper resolves who made each booking. Missing people show as "Unknown".
func bookingRowMapper(customers []entities.Customer, employees []entities.Employee) func(entities.Booking) BookingRow {
	custByID := derive.NewLookup(customers, func(c entities.Customer) int { return c.ID }, unknownCustomer)
	empByID := derive.NewLookup(employees, func(e entities.Employee) int { return e.ID }, unknownEmployee)
	return func(b entities.Booking) BookingRow {
		row := BookingRow{
			ID:            b.ID,
			TicketNo:      b.TicketNo,
			PlateNumber:   b.PlateNumber,
			VehicleMobile: b.VehicleMobile,
			BookingTime:   formatTime(b.BookingTime),
			CheckOutTime:  formatTimePtr(b.ApproxCheckOut),
			RatePerMinute: b.RatePerMinute,
			TotalAmount:   b.TotalAmount,
			IsPaid:        b.IsPaid,
			Origin:        b.Origin(),
		}
		switch row.Origin {
		case entities.OriginCustomer:
			row.BookedBy = custByID.GetPtr(b.CustomerID).Name()
		case entities.OriginEmployee:
			row.BookedBy = empByID.GetPtr(b.EmployeeID).Name()
		}
		return row
	}
}

func (s *DashboardService) userRows(users []entities.User, customers []entities.Customer) []UserRow {
	byID := derive.NewLookup(customers, func(c entities.Customer) int { return c.ID }, entities.Customer{})
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		var row UserRow
		if err := copier.Copy(&row, &u); err != nil {
			s.log.Error("copy user row", slog.Int("user_id", u.ID), slog.Any("error", err))
		}
		row.Status = entities.ActivityStatus(u.IsActive)
		row.Joined = utils.DateOnly(derefTime(u.JoinedDate))
		c := byID.Get(u.ID)
		row.MobileNo = c.MobileNo
		row.VehiclePlate = c.VehiclePlate
		row.Points = c.Points
		rows = append(rows, row)
	}
	return rows
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

var userSpec = listing.Spec[UserRow]{
	Fields: func(u UserRow) []string {
		return []string{u.Username, u.Email, u.Role, u.Status, u.Joined, u.VehiclePlate}
	},
	Less:     func(a, b UserRow) bool { return a.ID < b.ID },
	PageSize: usersPageSize,
}

func (s *DashboardService) Users(ctx context.Context, sess session.Session, st listing.State) UsersView {
	var (
		users     resource.Snapshot[[]entities.User]
		customers resource.Snapshot[[]entities.Customer]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.Users, sess.ID, sess.Token, &users),
		resource.Into(s.Res.Customers, sess.ID, sess.Token, &customers),
	)
	rows := s.userRows(users.Value, customers.Value)
	return UsersView{
		PageStatus: statusOf(report),
		Result:     listing.Apply(rows, st, userSpec),
		Breakdown:  derive.ActivityBreakdown(users.Value, func(u entities.User) bool { return u.IsActive }),
	}
}

func (s *DashboardService) ownerRows(owners []entities.ParkOwner, plans []entities.SubscriptionPackage) []ParkOwnerRow {
	planByID := derive.NewLookup(plans, func(p entities.SubscriptionPackage) int { return p.ID }, unknownPlan)
	now := s.now()
	rows := make([]ParkOwnerRow, 0, len(owners))
	for _, o := range owners {
		var row ParkOwnerRow
		if err := copier.Copy(&row, &o); err != nil {
			s.log.Error("copy park owner row", slog.Int("owner_id", o.ID), slog.Any("error", err))
		}
		row.Name = o.Name()
		row.Plan = planByID.GetPtr(o.SubscriptionID).Name
		row.SubscriptionStatus = derive.SubscriptionStatus(o.SubscriptionEndDate, now)
		rows = append(rows, row)
	}
	return rows
}

// Ascending is by id; descending puts owners with the most slots first.
var parkOwnerSpec = listing.Spec[ParkOwnerRow]{
	Fields:   func(o ParkOwnerRow) []string { return []string{o.Name, o.Username, o.Email, o.Area, o.Address} },
	Less:     func(a, b ParkOwnerRow) bool { return a.ID < b.ID },
	DescLess: func(a, b ParkOwnerRow) bool { return a.SlotSize > b.SlotSize },
	PageSize: parkOwnersPageSize,
}

func (s *DashboardService) ParkOwners(ctx context.Context, sess session.Session, st listing.State) ParkOwnersView {
	var (
		owners resource.Snapshot[[]entities.ParkOwner]
		plans  resource.Snapshot[[]entities.SubscriptionPackage]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.ParkOwners, sess.ID, sess.Token, &owners),
		resource.Into(s.Res.Packages, sess.ID, sess.Token, &plans),
	)
	rows := s.ownerRows(owners.Value, plans.Value)
	page := listing.Apply(rows, st, parkOwnerSpec)

	// The revenue chart covers the whole filtered and sorted set, like the table's page count.
	all := listing.Apply(rows, listing.State{Query: st.Query, Order: st.Order, Page: 1}, listing.Spec[ParkOwnerRow]{
		Fields: parkOwnerSpec.Fields, Less: parkOwnerSpec.Less, DescLess: parkOwnerSpec.DescLess,
	})
	revenue := derive.Revenue(all.Items,
		func(r ParkOwnerRow) string { return r.Name },
		func(r ParkOwnerRow) float64 { return r.Earnings })

	return ParkOwnersView{PageStatus: statusOf(report), Result: page, Revenue: revenue}
}

var zoneSearchFields = func(o entities.ParkOwner) []string {
	return []string{o.FirstName, o.LastName, o.Address}
}

// ParkingZones filters owners by name or address and derives map markers and area shares.
func (s *DashboardService) ParkingZones(ctx context.Context, sess session.Session, query string) ParkingZonesView {
	owners := s.Res.ParkOwners.Load(ctx, sess.ID, sess.Token)
	report := resource.Report{}
	if owners.Degraded {
		report.Failed = []string{s.Res.ParkOwners.Name()}
	}
	filtered := listing.Filter(owners.Value, query, zoneSearchFields)
	div := derive.Divisions(filtered)
	return ParkingZonesView{
		PageStatus:  statusOf(report),
		Query:       query,
		Markers:     derive.Markers(filtered, s.log),
		Divisions:   div,
		Ratio:       div.Percentages(),
		Center:      s.Map.Center,
		MapboxToken: s.Map.Token,
	}
}

func (s *DashboardService) Zones(ctx context.Context, sess session.Session) ZonesView {
	owners := s.Res.ParkOwners.Load(ctx, sess.ID, sess.Token)
	report := resource.Report{}
	if owners.Degraded {
		report.Failed = []string{s.Res.ParkOwners.Name()}
	}

	byArea := map[string]*ZoneSummary{}
	var order []string
	for _, o := range owners.Value {
		area := strings.TrimSpace(o.Area)
		if area == "" {
			area = derive.UnknownArea
		}
		z, ok := byArea[area]
		if !ok {
			z = &ZoneSummary{Area: area}
			byArea[area] = z
			order = append(order, area)
		}
		z.Owners++
		z.Capacity += o.Capacity
		z.AvailableSlots += o.AvailableSlot
	}
	sort.Strings(order)
	zones := make([]ZoneSummary, 0, len(order))
	for _, area := range order {
		z := byArea[area]
		if z.Capacity > 0 {
			z.Occupancy = utils.RoundFloat(float64(z.Capacity-z.AvailableSlots)*100/float64(z.Capacity), 2)
		}
		zones = append(zones, *z)
	}
	return ZonesView{PageStatus: statusOf(report), Zones: zones}
}

var subscriptionSpec = listing.Spec[SubscriptionRow]{
	Fields: func(r SubscriptionRow) []string {
		return []string{r.Name, r.Email, r.Plan, r.Status, r.StartDate, r.EndDate}
	},
	Less:     func(a, b SubscriptionRow) bool { return a.EndDate < b.EndDate },
	PageSize: subscriptionsPageSize,
}

func (s *DashboardService) Subscriptions(ctx context.Context, sess session.Session, st listing.State) SubscriptionsView {
	var (
		owners resource.Snapshot[[]entities.ParkOwner]
		plans  resource.Snapshot[[]entities.SubscriptionPackage]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.ParkOwners, sess.ID, sess.Token, &owners),
		resource.Into(s.Res.Packages, sess.ID, sess.Token, &plans),
	)
	planByID := derive.NewLookup(plans.Value, func(p entities.SubscriptionPackage) int { return p.ID }, unknownPlan)
	now := s.now()

	view := SubscriptionsView{PageStatus: statusOf(report)}
	rows := make([]SubscriptionRow, 0, len(owners.Value))
	for _, o := range owners.Value {
		row := SubscriptionRow{
			OwnerID:   o.ID,
			Name:      o.Name(),
			Email:     o.Email,
			Plan:      planByID.GetPtr(o.SubscriptionID).Name,
			Status:    derive.SubscriptionStatus(o.SubscriptionEndDate, now),
			StartDate: o.SubscriptionStartDate,
			EndDate:   o.SubscriptionEndDate,
		}
		if row.Status == derive.StatusActive {
			view.Active++
		} else {
			view.Expired++
		}
		rows = append(rows, row)
	}
	view.Result = listing.Apply(rows, st, subscriptionSpec)
	return view
}

var planSpec = listing.Spec[PlanRow]{
	Fields:   func(p PlanRow) []string { return []string{p.Name} },
	Less:     func(a, b PlanRow) bool { return a.ID < b.ID },
	PageSize: plansPageSize,
}

func planRow(p entities.SubscriptionPackage, subscribers int) PlanRow {
	return PlanRow{
		ID:             p.ID,
		Name:           p.Name,
		DurationMonths: p.DurationMonths,
		Price:          p.Price,
		Discount:       p.Discount,
		FinalPrice:     utils.RoundFloat(p.Price*(100-p.Discount)/100, 2),
		Subscribers:    subscribers,
	}
}

func (s *DashboardService) Plans(ctx context.Context, sess session.Session, st listing.State) PlansView {
	var (
		plans  resource.Snapshot[[]entities.SubscriptionPackage]
		owners resource.Snapshot[[]entities.ParkOwner]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.Packages, sess.ID, sess.Token, &plans),
		resource.Into(s.Res.ParkOwners, sess.ID, sess.Token, &owners),
	)
	subscribers := map[int]int{}
	for _, o := range owners.Value {
		if o.SubscriptionID != nil {
			subscribers[*o.SubscriptionID]++
		}
	}
	rows := make([]PlanRow, 0, len(plans.Value))
	for _, p := range plans.Value {
		rows = append(rows, planRow(p, subscribers[p.ID]))
	}
	return PlansView{PageStatus: statusOf(report), Result: listing.Apply(rows, st, planSpec)}
}

// Notifications lists subscriptions ending within the next seven days.
func (s *DashboardService) Notifications(ctx context.Context, sess session.Session) NotificationsView {
	owners := s.Res.ParkOwners.Load(ctx, sess.ID, sess.Token)
	view := NotificationsView{Items: []Notification{}}
	if owners.Degraded {
		view.PageStatus = statusOf(resource.Report{Failed: []string{s.Res.ParkOwners.Name()}})
	}
	for _, o := range ExpiringSoon(owners.Value, s.now()) {
		view.Items = append(view.Items, Notification{
			OwnerID: o.ID,
			Title:   "Subscription expiring",
			Message: fmt.Sprintf("%s's subscription ends on %s", o.Name(), o.SubscriptionEndDate),
			EndDate: o.SubscriptionEndDate,
		})
	}
	return view
}

// ExpiringSoon returns owners whose subscription ends within the next seven days.
func ExpiringSoon(owners []entities.ParkOwner, now time.Time) []entities.ParkOwner {
	var out []entities.ParkOwner
	for _, o := range owners {
		if derive.ExpiresWithin(o.SubscriptionEndDate, now, expiryWindow) {
			out = append(out, o)
		}
	}
	return out
}
