package service

import (
	"parkspotter-admin/internal/derive"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/resource"
)

// PageStatus is embedded in every page view. Loading is always false once a view is returned,
// because views are built only after every fetch of the page has settled.
type PageStatus struct {
	Loading  bool     `json:"loading"`
	Degraded bool     `json:"degraded"`
	Failed   []string `json:"failed,omitempty"`
}

func statusOf(r resource.Report) PageStatus {
	return PageStatus{Degraded: r.Degraded(), Failed: r.Failed}
}

type StatBox struct {
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Growth float64 `json:"growth"`
	Trend  string  `json:"trend"`
	Link   string  `json:"link,omitempty"`
}

type OverviewView struct {
	PageStatus
	Stats           []StatBox          `json:"stats"`
	MonthlyEarnings derive.Series      `json:"monthly_earnings"`
	MonthlyBookings derive.Series      `json:"monthly_bookings"`
	TopAreas        []derive.AreaShare `json:"top_areas"`
}

type AnalyticsView struct {
	PageStatus
	UserStatus      []derive.StatusCount `json:"user_status"`
	WeekdayActivity derive.Series        `json:"weekday_activity"`
	MonthlyBookings derive.Series        `json:"monthly_bookings"`
	MonthlyEarnings derive.Series        `json:"monthly_earnings"`
	CustomersJoined derive.Series        `json:"customers_joined"`
	BookingOrigins  derive.OriginCounts  `json:"booking_origins"`
}

type BookingRow struct {
	ID            int     `json:"id"`
	TicketNo      string  `json:"ticket_no"`
	PlateNumber   string  `json:"plate_number"`
	VehicleMobile string  `json:"vehicle_mobile"`
	BookingTime   string  `json:"booking_time"`
	CheckOutTime  string  `json:"check_out_time"`
	RatePerMinute float64 `json:"rate_per_minute"`
	TotalAmount   float64 `json:"total_amount"`
	IsPaid        bool    `json:"is_paid"`
	Origin        string  `json:"origin"`
	BookedBy      string  `json:"booked_by"`
}

type BookingsView struct {
	PageStatus
	listing.Result[BookingRow]
	Counts derive.OriginCounts `json:"counts"`
}

type UserRow struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	IsActive     bool   `json:"is_active"`
	Joined       string `json:"joined_date"`
	MobileNo     string `json:"mobile_no"`
	VehiclePlate string `json:"vehicle_plate"`
	Points       int    `json:"points"`
}

type UsersView struct {
	PageStatus
	listing.Result[UserRow]
	Breakdown []derive.StatusCount `json:"breakdown"`
}

type ParkOwnerRow struct {
	ID                    int     `json:"id"`
	Name                  string  `json:"name"`
	Username              string  `json:"username"`
	Email                 string  `json:"email"`
	MobileNo              string  `json:"mobile_no"`
	Address               string  `json:"address"`
	Area                  string  `json:"area"`
	Capacity              int     `json:"capacity"`
	SlotSize              int     `json:"slot_size"`
	AvailableSlot         int     `json:"available_slot"`
	Plan                  string  `json:"plan"`
	SubscriptionStartDate string  `json:"subscription_start_date"`
	SubscriptionEndDate   string  `json:"subscription_end_date"`
	SubscriptionStatus    string  `json:"subscription_status"`
	Earnings              float64 `json:"earnings"`
	IsActive              bool    `json:"is_active"`
}

type ParkOwnersView struct {
	PageStatus
	listing.Result[ParkOwnerRow]
	Revenue derive.Series `json:"revenue"`
}

type ParkingZonesView struct {
	PageStatus
	Query       string               `json:"query"`
	Markers     []derive.Marker      `json:"markers"`
	Divisions   derive.DivisionRatio `json:"divisions"`
	Ratio       map[string]float64   `json:"ratio"`
	Center      [2]float64           `json:"center"`
	MapboxToken string               `json:"mapbox_token,omitempty"`
}

type ZoneSummary struct {
	Area           string  `json:"area"`
	Owners         int     `json:"owners"`
	Capacity       int     `json:"capacity"`
	AvailableSlots int     `json:"available_slots"`
	Occupancy      float64 `json:"occupancy"`
}

type ZonesView struct {
	PageStatus
	Zones []ZoneSummary `json:"zones"`
}

type SubscriptionRow struct {
	OwnerID   int    `json:"owner_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SubscriptionsView struct {
	PageStatus
	listing.Result[SubscriptionRow]
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

type PlansView struct {
	PageStatus
	listing.Result[PlanRow]
}

type PlanRow struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"discount"`
	FinalPrice     float64 `json:"final_price"`
	Subscribers    int     `json:"subscribers"`
}

type Notification struct {
	OwnerID int    `json:"owner_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	EndDate string `json:"end_date"`
}

type NotificationsView struct {
	PageStatus
	Items []Notification `json:"items"`
}
