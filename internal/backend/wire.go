package backend

import (
	"parkspotter-admin/internal/utils"
)

// Wire shapes of the ParkSpotter backend. Only parse.go should read these.

type accountRef struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type parkOwnerWire struct {
	ID                    int                `json:"id"`
	Account               *accountRef        `json:"park_owner_id"`
	MobileNo              string             `json:"mobile_no"`
	NIDCardNo             string             `json:"nid_card_no"`
	SlotSize              int                `json:"slot_size"`
	AvailableSlot         int                `json:"available_slot"`
	Capacity              utils.LenientFloat `json:"capacity"`
	SubscriptionStartDate string             `json:"subscription_start_date"`
	SubscriptionEndDate   string             `json:"subscription_end_date"`
	SubscriptionID        *int               `json:"subscription_id"`
	PaymentMethod         string             `json:"payment_method"`
	Amount                utils.LenientFloat `json:"amount"`
	PaymentDate           string             `json:"payment_date"`
	JoinedDate            string             `json:"joined_date"`
	Address               string             `json:"address"`
	Area                  string             `json:"area"`
	Latitude              utils.LenientFloat `json:"latitude"`
	Longitude             utils.LenientFloat `json:"longitude"`
	IsActive              *bool              `json:"is_active"`
	Earnings              utils.LenientFloat `json:"total_earnings"`
}

type customerWire struct {
	ID         int         `json:"id"`
	Account    *accountRef `json:"customer_id"`
	MobileNo   string      `json:"mobile_no"`
	Vehicle    *vehicle    `json:"vehicle"`
	Points     int         `json:"points"`
	IsActive   *bool       `json:"is_active"`
	JoinedDate string      `json:"joined_date"`
}

type vehicle struct {
	PlateNumber string `json:"plate_number"`
	MobileNo    string `json:"mobile_no"`
}

type employeeWire struct {
	ID            int         `json:"id"`
	Account       *accountRef `json:"employee"`
	Qualification string      `json:"qualification"`
	Address       string      `json:"address"`
	MobileNo      string      `json:"mobile_no"`
	ParkOwnerID   int         `json:"park_owner_id"`
}

type bookingWire struct {
	ID             int                `json:"id"`
	TicketNo       string             `json:"ticket_no"`
	Vehicle        *vehicle           `json:"vehicle"`
	BookingTime    string             `json:"booking_time"`
	ApproxCheckOut string             `json:"appoximate_check_out_time"`
	RatePerMinute  utils.LenientFloat `json:"rate_per_minute"`
	TotalAmount    utils.LenientFloat `json:"total_amount"`
	IsPaid         bool               `json:"is_paid"`
	Customer       *int               `json:"customer"`
	Employee       *int               `json:"employee"`
}

type userWire struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsActive   *bool  `json:"is_active"`
	DateJoined string `json:"date_joined"`
}

type packageWire struct {
	ID             int                `json:"id"`
	Name           string             `json:"name"`
	DurationMonths int                `json:"duration_months"`
	Price          utils.LenientFloat `json:"price"`
	Discount       utils.LenientFloat `json:"discount"`
}

type packageRequest struct {
	Name           string  `json:"name"`
	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"discount"`
}

type summaryWire struct {
	TotalUsers          int                `json:"total_users"`
	TotalParkOwners     int                `json:"total_park_owners"`
	TotalCustomers      int                `json:"total_customers"`
	TotalBookings       int                `json:"total_bookings"`
	TotalEarnings       utils.LenientFloat `json:"total_earnings"`
	ActiveSubscriptions int                `json:"active_subscriptions"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}
