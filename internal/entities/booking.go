package entities

import (
	"errors"
	"time"
)

var ErrBookingOrigin = errors.New("booking references both a customer and an employee")

type Booking struct {
	ID             int        `json:"id"`
	TicketNo       string     `json:"ticket_no"`
	PlateNumber    string     `json:"plate_number"`
	VehicleMobile  string     `json:"vehicle_mobile"`
	BookingTime    time.Time  `json:"booking_time"`
	ApproxCheckOut *time.Time `json:"approximate_check_out_time,omitempty"`
	RatePerMinute  float64    `json:"rate_per_minute"`
	TotalAmount    float64    `json:"total_amount"`
	IsPaid         bool       `json:"is_paid"`
	CustomerID     *int       `json:"customer_id,omitempty"`
	EmployeeID     *int       `json:"employee_id,omitempty"`
}

// Validate enforces that at most one of CustomerID and EmployeeID is set.
func (b Booking) Validate() error {
	if b.CustomerID != nil && b.EmployeeID != nil {
		return ErrBookingOrigin
	}
	return nil
}

const (
	OriginCustomer = "customer"
	OriginEmployee = "employee"
	OriginNone     = "none"
)

func (b Booking) Origin() string {
	switch {
	case b.CustomerID != nil:
		return OriginCustomer
	case b.EmployeeID != nil:
		return OriginEmployee
	default:
		return OriginNone
	}
}
