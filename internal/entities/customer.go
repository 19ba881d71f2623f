package entities

import "time"

type Customer struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	MobileNo     string     `json:"mobile_no"`
	VehiclePlate string     `json:"vehicle_plate"`
	Points       int        `json:"points"`
	IsActive     bool       `json:"is_active"`
	JoinedDate   *time.Time `json:"joined_date,omitempty"`
}

func (c Customer) Name() string {
	return joinName(c.FirstName, c.LastName, c.Username)
}

// User is a generic platform account as returned by the user list.
type User struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	JoinedDate *time.Time `json:"joined_date,omitempty"`
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

func ActivityStatus(active bool) string {
	if active {
		return StatusActive
	}
	return StatusInactive
}
