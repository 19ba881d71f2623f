package entities

import (
	"time"

	"parkspotter-admin/internal/utils"
)

type ParkOwner struct {
	ID                    int        `json:"id"`
	Username              string     `json:"username"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Email                 string     `json:"email"`
	MobileNo              string     `json:"mobile_no"`
	NIDCardNo             string     `json:"nid_card_no"`
	Address               string     `json:"address"`
	Area                  string     `json:"area"`
	Latitude              *float64   `json:"latitude"`
	Longitude             *float64   `json:"longitude"`
	Capacity              int        `json:"capacity"`
	SlotSize              int        `json:"slot_size"`
	AvailableSlot         int        `json:"available_slot"`
	SubscriptionID        *int       `json:"subscription_id"`
	SubscriptionStartDate string     `json:"subscription_start_date"`
	SubscriptionEndDate   string     `json:"subscription_end_date"`
	PaymentMethod         string     `json:"payment_method"`
	Amount                float64    `json:"amount"`
	PaymentDate           string     `json:"payment_date"`
	JoinedDate            *time.Time `json:"joined_date,omitempty"`
	IsActive              bool       `json:"is_active"`
	Earnings              float64    `json:"earnings"`
}

func (o ParkOwner) Name() string {
	return joinName(o.FirstName, o.LastName, o.Username)
}

type Employee struct {
	ID            int    `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Qualification string `json:"qualification"`
	Address       string `json:"address"`
	MobileNo      string `json:"mobile_no"`
	ParkOwnerID   int    `json:"park_owner_id"`
}

func (e Employee) Name() string {
	return joinName(e.FirstName, e.LastName, "")
}

func joinName(first, last, fallback string) string {
	if n := utils.FullName(first, last); n != "" {
		return n
	}
	return fallback
}
