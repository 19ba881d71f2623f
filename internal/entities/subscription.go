package entities

type SubscriptionPackage struct {
	ID             int     `json:"id"`
	Name           string  `json:"name" validate:"required,max=100"`
	DurationMonths int     `json:"duration_months" validate:"required,gt=0,lte=120"`
	Price          float64 `json:"price" validate:"gte=0"`
	Discount       float64 `json:"discount" validate:"gte=0,lte=100"`
}

type DashboardSummary struct {
	TotalUsers          int     `json:"total_users"`
	TotalParkOwners     int     `json:"total_park_owners"`
	TotalCustomers      int     `json:"total_customers"`
	TotalBookings       int     `json:"total_bookings"`
	TotalEarnings       float64 `json:"total_earnings"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
}
