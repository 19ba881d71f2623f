package backend

import (
	"log/slog"
	"time"

	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/metrics"
	"parkspotter-admin/internal/utils"
)

func optionalTime(s string) *time.Time {
	t, ok := utils.ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}

// boolOr treats a missing activity flag as active; the backend omits it for accounts never toggled.
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func parseParkOwner(w parkOwnerWire) entities.ParkOwner {
	o := entities.ParkOwner{
		ID:                    w.ID,
		MobileNo:              w.MobileNo,
		NIDCardNo:             w.NIDCardNo,
		Address:               w.Address,
		Area:                  w.Area,
		Latitude:              w.Latitude.Ptr(),
		Longitude:             w.Longitude.Ptr(),
		Capacity:              int(w.Capacity.Value),
		SlotSize:              w.SlotSize,
		AvailableSlot:         w.AvailableSlot,
		SubscriptionID:        w.SubscriptionID,
		SubscriptionStartDate: w.SubscriptionStartDate,
		SubscriptionEndDate:   w.SubscriptionEndDate,
		PaymentMethod:         w.PaymentMethod,
		Amount:                w.Amount.Value,
		PaymentDate:           w.PaymentDate,
		JoinedDate:            optionalTime(w.JoinedDate),
		IsActive:              boolOr(w.IsActive, true),
		Earnings:              w.Earnings.Value,
	}
	if w.Account != nil {
		o.Username = w.Account.Username
		o.FirstName = w.Account.FirstName
		o.LastName = w.Account.LastName
		o.Email = w.Account.Email
	}
	return o
}

func parseCustomer(w customerWire) entities.Customer {
	c := entities.Customer{
		ID:         w.ID,
		MobileNo:   w.MobileNo,
		Points:     w.Points,
		IsActive:   boolOr(w.IsActive, true),
		JoinedDate: optionalTime(w.JoinedDate),
	}
	if w.Account != nil {
		// Bookings reference customers by account id, so that is the id we keep.
		c.ID = w.Account.ID
		c.Username = w.Account.Username
		c.FirstName = w.Account.FirstName
		c.LastName = w.Account.LastName
		c.Email = w.Account.Email
	}
	if w.Vehicle != nil {
		c.VehiclePlate = w.Vehicle.PlateNumber
	}
	return c
}

func parseEmployee(w employeeWire) entities.Employee {
	e := entities.Employee{
		ID:            w.ID,
		Qualification: w.Qualification,
		Address:       w.Address,
		MobileNo:      w.MobileNo,
		ParkOwnerID:   w.ParkOwnerID,
	}
	if w.Account != nil {
		e.FirstName = w.Account.FirstName
		e.LastName = w.Account.LastName
	}
	return e
}

// parseBooking reports ok=false for records that cannot be shown: no parseable booking time,
// or both a customer and an employee reference.
func parseBooking(w bookingWire) (entities.Booking, bool) {
	t, ok := utils.ParseDate(w.BookingTime)
	if !ok {
		slog.Warn("skipping booking with invalid booking_time", slog.Int("id", w.ID), slog.String("booking_time", w.BookingTime))
		metrics.SkippedRecords.WithLabelValues("booking_time").Inc()
		return entities.Booking{}, false
	}
	b := entities.Booking{
		ID:             w.ID,
		TicketNo:       w.TicketNo,
		BookingTime:    t,
		ApproxCheckOut: optionalTime(w.ApproxCheckOut),
		RatePerMinute:  w.RatePerMinute.Value,
		TotalAmount:    w.TotalAmount.Value,
		IsPaid:         w.IsPaid,
		CustomerID:     w.Customer,
		EmployeeID:     w.Employee,
	}
	if w.Vehicle != nil {
		b.PlateNumber = w.Vehicle.PlateNumber
		b.VehicleMobile = w.Vehicle.MobileNo
	}
	if err := b.Validate(); err != nil {
		slog.Warn("skipping booking", slog.Int("id", w.ID), slog.Any("error", err))
		metrics.SkippedRecords.WithLabelValues("booking_origin").Inc()
		return entities.Booking{}, false
	}
	return b, true
}

func parseUser(w userWire) entities.User {
	return entities.User{
		ID:         w.ID,
		Username:   w.Username,
		Email:      w.Email,
		Role:       w.Role,
		IsActive:   boolOr(w.IsActive, true),
		JoinedDate: optionalTime(w.DateJoined),
	}
}

func parsePackage(w packageWire) entities.SubscriptionPackage {
	return entities.SubscriptionPackage{
		ID:             w.ID,
		Name:           w.Name,
		DurationMonths: w.DurationMonths,
		Price:          w.Price.Value,
		Discount:       w.Discount.Value,
	}
}

func parseSummary(w summaryWire) entities.DashboardSummary {
	return entities.DashboardSummary{
		TotalUsers:          w.TotalUsers,
		TotalParkOwners:     w.TotalParkOwners,
		TotalCustomers:      w.TotalCustomers,
		TotalBookings:       w.TotalBookings,
		TotalEarnings:       w.TotalEarnings.Value,
		ActiveSubscriptions: w.ActiveSubscriptions,
	}
}

func mapAll[W, T any](in []W, f func(W) T) []T {
	out := make([]T, 0, len(in))
	for _, w := range in {
		out = append(out, f(w))
	}
	return out
}
