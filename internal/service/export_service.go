package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/gosimple/slug"

	"parkspotter-admin/internal/derive"
	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/resource"
	"parkspotter-admin/internal/session"
)

// ExportFile is a rendered CSV download. It holds every row matching the view's
// query and order, not just the visible page.
type ExportFile struct {
	Name string
	Data []byte
	PageStatus
}

func unpaged[T any](spec listing.Spec[T]) listing.Spec[T] {
	spec.PageSize = 0
	return spec
}

func (s *DashboardService) exportName(title string) string {
	return slug.Make(fmt.Sprintf("parkspotter %s %s", title, s.now().Format("2006-01-02"))) + ".csv"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *DashboardService) ExportParkOwners(ctx context.Context, sess session.Session, st listing.State) (ExportFile, error) {
	var (
		owners resource.Snapshot[[]entities.ParkOwner]
		plans  resource.Snapshot[[]entities.SubscriptionPackage]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.ParkOwners, sess.ID, sess.Token, &owners),
		resource.Into(s.Res.Packages, sess.ID, sess.Token, &plans),
	)
	rows := listing.Apply(s.ownerRows(owners.Value, plans.Value), st.WithPage(1), unpaged(parkOwnerSpec)).Items

	var buf bytes.Buffer
	header := []string{"ID", "Name", "Username", "Email", "Mobile", "Area", "Address", "Capacity", "Slots", "Available", "Plan", "Start", "End", "Status", "Earnings"}
	err := derive.WriteCSV(&buf, header, rows, func(r ParkOwnerRow) []string {
		return []string{
			strconv.Itoa(r.ID), r.Name, r.Username, r.Email, r.MobileNo, r.Area, r.Address,
			strconv.Itoa(r.Capacity), strconv.Itoa(r.SlotSize), strconv.Itoa(r.AvailableSlot),
			r.Plan, r.SubscriptionStartDate, r.SubscriptionEndDate, r.SubscriptionStatus, money(r.Earnings),
		}
	})
	if err != nil {
		return ExportFile{}, fmt.Errorf("export park owners: %w", err)
	}
	return ExportFile{Name: s.exportName("park owners"), Data: buf.Bytes(), PageStatus: statusOf(report)}, nil
}

func (s *DashboardService) ExportUsers(ctx context.Context, sess session.Session, st listing.State) (ExportFile, error) {
	var (
		users     resource.Snapshot[[]entities.User]
		customers resource.Snapshot[[]entities.Customer]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.Users, sess.ID, sess.Token, &users),
		resource.Into(s.Res.Customers, sess.ID, sess.Token, &customers),
	)
	rows := listing.Apply(s.userRows(users.Value, customers.Value), st.WithPage(1), unpaged(userSpec)).Items

	var buf bytes.Buffer
	header := []string{"ID", "Username", "Email", "Role", "Status", "Joined", "Mobile", "Vehicle", "Points"}
	err := derive.WriteCSV(&buf, header, rows, func(r UserRow) []string {
		return []string{
			strconv.Itoa(r.ID), r.Username, r.Email, r.Role, r.Status, r.Joined,
			r.MobileNo, r.VehiclePlate, strconv.Itoa(r.Points),
		}
	})
	if err != nil {
		return ExportFile{}, fmt.Errorf("export users: %w", err)
	}
	return ExportFile{Name: s.exportName("users"), Data: buf.Bytes(), PageStatus: statusOf(report)}, nil
}

func (s *DashboardService) ExportBookings(ctx context.Context, sess session.Session, st listing.State) (ExportFile, error) {
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
	matched := listing.Apply(bookings.Value, st.WithPage(1), unpaged(bookingSpec)).Items
	toRow := bookingRowMapper(customers.Value, employees.Value)

	var buf bytes.Buffer
	header := []string{"ID", "Ticket", "Plate", "Mobile", "Booked At", "Check Out", "Rate/Min", "Total", "Paid", "Origin", "Booked By"}
	err := derive.WriteCSV(&buf, header, matched, func(b entities.Booking) []string {
		r := toRow(b)
		return []string{
			strconv.Itoa(r.ID), r.TicketNo, r.PlateNumber, r.VehicleMobile, r.BookingTime, r.CheckOutTime,
			money(r.RatePerMinute), money(r.TotalAmount), strconv.FormatBool(r.IsPaid), r.Origin, r.BookedBy,
		}
	})
	if err != nil {
		return ExportFile{}, fmt.Errorf("export bookings: %w", err)
	}
	return ExportFile{Name: s.exportName("bookings"), Data: buf.Bytes(), PageStatus: statusOf(report)}, nil
}
