package derive

import (
	"time"

	"parkspotter-admin/internal/entities"
)

// Series is a chart-ready label/dataset pair.
type Series struct {
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

func MonthSeries(label string, data [12]float64) Series {
	return Series{Label: label, Labels: MonthLabels[:], Data: data[:]}
}

func MonthCountSeries(label string, data [12]int) Series {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return Series{Label: label, Labels: MonthLabels[:], Data: out}
}

func WeekdaySeries(label string, data [7]int) Series {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return Series{Label: label, Labels: WeekdayLabels[:], Data: out}
}

// Revenue is one bar per item, in the order of items.
func Revenue[T any](items []T, name func(T) string, amount func(T) float64) Series {
	s := Series{Label: "Revenue", Labels: make([]string, 0, len(items)), Data: make([]float64, 0, len(items))}
	for _, it := range items {
		s.Labels = append(s.Labels, name(it))
		s.Data = append(s.Data, amount(it))
	}
	return s
}

type OriginCounts struct {
	Customer int `json:"customer"`
	Employee int `json:"employee"`
	None     int `json:"none"`
}

func BookingOrigins(bookings []entities.Booking) OriginCounts {
	var c OriginCounts
	for _, b := range bookings {
		switch b.Origin() {
		case entities.OriginCustomer:
			c.Customer++
		case entities.OriginEmployee:
			c.Employee++
		default:
			c.None++
		}
	}
	return c
}

func BookingTime(b entities.Booking) (time.Time, bool) { return b.BookingTime, !b.BookingTime.IsZero() }

func BookingAmount(b entities.Booking) float64 { return b.TotalAmount }

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ActivityBreakdown counts Active and Inactive, always in that order.
func ActivityBreakdown[T any](items []T, active func(T) bool) []StatusCount {
	out := []StatusCount{{Status: entities.StatusActive}, {Status: entities.StatusInactive}}
	for _, it := range items {
		if active(it) {
			out[0].Count++
		} else {
			out[1].Count++
		}
	}
	return out
}
