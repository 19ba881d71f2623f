package derive

import (
	"time"
)

var MonthLabels = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var WeekdayLabels = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MonthBuckets counts items per calendar month. The year is ignored, so January 2023 and
// January 2024 land in the same slot. Items whose date is missing are skipped.
func MonthBuckets[T any](items []T, dateOf func(T) (time.Time, bool)) [12]int {
	var out [12]int
	for _, it := range items {
		if t, ok := dateOf(it); ok {
			out[t.Month()-1]++
		}
	}
	return out
}

// MonthSums is MonthBuckets summing valueOf instead of counting.
func MonthSums[T any](items []T, dateOf func(T) (time.Time, bool), valueOf func(T) float64) [12]float64 {
	var out [12]float64
	for _, it := range items {
		if t, ok := dateOf(it); ok {
			out[t.Month()-1] += valueOf(it)
		}
	}
	return out
}

// WeekdayBuckets counts items per weekday, Monday first.
func WeekdayBuckets[T any](items []T, dateOf func(T) (time.Time, bool)) [7]int {
	var out [7]int
	for _, it := range items {
		if t, ok := dateOf(it); ok {
			out[(int(t.Weekday())+6)%7]++
		}
	}
	return out
}

// TimeOf adapts an optional timestamp to the dateOf shape.
func TimeOf(t *time.Time) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}
