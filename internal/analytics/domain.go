package analytics

import (
	"sort"
	"strconv"
	"strings"
)

// RecentBooking is one row of the latest bookings table.
type RecentBooking struct {
	ID             int64   `json:"id"`
	CustomerName   string  `json:"customerName"`
	PlaygroundName string  `json:"playgroundName"`
	StartTime      string  `json:"startTime"`
	Status         string  `json:"status"`
	TotalPrice     float64 `json:"totalPrice"`
}

// DashboardAnalytics is the platform wide summary shown on the dashboard.
type DashboardAnalytics struct {
	BookingsToday        int64            `json:"bookingsToday"`
	BookingsThisMonth    int64            `json:"bookingsThisMonth"`
	ActivePlaygrounds    int64            `json:"activePlaygrounds"`
	InactivePlaygrounds  int64            `json:"inactivePlaygrounds"`
	BookingsLast30Days   map[string]int64 `json:"bookingsLast30Days"`
	BookingsBySportType  map[string]int64 `json:"bookingsBySportType"`
	TopBookedPlaygrounds map[string]int64 `json:"topBookedPlaygrounds"`
	PeakBookingHours     map[string]int64 `json:"peakBookingHours"`
	MostBookedDaysOfWeek map[string]int64 `json:"mostBookedDaysOfWeek"`
	LatestBookings       []RecentBooking  `json:"latestBookings"`
}

// Point is one bar of a chart. Percent is relative to the largest value of
// the series.
type Point struct {
	Label   string
	Value   int64
	Percent int64
}

// TotalPlaygrounds counts active and inactive playgrounds.
func (d DashboardAnalytics) TotalPlaygrounds() int64 {
	return d.ActivePlaygrounds + d.InactivePlaygrounds
}

// DailySeries orders the last 30 days chronologically.
func (d DashboardAnalytics) DailySeries() []Point {
	return series(d.BookingsLast30Days, func(a, b Point) bool { return a.Label < b.Label })
}

// SportSeries orders sport types by booking count.
func (d DashboardAnalytics) SportSeries() []Point {
	return series(d.BookingsBySportType, byValue)
}

// TopPlaygrounds orders playgrounds by booking count.
func (d DashboardAnalytics) TopPlaygrounds() []Point {
	return series(d.TopBookedPlaygrounds, byValue)
}

// HourSeries orders peak hours by hour of day.
func (d DashboardAnalytics) HourSeries() []Point {
	return series(d.PeakBookingHours, func(a, b Point) bool {
		ha, errA := strconv.Atoi(strings.TrimSuffix(a.Label, ":00"))
		hb, errB := strconv.Atoi(strings.TrimSuffix(b.Label, ":00"))
		if errA != nil || errB != nil {
			return a.Label < b.Label
		}
		return ha < hb
	})
}

var weekdayOrder = map[string]int{
	"MONDAY": 0, "TUESDAY": 1, "WEDNESDAY": 2, "THURSDAY": 3, "FRIDAY": 4, "SATURDAY": 5, "SUNDAY": 6,
}

// WeekdaySeries orders days Monday first.
func (d DashboardAnalytics) WeekdaySeries() []Point {
	return series(d.MostBookedDaysOfWeek, func(a, b Point) bool {
		ia, okA := weekdayOrder[strings.ToUpper(a.Label)]
		ib, okB := weekdayOrder[strings.ToUpper(b.Label)]
		if !okA || !okB {
			return a.Label < b.Label
		}
		return ia < ib
	})
}

func byValue(a, b Point) bool {
	if a.Value == b.Value {
		return a.Label < b.Label
	}
	return a.Value > b.Value
}

func series(values map[string]int64, less func(a, b Point) bool) []Point {
	points := make([]Point, 0, len(values))
	var peak int64
	for label, value := range values {
		points = append(points, Point{Label: label, Value: value})
		if value > peak {
			peak = value
		}
	}
	sort.Slice(points, func(i, j int) bool { return less(points[i], points[j]) })
	if peak > 0 {
		for i := range points {
			if points[i].Value > 0 {
				points[i].Percent = points[i].Value * 100 / peak
			}
		}
	}
	return points
}
