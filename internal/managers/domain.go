package managers

import (
	"strings"
	"time"
)

// Ground is the playground owned by a manager.
type Ground struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Picture         string   `json:"picture,omitempty"`
	Description     string   `json:"description,omitempty"`
	PopularFeatures []string `json:"popularFeatures,omitempty"`
}

// Manager is a user with the playground manager role.
type Manager struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Ground    *Ground `json:"ground,omitempty"`
}

// FullName joins first and last name.
func (m Manager) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Filters narrows the manager listing.
type Filters struct {
	Email string
	Name  string
	Page  int
	Size  int
}

// Input carries the fields of a create or update. Password is only required
// on create.
type Input struct {
	FirstName         string   `yaml:"firstName" validate:"required,max=100"`
	LastName          string   `yaml:"lastName" validate:"required,max=100"`
	Email             string   `yaml:"email" validate:"required,email"`
	Password          string   `yaml:"password" validate:"required,min=6"`
	GroundName        string   `yaml:"groundName" validate:"required"`
	GroundAddress     string   `yaml:"groundAddress" validate:"required"`
	GroundDescription string   `yaml:"groundDescription"`
	PopularFeatures   []string `yaml:"popularFeatures"`
}

// ParseFeatures splits a comma separated feature list, dropping blanks.
func ParseFeatures(raw string) []string {
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Activity is one recent booking at a manager's ground.
type Activity struct {
	ID             int64   `json:"id"`
	CustomerName   string  `json:"customerName"`
	PlaygroundName string  `json:"playgroundName"`
	StartTime      string  `json:"startTime"`
	TotalPrice     float64 `json:"totalPrice"`
	Status         string  `json:"status"`
}

// Usage summarises ground occupancy.
type Usage struct {
	OccupancyRate    float64 `json:"occupancyRate"`
	TotalHoursBooked float64 `json:"totalHoursBooked"`
}

// Stats is the booking summary of a manager for a date range.
type Stats struct {
	TotalBookings  int64            `json:"totalBookings"`
	Revenue        float64          `json:"revenue"`
	BookingStats   map[string]int64 `json:"bookingStats"`
	UsageStats     Usage            `json:"usageStats"`
	RecentActivity []Activity       `json:"recentActivity"`
}

// StatusCount is one booking status with its count.
type StatusCount struct {
	Status string
	Count  int64
}

var bookingStatuses = []string{"PENDING", "CONFIRMED", "REJECTED", "COMPLETED", "CANCELLED"}

// Count reads a status count under its upper or lower case key.
func (s Stats) Count(status string) int64 {
	if v, ok := s.BookingStats[strings.ToUpper(status)]; ok {
		return v
	}
	return s.BookingStats[strings.ToLower(status)]
}

// Breakdown lists every booking status in a fixed order.
func (s Stats) Breakdown() []StatusCount {
	out := make([]StatusCount, 0, len(bookingStatuses))
	for _, status := range bookingStatuses {
		out = append(out, StatusCount{Status: status, Count: s.Count(status)})
	}
	return out
}

// DateLayout is the format of stats range bounds.
const DateLayout = "2006-01-02"

// CurrentMonth returns the first and last day of the month containing now.
func CurrentMonth(now time.Time) (start, end string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}
