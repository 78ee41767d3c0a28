package events

import (
	"strings"

	"github.com/kickzone/kickzone-admin/internal/grounds"
)

// Backend wire formats.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	TimeLayout     = "15:04:05"
)

// Event is a tournament hosted at a ground.
type Event struct {
	ID                   int64               `json:"id"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	Image                string              `json:"image,omitempty"`
	Ground               *grounds.Playground `json:"ground,omitempty"`
	LastRegistrationDate string              `json:"lastRegistrationDate"`
	RegistrationFees     float64             `json:"registrationFees"`
	MaxRegistrations     *int                `json:"maxRegistrations,omitempty"`
	IsActive             bool                `json:"isActive"`
	StartTournamentDate  string              `json:"startTournamentDate"`
	TimeFrom             string              `json:"timeFrom"`
	TimeTo               string              `json:"timeTo"`
	CreatedAt            string              `json:"createdAt,omitempty"`
	UpdatedAt            string              `json:"updatedAt,omitempty"`
}

// GroundName is the hosting ground's name, or "".
func (e Event) GroundName() string {
	if e.Ground == nil {
		return ""
	}
	return e.Ground.Name
}

// Registrant is the user who registered a team.
type Registrant struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// TeamRegistration is one team signed up for an event.
type TeamRegistration struct {
	ID              int64      `json:"id"`
	TeamName        string     `json:"teamName"`
	NumberOfPlayers int        `json:"numberOfPlayers"`
	User            Registrant `json:"user"`
	CreatedAt       string     `json:"createdAt"`
}

// Input is the complete payload of a new event. Date-times are sent as
// yyyy-MM-dd HH:mm:ss and times as HH:mm:ss.
type Input struct {
	Title                string  `json:"title" yaml:"title" validate:"required,max=200"`
	Description          string  `json:"description" yaml:"description" validate:"required"`
	GroundID             int64   `json:"groundId" yaml:"groundId" validate:"required,gt=0"`
	LastRegistrationDate string  `json:"lastRegistrationDate" yaml:"lastRegistrationDate" validate:"required,datetime=2006-01-02 15:04:05"`
	RegistrationFees     float64 `json:"registrationFees" yaml:"registrationFees" validate:"gte=0"`
	MaxRegistrations     *int    `json:"maxRegistrations,omitempty" yaml:"maxRegistrations" validate:"omitempty,gt=0"`
	IsActive             bool    `json:"isActive" yaml:"isActive"`
	StartTournamentDate  string  `json:"startTournamentDate" yaml:"startTournamentDate" validate:"required,datetime=2006-01-02 15:04:05"`
	TimeFrom             string  `json:"timeFrom" yaml:"timeFrom" validate:"required,datetime=15:04:05"`
	TimeTo               string  `json:"timeTo" yaml:"timeTo" validate:"required,datetime=15:04:05"`
}

// Normalize rewrites date-times and times into the backend formats.
func (in Input) Normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.LastRegistrationDate = NormalizeDateTime(in.LastRegistrationDate)
	in.StartTournamentDate = NormalizeDateTime(in.StartTournamentDate)
	in.TimeFrom = NormalizeTime(in.TimeFrom)
	in.TimeTo = NormalizeTime(in.TimeTo)
	return in
}

// Patch carries the fields of an update. Nil fields are not sent.
type Patch struct {
	Title                *string  `json:"title,omitempty"`
	Description          *string  `json:"description,omitempty"`
	GroundID             *int64   `json:"groundId,omitempty"`
	LastRegistrationDate *string  `json:"lastRegistrationDate,omitempty"`
	RegistrationFees     *float64 `json:"registrationFees,omitempty"`
	MaxRegistrations     *int     `json:"maxRegistrations,omitempty"`
	IsActive             *bool    `json:"isActive,omitempty"`
	StartTournamentDate  *string  `json:"startTournamentDate,omitempty"`
	TimeFrom             *string  `json:"timeFrom,omitempty"`
	TimeTo               *string  `json:"timeTo,omitempty"`
}

// Normalize rewrites the supplied date-times and times into backend formats.
func (p Patch) Normalize() Patch {
	p.LastRegistrationDate = normalizePtr(p.LastRegistrationDate, NormalizeDateTime)
	p.StartTournamentDate = normalizePtr(p.StartTournamentDate, NormalizeDateTime)
	p.TimeFrom = normalizePtr(p.TimeFrom, NormalizeTime)
	p.TimeTo = normalizePtr(p.TimeTo, NormalizeTime)
	return p
}

func normalizePtr(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	out := fn(*v)
	return &out
}

// NormalizeDateTime turns a datetime-local value (yyyy-MM-ddTHH:mm or with
// seconds) into yyyy-MM-dd HH:mm:ss. Values already in that format and
// unrecognised values are returned unchanged.
func NormalizeDateTime(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	v = strings.Replace(v, "T", " ", 1)
	if len(v) == len("2006-01-02 15:04") && strings.Contains(v, " ") {
		return v + ":00"
	}
	return v
}

// NormalizeTime turns HH:mm into HH:mm:ss.
func NormalizeTime(v string) string {
	v = strings.TrimSpace(v)
	if len(v) == len("15:04") && strings.Contains(v, ":") {
		return v + ":00"
	}
	return v
}

// LocalDateTime renders a backend date-time for a datetime-local input.
func LocalDateTime(v string) string {
	v = strings.Replace(strings.TrimSpace(v), " ", "T", 1)
	if len(v) > len("2006-01-02T15:04") {
		v = v[:len("2006-01-02T15:04")]
	}
	return v
}

// LocalTime renders a backend time for a time input.
func LocalTime(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > len("15:04") {
		v = v[:len("15:04")]
	}
	return v
}

// FilterByTeam keeps registrations whose team name contains needle,
// ignoring case.
func FilterByTeam(regs []TeamRegistration, needle string) []TeamRegistration {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return regs
	}
	out := make([]TeamRegistration, 0, len(regs))
	for _, reg := range regs {
		if strings.Contains(strings.ToLower(reg.TeamName), needle) {
			out = append(out, reg)
		}
	}
	return out
}
