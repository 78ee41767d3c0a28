package events

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/view"
)

// eventForm holds the raw form values so they can be redisplayed.
type eventForm struct {
	Title                string
	Description          string
	GroundID             string
	GroundName           string
	LastRegistrationDate string
	RegistrationFees     string
	MaxRegistrations     string
	IsActive             bool
	StartTournamentDate  string
	TimeFrom             string
	TimeTo               string
}

func readForm(r *http.Request) eventForm {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	return eventForm{
		Title:                v("title"),
		Description:          v("description"),
		GroundID:             v("groundId"),
		GroundName:           v("groundName"),
		LastRegistrationDate: v("lastRegistrationDate"),
		RegistrationFees:     v("registrationFees"),
		MaxRegistrations:     v("maxRegistrations"),
		IsActive:             r.FormValue("isActive") == "on",
		StartTournamentDate:  v("startTournamentDate"),
		TimeFrom:             v("timeFrom"),
		TimeTo:               v("timeTo"),
	}
}

func formFromEvent(e Event) eventForm {
	f := eventForm{
		Title:                e.Title,
		Description:          e.Description,
		GroundName:           e.GroundName(),
		LastRegistrationDate: LocalDateTime(e.LastRegistrationDate),
		RegistrationFees:     strconv.FormatFloat(e.RegistrationFees, 'f', -1, 64),
		IsActive:             e.IsActive,
		StartTournamentDate:  LocalDateTime(e.StartTournamentDate),
		TimeFrom:             LocalTime(e.TimeFrom),
		TimeTo:               LocalTime(e.TimeTo),
	}
	if e.Ground != nil {
		f.GroundID = strconv.FormatInt(e.Ground.ID, 10)
	}
	if e.MaxRegistrations != nil {
		f.MaxRegistrations = strconv.Itoa(*e.MaxRegistrations)
	}
	return f
}

// input converts the form into a create payload. Numeric parse failures are
// reported per field.
func (f eventForm) input() (Input, view.FormErrors) {
	errs := view.FormErrors{}
	in := Input{
		Title:                f.Title,
		Description:          f.Description,
		LastRegistrationDate: f.LastRegistrationDate,
		IsActive:             f.IsActive,
		StartTournamentDate:  f.StartTournamentDate,
		TimeFrom:             f.TimeFrom,
		TimeTo:               f.TimeTo,
	}
	if f.GroundID != "" {
		id, err := strconv.ParseInt(f.GroundID, 10, 64)
		if err != nil {
			errs["GroundID"] = "Select a ground from the list."
		}
		in.GroundID = id
	}
	if f.RegistrationFees != "" {
		fees, err := strconv.ParseFloat(f.RegistrationFees, 64)
		if err != nil {
			errs["RegistrationFees"] = "Enter a number."
		}
		in.RegistrationFees = fees
	}
	if f.MaxRegistrations != "" {
		max, err := strconv.Atoi(f.MaxRegistrations)
		if err != nil {
			errs["MaxRegistrations"] = "Enter a whole number."
		} else {
			in.MaxRegistrations = &max
		}
	}
	return in.Normalize(), errs
}

// patch converts the form into an update carrying only non-blank fields.
// The active flag is always sent because an unchecked box submits nothing.
func (f eventForm) patch() (Patch, Input, view.FormErrors) {
	in, errs := f.input()
	p := Patch{IsActive: &in.IsActive}
	setString := func(dst **string, raw, value string) {
		if raw != "" {
			v := value
			*dst = &v
		}
	}
	setString(&p.Title, f.Title, in.Title)
	setString(&p.Description, f.Description, in.Description)
	setString(&p.LastRegistrationDate, f.LastRegistrationDate, in.LastRegistrationDate)
	setString(&p.StartTournamentDate, f.StartTournamentDate, in.StartTournamentDate)
	setString(&p.TimeFrom, f.TimeFrom, in.TimeFrom)
	setString(&p.TimeTo, f.TimeTo, in.TimeTo)
	if f.GroundID != "" {
		p.GroundID = &in.GroundID
	}
	if f.RegistrationFees != "" {
		p.RegistrationFees = &in.RegistrationFees
	}
	p.MaxRegistrations = in.MaxRegistrations
	return p, in, errs
}
