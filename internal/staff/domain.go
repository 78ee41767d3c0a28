package staff

import (
	"errors"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/rbac"
)

// Staff is a back-office operator holding a subset of permissions.
type Staff struct {
	ID          int64             `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
	Permissions []rbac.Permission `json:"permissions"`
	CreatedAt   string            `json:"createdAt,omitempty"`
}

// FullName joins first and last name.
func (s Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Active treats a missing enabled flag as enabled.
func (s Staff) Active() bool {
	return s.Enabled == nil || *s.Enabled
}

// Filters narrows the staff listing.
type Filters struct {
	Email       string
	Name        string
	PhoneNumber string
	Page        int
	Size        int
}

// Input is the payload of a create or update. An empty password on update
// keeps the current one.
type Input struct {
	FirstName   string            `json:"firstName" yaml:"firstName" validate:"required,max=100"`
	LastName    string            `json:"lastName" yaml:"lastName" validate:"required,max=100"`
	Email       string            `json:"email" yaml:"email" validate:"required,email"`
	Password    string            `json:"password,omitempty" yaml:"password"`
	PhoneNumber string            `json:"phoneNumber,omitempty" yaml:"phoneNumber"`
	Permissions []rbac.Permission `json:"permissions" yaml:"permissions"`
}

var (
	ErrMissingFields    = errors.New("staff: required fields missing")
	ErrPasswordRequired = errors.New("staff: password required for new staff")
	ErrNoPermissions    = errors.New("staff: no permissions selected")
)

// CheckMessage is the operator-facing text for a Check failure.
func CheckMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "Please fill in all required fields."
	case errors.Is(err, ErrPasswordRequired):
		return "Password is required for new staff."
	case errors.Is(err, ErrNoPermissions):
		return "Please select at least one permission."
	case err == nil:
		return ""
	}
	return err.Error()
}

// Check applies the submission rules in the order an operator fixes them.
func (in Input) Check(creating bool) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || strings.TrimSpace(in.Email) == "" {
		return ErrMissingFields
	}
	if creating && in.Password == "" {
		return ErrPasswordRequired
	}
	if len(in.Permissions) == 0 {
		return ErrNoPermissions
	}
	return nil
}
