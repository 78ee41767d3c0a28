package users

import "strings"

// User is an end-user account of the booking app.
type User struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Role           string `json:"role"`
	Enabled        *bool  `json:"enabled,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Active treats a missing enabled flag as enabled.
func (u User) Active() bool {
	return u.Enabled == nil || *u.Enabled
}

// Filters narrows the user listing.
type Filters struct {
	Name        string
	Email       string
	PhoneNumber string
	Page        int
	Size        int
}

// Stats is the user headcount summary.
type Stats struct {
	TotalUsers int64 `json:"totalUsers"`
}

// PasswordChange is the payload of a password change for the signed-in
// operator.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
