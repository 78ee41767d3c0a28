package auth

import (
	"encoding/json"

	"github.com/kickzone/kickzone-admin/internal/rbac"
)

// Credentials is the sign-in payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Grant is a successful sign-in: the tokens issued by the backend and the
// profile that came with them. Raw keeps the response as received so it can
// be persisted verbatim under the user key.
type Grant struct {
	Token        string
	RefreshToken string
	Profile      rbac.Profile
	Raw          json.RawMessage
}

type tokenFields struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// PasswordForm is the change password form of the account page.
type PasswordForm struct {
	OldPassword     string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}
