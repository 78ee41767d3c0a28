package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

// ErrNoToken is returned when the backend accepts the credentials but
// issues no token.
var ErrNoToken = errors.New("auth: login response carried no token")

// Service wraps authentication business rules.
type Service struct {
	client     *apiclient.Client
	allowStaff bool
}

// NewService constructs a new Service. With allowStaff set, non-admin
// profiles holding at least one permission may sign in too.
func NewService(client *apiclient.Client, allowStaff bool) *Service {
	return &Service{client: client, allowStaff: allowStaff}
}

// Login exchanges credentials for a Grant. Profiles that may not use the
// console yield shared.ErrAccessDenied and nothing is returned.
func (s *Service) Login(ctx context.Context, creds Credentials) (Grant, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	var raw json.RawMessage
	if err := s.client.PostJSON(ctx, "/auth/login", creds, &raw); err != nil {
		return Grant{}, err
	}
	var tokens tokenFields
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return Grant{}, fmt.Errorf("auth: decode login response: %w", err)
	}
	if tokens.Token == "" {
		return Grant{}, ErrNoToken
	}
	profile, err := rbac.ParseProfile(string(raw))
	if err != nil {
		return Grant{}, err
	}
	if !Admissible(profile, s.allowStaff) {
		return Grant{}, shared.ErrAccessDenied
	}
	return Grant{Token: tokens.Token, RefreshToken: tokens.RefreshToken, Profile: profile, Raw: raw}, nil
}

// Admissible reports whether profile may use the console.
func Admissible(profile rbac.Profile, allowStaff bool) bool {
	if profile.IsSystemAdmin() {
		return true
	}
	return allowStaff && len(profile.Permissions) > 0
}

// Persist writes the grant into store under the shared session keys.
func Persist(store apiclient.TokenStore, g Grant) {
	store.Set(apiclient.KeyToken, g.Token)
	if g.RefreshToken != "" {
		store.Set(apiclient.KeyRefreshToken, g.RefreshToken)
	} else {
		store.Delete(apiclient.KeyRefreshToken)
	}
	store.Set(apiclient.KeyUser, string(g.Raw))
}

// LoginMessage is the text shown for a failed sign-in.
func LoginMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrAccessDenied):
		return "Access denied. You must be a System Admin."
	case apiclient.Message(err) != "":
		return apiclient.Message(err)
	default:
		return "Invalid credentials."
	}
}
