package rbac

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// Role markers issued by the backend.
const (
	RoleSystemAdmin = "ROLE_SYSTEM_ADMIN"
	RoleManager     = "ROLE_PLAYGROUND_MANAGER"
	RoleUser        = "ROLE_USER"
)

// ErrUnauthenticated reports a missing token or an unreadable profile.
var ErrUnauthenticated = errors.New("rbac: unauthenticated")

// RoleClaim is the role of a profile. The backend sends either a single
// string or a list; lists are joined with commas.
type RoleClaim string

// UnmarshalJSON implements json.Unmarshaler.
func (r *RoleClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoleClaim(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("rbac: role must be a string or list: %w", err)
	}
	*r = RoleClaim(strings.Join(many, ","))
	return nil
}

// Profile is the signed-in operator as persisted under the user key.
type Profile struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        RoleClaim `json:"role"`
	Permissions []string  `json:"permissions"`
}

// IsSystemAdmin reports whether the role carries the admin marker.
func (p Profile) IsSystemAdmin() bool {
	return strings.Contains(string(p.Role), RoleSystemAdmin)
}

// Has reports whether the profile holds perm. Admins hold every permission.
func (p Profile) Has(perm Permission) bool {
	if p.IsSystemAdmin() {
		return true
	}
	for _, granted := range p.Permissions {
		if Permission(granted) == perm {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of perms is held.
func (p Profile) HasAny(perms ...Permission) bool {
	for _, perm := range perms {
		if p.Has(perm) {
			return true
		}
	}
	return false
}

// DisplayName is the full name, falling back to the email.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// ParseProfile decodes the persisted user JSON.
func ParseProfile(raw string) (Profile, error) {
	if strings.TrimSpace(raw) == "" {
		return Profile{}, fmt.Errorf("%w: no profile", ErrUnauthenticated)
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: malformed profile: %v", ErrUnauthenticated, err)
	}
	return profile, nil
}

// LoadProfile reads the current profile from store. A missing token or a
// missing or malformed profile is reported as ErrUnauthenticated.
func LoadProfile(store apiclient.TokenStore) (Profile, error) {
	if store == nil || store.Get(apiclient.KeyToken) == "" {
		return Profile{}, fmt.Errorf("%w: no token", ErrUnauthenticated)
	}
	return ParseProfile(store.Get(apiclient.KeyUser))
}
