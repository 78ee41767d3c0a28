package users

import (
	"context"
	"strconv"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

// Service translates user operations into backend calls.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the user service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns one page of end-users matching filters.
func (s *Service) List(ctx context.Context, f Filters) (apiclient.Page[User], error) {
	query := apiclient.PageQuery(f.Page, f.Size)
	query.Set("role", rbac.RoleUser)
	apiclient.SetIfNotEmpty(query, "email", strings.TrimSpace(f.Email))
	apiclient.SetIfNotEmpty(query, "name", strings.TrimSpace(f.Name))
	apiclient.SetIfNotEmpty(query, "phoneNumber", strings.TrimSpace(f.PhoneNumber))
	return apiclient.GetPage[User](ctx, s.client, "/users", query)
}

// Stats returns the user headcount.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := s.client.GetJSON(ctx, "/users/stats", nil, &out)
	return out, err
}

func (s *Service) Enable(ctx context.Context, id int64) error {
	return s.client.PutJSON(ctx, userPath(id)+"/enable", nil, nil)
}

func (s *Service) Disable(ctx context.Context, id int64) error {
	return s.client.PutJSON(ctx, userPath(id)+"/disable", nil, nil)
}

// ChangePassword updates the password of the signed-in operator.
func (s *Service) ChangePassword(ctx context.Context, in PasswordChange) error {
	return s.client.PostJSON(ctx, "/users/change-password", in, nil)
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}
