package staff

import (
	"context"
	"strconv"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// Service translates staff operations into backend calls.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the staff service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns one page of staff matching filters.
func (s *Service) List(ctx context.Context, f Filters) (apiclient.Page[Staff], error) {
	query := apiclient.PageQuery(f.Page, f.Size)
	apiclient.SetIfNotEmpty(query, "email", strings.TrimSpace(f.Email))
	apiclient.SetIfNotEmpty(query, "name", strings.TrimSpace(f.Name))
	apiclient.SetIfNotEmpty(query, "phoneNumber", strings.TrimSpace(f.PhoneNumber))
	return apiclient.GetPage[Staff](ctx, s.client, "/staff", query)
}

// Get loads one staff member.
func (s *Service) Get(ctx context.Context, id int64) (Staff, error) {
	var out Staff
	err := s.client.GetJSON(ctx, staffPath(id), nil, &out)
	return out, err
}

// Create adds a staff member with the given permissions.
func (s *Service) Create(ctx context.Context, in Input) (Staff, error) {
	var out Staff
	err := s.client.PostJSON(ctx, "/staff", in, &out)
	return out, err
}

// Update replaces the profile and permissions of a staff member.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Staff, error) {
	var out Staff
	err := s.client.PutJSON(ctx, staffPath(id), in, &out)
	return out, err
}

// Delete removes a staff account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, staffPath(id))
}

// Enable reactivates a disabled account.
func (s *Service) Enable(ctx context.Context, id int64) error {
	return s.client.PatchJSON(ctx, staffPath(id)+"/enable", nil, nil)
}

// Disable blocks sign-in for the account.
func (s *Service) Disable(ctx context.Context, id int64) error {
	return s.client.PatchJSON(ctx, staffPath(id)+"/disable", nil, nil)
}

func staffPath(id int64) string {
	return "/staff/" + strconv.FormatInt(id, 10)
}
