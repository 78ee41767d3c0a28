package managers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

// Service translates manager operations into backend calls.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the manager service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns one page of managers matching filters.
func (s *Service) List(ctx context.Context, f Filters) (apiclient.Page[Manager], error) {
	query := apiclient.PageQuery(f.Page, f.Size)
	query.Set("role", rbac.RoleManager)
	apiclient.SetIfNotEmpty(query, "email", strings.TrimSpace(f.Email))
	apiclient.SetIfNotEmpty(query, "name", strings.TrimSpace(f.Name))
	return apiclient.GetPage[Manager](ctx, s.client, "/users", query)
}

// Get returns one manager.
func (s *Service) Get(ctx context.Context, id int64) (Manager, error) {
	var out Manager
	err := s.client.GetJSON(ctx, userPath(id), nil, &out)
	return out, err
}

// Create registers a manager together with their ground.
func (s *Service) Create(ctx context.Context, in Input, picture *apiclient.File) (Manager, error) {
	form := apiclient.NewMultipartForm().
		Field("firstName", in.FirstName).
		Field("lastName", in.LastName).
		Field("email", in.Email).
		Field("password", in.Password).
		Field("groundName", in.GroundName).
		Field("groundAddress", in.GroundAddress).
		OptionalField("groundDescription", in.GroundDescription).
		OptionalField("popularFeatures", strings.Join(in.PopularFeatures, ",")).
		File("groundPicture", picture)
	var out Manager
	err := s.client.SendMultipart(ctx, http.MethodPost, "/users/managers", form, &out)
	return out, err
}

// Update sends the non-empty fields of in.
func (s *Service) Update(ctx context.Context, id int64, in Input, picture *apiclient.File) (Manager, error) {
	form := apiclient.NewMultipartForm().
		OptionalField("firstName", in.FirstName).
		OptionalField("lastName", in.LastName).
		OptionalField("email", in.Email).
		OptionalField("password", in.Password).
		OptionalField("groundName", in.GroundName).
		OptionalField("groundAddress", in.GroundAddress).
		OptionalField("groundDescription", in.GroundDescription).
		OptionalField("popularFeatures", strings.Join(in.PopularFeatures, ",")).
		File("groundPicture", picture)
	var out Manager
	err := s.client.SendMultipart(ctx, http.MethodPut, "/users/managers/"+strconv.FormatInt(id, 10), form, &out)
	return out, err
}

// Delete removes a manager account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, userPath(id))
}

// Stats returns booking statistics for the inclusive date range.
func (s *Service) Stats(ctx context.Context, id int64, start, end string) (Stats, error) {
	query := url.Values{}
	apiclient.SetIfNotEmpty(query, "startDate", start)
	apiclient.SetIfNotEmpty(query, "endDate", end)
	var out Stats
	err := s.client.GetJSON(ctx, "/users/managers/"+strconv.FormatInt(id, 10)+"/stats", query, &out)
	return out, err
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}
