package events

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

const basePath = "/events"

// Service translates event operations into backend calls.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the event service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns one page of events.
func (s *Service) List(ctx context.Context, page, size int) (apiclient.Page[Event], error) {
	return apiclient.GetPage[Event](ctx, s.client, basePath, apiclient.PageQuery(page, size))
}

// Active returns every active event.
func (s *Service) Active(ctx context.Context) ([]Event, error) {
	page, err := apiclient.GetPage[Event](ctx, s.client, basePath+"/active", nil)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// Get returns one event.
func (s *Service) Get(ctx context.Context, id int64) (Event, error) {
	var out Event
	err := s.client.GetJSON(ctx, itemPath(id), nil, &out)
	return out, err
}

// Create submits a new event as a JSON data part plus an optional image.
func (s *Service) Create(ctx context.Context, in Input, image *apiclient.File) (Event, error) {
	form := apiclient.NewMultipartForm().
		JSON("data", in.Normalize()).
		File("image", image)
	var out Event
	err := s.client.SendMultipart(ctx, http.MethodPost, basePath, form, &out)
	return out, err
}

// Update sends only the supplied fields.
func (s *Service) Update(ctx context.Context, id int64, patch Patch, image *apiclient.File) (Event, error) {
	form := apiclient.NewMultipartForm().
		JSON("data", patch.Normalize()).
		File("image", image)
	var out Event
	err := s.client.SendMultipart(ctx, http.MethodPut, itemPath(id), form, &out)
	return out, err
}

// Disable cancels an event.
func (s *Service) Disable(ctx context.Context, id int64) error {
	return s.client.PatchJSON(ctx, itemPath(id)+"/disable", nil, nil)
}

// Registrations lists the teams registered for an event.
func (s *Service) Registrations(ctx context.Context, id int64) ([]TeamRegistration, error) {
	page, err := apiclient.GetPage[TeamRegistration](ctx, s.client, itemPath(id)+"/registrations", nil)
	if err != nil {
		return nil, fmt.Errorf("events: registrations: %w", err)
	}
	return page.Content, nil
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}
