package categories

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

const basePath = "/playground-categories"

// Service translates category operations into backend calls.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the category service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	raw, err := s.client.GetRaw(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	page, err := apiclient.DecodePage[Category](raw)
	if err != nil {
		return nil, fmt.Errorf("categories: list: %w", err)
	}
	return page.Content, nil
}

// Get returns one category.
func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	var out Category
	err := s.client.GetJSON(ctx, itemPath(id), nil, &out)
	return out, err
}

// Create submits a new category. image may be nil.
func (s *Service) Create(ctx context.Context, in Input, image *apiclient.File) (Category, error) {
	var out Category
	err := s.client.SendMultipart(ctx, http.MethodPost, basePath, form(in, image, false), &out)
	return out, err
}

// Update replaces a category. A nil image keeps the current one.
func (s *Service) Update(ctx context.Context, id int64, in Input, image *apiclient.File) (Category, error) {
	var out Category
	err := s.client.SendMultipart(ctx, http.MethodPut, itemPath(id), form(in, image, true), &out)
	return out, err
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, itemPath(id))
}

func form(in Input, image *apiclient.File, update bool) *apiclient.MultipartForm {
	color := in.Color
	if color == "" {
		color = DefaultColor
	}
	f := apiclient.NewMultipartForm().
		Field("name", in.Name).
		Field("color", color)
	if update {
		f.Field("deleted", strconv.FormatBool(in.Deleted))
	}
	return f.File("image", image)
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}
