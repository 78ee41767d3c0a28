// Package notifications sends push broadcasts to every app user.
package notifications

import (
	"context"
	"errors"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// ErrIncomplete is returned when the title or the description is blank.
var ErrIncomplete = errors.New("Please fill in all fields")

// Broadcast is one push notification addressed to every user.
type Broadcast struct {
	Title       string `json:"title" yaml:"title" validate:"required,max=100"`
	Description string `json:"description" yaml:"description" validate:"required,max=500"`
}

// Normalize trims both fields and reports ErrIncomplete when either is blank.
func (b *Broadcast) Normalize() error {
	b.Title = strings.TrimSpace(b.Title)
	b.Description = strings.TrimSpace(b.Description)
	if b.Title == "" || b.Description == "" {
		return ErrIncomplete
	}
	return nil
}

// Service sends broadcasts through the backend.
type Service struct {
	client *apiclient.Client
}

// NewService constructs the notification service.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Broadcast posts b to the backend. The payload is sent as given.
func (s *Service) Broadcast(ctx context.Context, b Broadcast) error {
	return s.client.PostJSON(ctx, "/notifications/broadcast", b, nil)
}
