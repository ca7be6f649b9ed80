package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/debatify/debatify-go/model"
)

var (
	ErrMissingTitle = errors.New("title is required")
	ErrMissingBody  = errors.New("body is required")
)

// CreateEntityInput is the common create payload. Passcode is only sent
// for private entities; media upload is handled by backend file storage
// and out of scope here.
type CreateEntityInput struct {
	Type      model.EntityType
	Title     string
	Body      string
	Category  string
	IsPrivate bool
	Passcode  string
}

// CreateEntity posts a new discussion, debate or blog. Debates carry the
// body as openingArgument, the other types as content.
func (s *Service) CreateEntity(ctx context.Context, input CreateEntityInput) (*model.Entity, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrMissingBody
	}

	body := map[string]interface{}{
		"title":     input.Title,
		"category":  input.Category,
		"isPrivate": input.IsPrivate,
	}
	if input.Type == model.EntityDebate {
		body["openingArgument"] = input.Body
	} else {
		body["content"] = input.Body
	}
	if input.IsPrivate {
		body["passcode"] = input.Passcode
	} else {
		body["passcode"] = nil
	}

	var created model.Entity
	if err := s.api.Post(ctx, "/"+input.Type.PathPrefix(), body, &created); err != nil {
		return nil, errors.Wrapf(err, "creating %s", input.Type)
	}
	created.Type = input.Type
	return &created, nil
}

// DeleteEntity removes one of the viewer's own entities.
func (s *Service) DeleteEntity(ctx context.Context, t model.EntityType, id string) error {
	path := fmt.Sprintf("/%s/%s", t.PathPrefix(), id)
	return errors.Wrapf(s.api.Delete(ctx, path, nil), "deleting %s", t)
}
