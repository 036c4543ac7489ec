// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package tag

import (
	"context"
	"strings"

	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
	"github.com/askora/askora/pkg/slug"
)

// Service implements tag use cases. Mutations are moderator-only and the role
// check lives in the route middleware, not here.
type Service struct {
	store Store
}

// NewService constructs a new tag [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns a page of tags plus the total count.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Tag, int, error) {
	return service.store.List(context, params)
}

// Get returns a single tag by ID.
func (service *Service) Get(context context.Context, tagID int64) (*Tag, error) {
	return service.store.FindByID(context, tagID)
}

// GetBySlug returns a single tag by its URL slug.
func (service *Service) GetBySlug(context context.Context, tagSlug string) (*Tag, error) {
	return service.store.FindBySlug(context, tagSlug)
}

/*
Create registers a new tag in the vocabulary.

Description: The slug is derived from the name, never supplied by the client,
so the URL namespace stays canonical.

Parameters:
  - context: context.Context
  - name, description: string

Returns:
  - *Tag: Created entity
  - error: Validation or Conflict (duplicate slug) errors
*/
func (service *Service) Create(context context.Context, name, description string) (*Tag, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLen).
		MaxLen(FieldDescription, description, MaxDescriptionLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity := &Tag{
		Name:        name,
		Slug:        slug.From(name),
		Description: description,
	}

	if err := service.store.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes a tag from the vocabulary.
func (service *Service) Delete(context context.Context, tagID int64) error {
	return service.store.Delete(context, tagID)
}
