// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askora/askora/internal/platform/middleware"
	requestutil "github.com/askora/askora/internal/platform/request"
	"github.com/askora/askora/internal/platform/respond"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
)

// Handler implements the tag HTTP endpoints.
type Handler struct {
	tagService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{tagService: service}
}

// Routes returns a [chi.Router] configured with tag-specific routes.
//
// # Endpoints
//   - GET    /             : Paginated tag list, most followed first.
//   - GET    /{id}         : Single tag.
//   - GET    /slug/{slug}  : Tag lookup by URL slug.
//   - POST   /             : Create tag (moderator+).
//   - DELETE /{id}         : Delete tag (moderator+).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/slug/{slug}", handler.getBySlug)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleModerator))
		r.Post("/", handler.create)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type createTagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

/*
list returns a page of tags.

GET /api/v1/tags
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	tags, total, err := handler.tagService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tags, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
get returns a single tag.

GET /api/v1/tags/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.tagService.Get(request.Context(), tagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
getBySlug resolves a URL slug to a tag.

GET /api/v1/tags/slug/{slug}
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	tagSlug := requestutil.Param(request, "slug")

	validator := &validate.Validator{}
	validator.Required(FieldSlug, tagSlug).Slug(FieldSlug, tagSlug)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.tagService.GetBySlug(request.Context(), tagSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
create registers a new tag. Moderator only.

POST /api/v1/tags
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTagRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.tagService.Create(request.Context(), input.Name, input.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
delete removes a tag. Moderator only.

DELETE /api/v1/tags/{id}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.tagService.Delete(request.Context(), tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
