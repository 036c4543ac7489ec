// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/middleware"
	requestutil "github.com/askora/askora/internal/platform/request"
	"github.com/askora/askora/internal/platform/respond"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements member directory and profile HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] configured with user-specific routes.
//
// # Endpoints
//   - GET    /                              : Paginated member directory.
//   - GET    /{id}                          : Single profile.
//   - GET    /search/username/{username}    : Exact username lookup.
//   - GET    /search/email/{email}          : Exact email lookup.
//   - GET    /{id}/statistics/questions     : Authored question count.
//   - GET    /{id}/statistics/answers       : Authored answer count.
//   - GET    /{id}/statistics/comments      : Authored comment count.
//   - PATCH  /{id}                          : Profile update (owner or moderator).
//   - PUT    /{id}/email                    : Email change (owner only).
//   - PUT    /{id}/password                 : Password change (owner only).
//   - DELETE /{id}                          : Account deletion (owner or admin).
//   - POST   /{id}/follow-tag/{tagID}       : Follow a tag.
//   - DELETE /{id}/follow-tag/{tagID}       : Unfollow a tag.
//   - GET    /{id}/followed-tags            : Tags the user follows.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/search/username/{username}", handler.searchByUsername)
	router.Get("/search/email/{email}", handler.searchByEmail)
	router.Get("/{id}/statistics/questions", handler.statistic(func(stats *Statistics) int64 { return stats.Questions }))
	router.Get("/{id}/statistics/answers", handler.statistic(func(stats *Statistics) int64 { return stats.Answers }))
	router.Get("/{id}/statistics/comments", handler.statistic(func(stats *Statistics) int64 { return stats.Comments }))
	router.Get("/{id}/followed-tags", handler.followedTags)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/{id}", handler.updateProfile)
		r.Put("/{id}/email", handler.changeEmail)
		r.Put("/{id}/password", handler.changePassword)
		r.Delete("/{id}", handler.deleteAccount)
		r.Post("/{id}/follow-tag/{tagID}", handler.followTag)
		r.Delete("/{id}/follow-tag/{tagID}", handler.unfollowTag)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

type changeEmailRequest struct {
	Email string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
list returns a page of members.

GET /api/v1/users
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.userService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
get returns a single member profile.

GET /api/v1/users/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
searchByUsername resolves an exact username to a profile.

GET /api/v1/users/search/username/{username}
*/
func (handler *Handler) searchByUsername(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).Username(FieldUsername, username)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.FindByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
searchByEmail resolves an exact email address to a profile.

GET /api/v1/users/search/email/{email}
*/
func (handler *Handler) searchByEmail(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, "email")

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.FindByEmail(request.Context(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
statistic builds a handler that serves one authored-content counter.

GET /api/v1/users/{id}/statistics/{questions|answers|comments}
*/
func (handler *Handler) statistic(pick func(*Statistics) int64) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		stats, err := handler.userService.Statistics(request.Context(), userID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, pick(stats))
	}
}

/*
updateProfile applies partial profile changes.

PATCH /api/v1/users/{id}

Response:
  - 200: User: Updated profile
  - 403: Forbidden: Actor is neither the owner nor a moderator
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	account, err := handler.userService.UpdateProfile(request.Context(), actor, userID, UpdateProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
changeEmail replaces the account's login email.

PUT /api/v1/users/{id}/email

Response:
  - 200: User: Updated profile
  - 403: Forbidden: Actor is not the account owner
  - 409: Conflict: Email belongs to another account
*/
func (handler *Handler) changeEmail(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	account, err := handler.userService.ChangeEmail(request.Context(), actor, userID, input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
changePassword rotates the account password.

PUT /api/v1/users/{id}/password

Response:
  - 204: Password changed
  - 401: Unauthorized: Current password is incorrect
  - 403: Forbidden: Actor is not the account owner
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("current_password", input.CurrentPassword).
		Required("new_password", input.NewPassword).
		MinLen("new_password", input.NewPassword, MinPasswordLen).
		MaxLen("new_password", input.NewPassword, MaxPasswordLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.ChangePassword(request.Context(), actor, userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
deleteAccount removes an account and its authored content.

DELETE /api/v1/users/{id}

Response:
  - 204: Account deleted
  - 403: Forbidden: Actor is neither the owner nor an admin
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), actor, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
followTag subscribes the authenticated user to a tag.

POST /api/v1/users/{id}/follow-tag/{tagID}
*/
func (handler *Handler) followTag(writer http.ResponseWriter, request *http.Request) {
	actorID, tagID, err := handler.followParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.FollowTag(request.Context(), actorID, tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
unfollowTag removes a tag subscription.

DELETE /api/v1/users/{id}/follow-tag/{tagID}
*/
func (handler *Handler) unfollowTag(writer http.ResponseWriter, request *http.Request) {
	actorID, tagID, err := handler.followParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.UnfollowTag(request.Context(), actorID, tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
followedTags lists the tags a user follows.

GET /api/v1/users/{id}/followed-tags
*/
func (handler *Handler) followedTags(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	followed, err := handler.userService.FollowedTags(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, followed)
}

// followParams extracts the path IDs for follow routes and enforces that a
// user can only manage their own subscriptions.
func (handler *Handler) followParams(request *http.Request) (int64, int64, error) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		return 0, 0, err
	}

	tagID, err := requestutil.ID(request, "tagID")
	if err != nil {
		return 0, 0, err
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		return 0, 0, err
	}

	if actor.UserID != userID {
		return 0, 0, apperr.Forbidden("You can only manage your own tag subscriptions")
	}

	return userID, tagID, nil
}
