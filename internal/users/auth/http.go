// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askora/askora/internal/platform/middleware"
	requestutil "github.com/askora/askora/internal/platform/request"
	"github.com/askora/askora/internal/platform/respond"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/internal/users/user"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with auth-specific routes.
//
// # Endpoints
//   - POST /register : Account creation.
//   - POST /login    : Credential exchange for a token pair.
//   - POST /refresh  : Refresh token rotation.
//   - GET  /me       : The authenticated caller's own account.
//   - POST /logout   : Session end (audit only; tokens are stateless).
//
// Register, login, and refresh are public by design; they sit behind the
// global rate limiter.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
register creates a new account.

POST /api/v1/auth/register

Response:
  - 201: User: Created account (password hash omitted)
  - 400: ValidationError: Malformed input
  - 409: Conflict: Email or username already in use
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(user.FieldUsername, input.Username).
		MaxLen(user.FieldUsername, input.Username, user.MaxUsernameLen).
		Username(user.FieldUsername, input.Username).
		Required(user.FieldEmail, input.Email).
		Email(user.FieldEmail, input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, user.MinPasswordLen).
		MaxLen("password", input.Password, user.MaxPasswordLen).
		MaxLen(user.FieldFirstName, input.FirstName, user.MaxNameLen).
		MaxLen(user.FieldLastName, input.LastName, user.MaxNameLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
login exchanges credentials for a token pair.

POST /api/v1/auth/login

Response:
  - 200: TokenPair
  - 401: Unauthorized: Generic for every failure mode
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("identifier", input.Identifier).
		Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Login(request.Context(), input.Identifier, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
refresh rotates a refresh token into a new pair.

POST /api/v1/auth/refresh

Response:
  - 200: TokenPair
  - 401: Unauthorized: Invalid, expired, or wrong-type token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("refresh_token", input.RefreshToken)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
me returns the authenticated caller's own account.

GET /api/v1/auth/me

Response:
  - 200: User
  - 401: Unauthorized: No valid principal on the request
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.CurrentUser(request.Context(), actor.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
logout ends the caller's session.

POST /api/v1/auth/logout

Response:
  - 204: Logout recorded
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), actor.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
