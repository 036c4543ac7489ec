// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/ctxutil"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named numeric URL parameter from the request.

Returns:
  - int64: The parsed identifier
  - error: apperr.ValidationError if the parameter is not a positive integer
*/
func ID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Invalid " + name + " parameter")
	}
	return id, nil
}

/*
Param retrieves a named URL parameter (slug, username) from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Principal extracts the authenticated principal from the request context.

Returns nil if the request is anonymous.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated identity
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	// Get the request identity
	principal := ctxutil.GetPrincipal(request.Context())

	// If the user is not authenticated, return an error
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return principal, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - int64: User ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (int64, error) {

	// Get the request identity
	principal, err := RequiredPrincipal(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return 0, err
	}

	return principal.UserID, nil
}
