// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/validate"
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

// ID retrieves a named URL parameter (UUID/Slug) from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredIdentity extracts the resolved identity snapshot from the request context.

Description: Handlers behind RequireAuth use this to obtain the acting identity
that is passed explicitly into every core service call.

Parameters:
  - request: *http.Request

Returns:
  - *authz.Identity: The per-request snapshot
  - error: apperr.Unauthorized when the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*authz.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return identity, nil
}
