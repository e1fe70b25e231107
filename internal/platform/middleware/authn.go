// Copyright (c) 2026 Verdantia. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/respond"
	"github.com/verdantia/verdantia/internal/platform/sec"
)

// Resolver defines the interface needed to resolve credentials in middleware.
//
// # Why an interface?
//
// Defining Resolver here decouples the middleware from the auth service
// implementation, allowing us to easily inject stubs during unit testing.
// The resolver performs a store lookup per request, so a ban or deactivation
// takes effect immediately rather than at token expiry.
type Resolver interface {
	ResolveIdentity(ctx context.Context, token string) (*authz.Identity, error)
}

// Authenticate extracts the bearer credential and resolves it to an identity snapshot.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, resolve via [Resolver]: signature/expiry check, account
//     lookup, ban and active checks — in that order.
//  4. Inject [*authz.Identity] into the request context for downstream use.
func Authenticate(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated identity doesn't meet the
// required minimum role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both. This is a coarse
// route-level gate; the fine-grained ordered rules (ownership, self-target)
// run in [authz.Authorize] inside the services.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.ForbiddenCode(string(authz.ReasonInsufficientRole), "Insufficient role for this action"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
