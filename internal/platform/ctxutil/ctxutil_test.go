// Copyright (c) 2026 Verdantia. All rights reserved.

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/ctxutil"
	"github.com/verdantia/verdantia/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Identity verifies that identity snapshots can be stored in context.
*/
func TestContext_Identity(t *testing.T) {
	ctx := context.Background()
	identity := &authz.Identity{
		ID:       "user-123",
		Role:     sec.RoleAdmin,
		IsActive: true,
	}

	// 1. Initially should be nil (anonymous)
	assert.Nil(t, ctxutil.GetIdentity(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithIdentity(ctx, identity)
	retrieved := ctxutil.GetIdentity(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.ID)
	assert.Equal(t, sec.RoleAdmin, retrieved.Role)
}
