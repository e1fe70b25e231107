// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
authentication, credential resolution, and login-time promotion.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Verdantia platform.
//
// # Lifecycle
//
// A user is Active, Inactive (reversible, admin-set), or Banned (reversible,
// admin-set with a recorded reason). Permanent deletion removes the row and
// cascades; it is not represented as a state on this struct.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string `json:"display_name"`
	Bio          string `json:"bio,omitempty"`

	// ExperienceLevel is self-reported gardening experience. It is profile
	// metadata and plays no part in authorization.
	ExperienceLevel string `json:"experience_level,omitempty"`

	Role     sec.Role `json:"role"`
	IsActive bool     `json:"is_active"`
	IsBanned bool     `json:"is_banned"`

	// Ban record. Present only while IsBanned is true; cleared atomically on unban.
	BanReason string     `json:"ban_reason,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	BannedBy  string     `json:"banned_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity returns the per-request authorization snapshot for this user.
func (user *User) Identity() authz.Identity {
	return authz.Identity{
		ID:        user.ID,
		Role:      user.Role,
		IsActive:  user.IsActive,
		IsBanned:  user.IsBanned,
		BanReason: user.BanReason,
	}
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldExperienceLevel = "experience_level"
	FieldRole            = "role"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldMessage         = "message"
)

// # Experience Levels

// Self-reported experience tiers. Profile metadata only.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceExpert       = "expert"
)
