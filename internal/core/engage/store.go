// Copyright (c) 2026 Verdantia. All rights reserved.

package engage

import "context"

// # Engagement Data Access

// ReviewRepository defines the data access contract for reviews.
type ReviewRepository interface {
	// Create persists a new review. A second review by the same user for the
	// same target surfaces as a conflict.
	Create(context context.Context, review *Review) error

	// FindByID returns the review with the given ID.
	FindByID(context context.Context, id string) (*Review, error)

	// ListForTarget returns a page of reviews for one content item, newest
	// first, with the total count.
	ListForTarget(context context.Context, kind TargetKind, targetID string, limit, offset int) ([]*Review, int, error)

	// Delete removes a review by ID.
	Delete(context context.Context, id string) error
}

// FavoriteRepository defines the data access contract for favorites.
type FavoriteRepository interface {
	Create(context context.Context, favorite *Favorite) error

	// Delete removes the acting user's favorite for a target. Missing rows
	// are not an error.
	Delete(context context.Context, userID string, kind TargetKind, targetID string) error

	// ListForUser returns a page of the user's favorites, newest first.
	ListForUser(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error)
}

// LikeRepository defines the data access contract for likes.
type LikeRepository interface {
	Create(context context.Context, like *Like) error
	Delete(context context.Context, userID string, kind TargetKind, targetID string) error

	// Summary returns the like count for a target and whether the given user
	// has liked it. userID may be empty for anonymous callers.
	Summary(context context.Context, kind TargetKind, targetID string, userID string) (*LikeSummary, error)
}
