// Copyright (c) 2026 Verdantia. All rights reserved.

/*
Package engage implements the engagement records that attach to content:
reviews, favorites, and likes.

Engagement rows are dependent records. They reference their target by kind
and id, require the target to be readable by the acting user at creation
time, and are cascade-deleted when the target or the author is removed.
*/
package engage

import "time"

// TargetKind names the content kind an engagement record points at.
type TargetKind string

const (
	KindPlant   TargetKind = "plant"
	KindArticle TargetKind = "article"
	KindEvent   TargetKind = "event"
)

// IsValid reports whether the kind is one of the known content kinds.
func (kind TargetKind) IsValid() bool {
	switch kind {
	case KindPlant, KindArticle, KindEvent:
		return true
	}
	return false
}

// Review is a rated, optionally written assessment of a content item. One
// review per user per target.
type Review struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	Rating     int        `json:"rating"`
	Body       string     `json:"body,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Favorite bookmarks a content item for a user. One per user per target.
type Favorite struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Like is the lightest engagement signal. One per user per target.
type Like struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LikeSummary is the aggregate returned for a target's like state.
type LikeSummary struct {
	Count     int  `json:"count"`
	LikedByMe bool `json:"liked_by_me"`
}

const (
	FieldTargetKind = "target_kind"
	FieldTargetID   = "target_id"
	FieldRating     = "rating"
	FieldBody       = "body"
)

const (
	RatingMin = 1
	RatingMax = 5

	ReviewBodyMaxLen = 2000
)
