// Copyright (c) 2026 Verdantia. All rights reserved.

package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantia/verdantia/internal/core/content"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    content.Status
		to      content.Status
		allowed bool
	}{
		{"draft_to_published", content.StatusDraft, content.StatusPublished, true},
		{"published_to_draft", content.StatusPublished, content.StatusDraft, true},
		{"published_to_archived", content.StatusPublished, content.StatusArchived, true},
		{"archived_to_published", content.StatusArchived, content.StatusPublished, true},

		// Non-adjacent steps must pass through published.
		{"draft_to_archived", content.StatusDraft, content.StatusArchived, false},
		{"archived_to_draft", content.StatusArchived, content.StatusDraft, false},

		// Same-state is not a transition.
		{"draft_to_draft", content.StatusDraft, content.StatusDraft, false},
		{"published_to_published", content.StatusPublished, content.StatusPublished, false},

		{"unknown_source", content.Status("pending"), content.StatusPublished, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, content.StatusDraft.IsValid())
	assert.True(t, content.StatusPublished.IsValid())
	assert.True(t, content.StatusArchived.IsValid())
	assert.False(t, content.Status("").IsValid())
	assert.False(t, content.Status("pending").IsValid())
}

func TestTransitionError(t *testing.T) {
	err := content.TransitionError(content.StatusDraft, content.StatusArchived)
	assert.Contains(t, err.Error(), "draft")
	assert.Contains(t, err.Error(), "archived")
}
