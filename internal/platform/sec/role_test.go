// Copyright (c) 2026 Verdantia. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/platform/sec"
)

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name   string
		role   sec.Role
		target sec.Role
		want   bool
	}{
		{name: "viewer_meets_viewer", role: sec.RoleViewer, target: sec.RoleViewer, want: true},
		{name: "viewer_below_gardener", role: sec.RoleViewer, target: sec.RoleGardener, want: false},
		{name: "gardener_meets_viewer", role: sec.RoleGardener, target: sec.RoleViewer, want: true},
		{name: "gardener_below_admin", role: sec.RoleGardener, target: sec.RoleAdmin, want: false},
		{name: "admin_meets_everything", role: sec.RoleAdmin, target: sec.RoleViewer, want: true},
		{name: "unknown_never_satisfies", role: "superuser", target: sec.RoleViewer, want: false},
		{name: "unknown_target_never_satisfied", role: sec.RoleAdmin, target: "moderator", want: false},
		{name: "empty_role", role: "", target: sec.RoleViewer, want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.role.AtLeast(test.target))
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleViewer.IsValid())
	assert.True(t, sec.RoleGardener.IsValid())
	assert.True(t, sec.RoleAdmin.IsValid())
	assert.False(t, sec.Role("root").IsValid())
	assert.False(t, sec.Role("").IsValid())
}

func TestLevelOf(t *testing.T) {
	viewer, err := sec.LevelOf(sec.RoleViewer)
	require.NoError(t, err)
	gardener, err := sec.LevelOf(sec.RoleGardener)
	require.NoError(t, err)
	admin, err := sec.LevelOf(sec.RoleAdmin)
	require.NoError(t, err)

	assert.Less(t, viewer, gardener)
	assert.Less(t, gardener, admin)

	_, err = sec.LevelOf("forged")
	require.ErrorIs(t, err, sec.ErrUnknownRole)
}
