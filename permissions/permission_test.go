package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plek/permissions"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		capability permissions.Capability
		want       bool
	}{
		{
			name:       "user can create bookings",
			roles:      []string{permissions.RoleUser},
			capability: permissions.CapCreateBooking,
			want:       true,
		},
		{
			name:       "user cannot approve bookings",
			roles:      []string{permissions.RoleUser},
			capability: permissions.CapApproveBooking,
			want:       false,
		},
		{
			name:       "coordinator can approve bookings",
			roles:      []string{permissions.RoleCoordinator},
			capability: permissions.CapApproveBooking,
			want:       true,
		},
		{
			name:       "coordinator cannot view all bookings",
			roles:      []string{permissions.RoleCoordinator},
			capability: permissions.CapViewAllBookings,
			want:       false,
		},
		{
			name:       "admin can override bookings",
			roles:      []string{permissions.RoleAdmin},
			capability: permissions.CapOverrideBooking,
			want:       true,
		},
		{
			name:       "admin cannot manage institute policies",
			roles:      []string{permissions.RoleAdmin},
			capability: permissions.CapManageInstitutePolicies,
			want:       false,
		},
		{
			name:       "superadmin can manage institute policies",
			roles:      []string{permissions.RoleSuperAdmin},
			capability: permissions.CapManageInstitutePolicies,
			want:       true,
		},
		{
			name:       "superadmin can moderate users",
			roles:      []string{permissions.RoleSuperAdmin},
			capability: permissions.CapModerateUser,
			want:       true,
		},
		{
			name:       "any role grants the capability",
			roles:      []string{permissions.RoleUser, permissions.RoleCoordinator},
			capability: permissions.CapApproveBooking,
			want:       true,
		},
		{
			name:       "no roles means no capabilities",
			roles:      nil,
			capability: permissions.CapViewRooms,
			want:       false,
		},
		{
			name:       "unknown role grants nothing",
			roles:      []string{"auditor"},
			capability: permissions.CapViewRooms,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := permissions.Actor{ID: "u-1", Roles: tt.roles}
			assert.Equal(t, tt.want, permissions.Authorize(actor, tt.capability))
		})
	}
}

func TestGrants(t *testing.T) {
	assert.NotEmpty(t, permissions.Grants(permissions.RoleUser))
	assert.NotEmpty(t, permissions.Grants(permissions.RoleSuperAdmin))
	assert.Empty(t, permissions.Grants("unknown"))

	// The ladder is cumulative: every capability a role holds, the next role
	// up holds too.
	pairs := [][2]string{
		{permissions.RoleUser, permissions.RoleCoordinator},
		{permissions.RoleCoordinator, permissions.RoleAdmin},
		{permissions.RoleAdmin, permissions.RoleSuperAdmin},
	}

	for _, pair := range pairs {
		lower, higher := permissions.Grants(pair[0]), permissions.Grants(pair[1])
		for _, capability := range lower {
			assert.Contains(t, higher, capability, "%s should inherit %q from %s", pair[1], capability, pair[0])
		}
	}
}

func TestTopRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{name: "empty set defaults to user", roles: nil, want: permissions.RoleUser},
		{name: "single role", roles: []string{permissions.RoleCoordinator}, want: permissions.RoleCoordinator},
		{name: "highest wins regardless of order", roles: []string{permissions.RoleAdmin, permissions.RoleUser}, want: permissions.RoleAdmin},
		{name: "superadmin tops the ladder", roles: []string{permissions.RoleUser, permissions.RoleSuperAdmin, permissions.RoleCoordinator}, want: permissions.RoleSuperAdmin},
		{name: "unknown tags are ignored", roles: []string{"auditor"}, want: permissions.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, permissions.TopRole(tt.roles))
		})
	}
}

func TestActorRoleHelpers(t *testing.T) {
	admin := permissions.Actor{Roles: []string{permissions.RoleAdmin}}
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsCoordinatorOnly())

	coordinator := permissions.Actor{Roles: []string{permissions.RoleCoordinator}}
	assert.False(t, coordinator.IsAdmin())
	assert.True(t, coordinator.IsCoordinatorOnly())

	// A coordinator promoted to admin keeps the tag but loses the scoping.
	both := permissions.Actor{Roles: []string{permissions.RoleCoordinator, permissions.RoleAdmin}}
	assert.True(t, both.IsAdmin())
	assert.False(t, both.IsCoordinatorOnly())

	assert.False(t, permissions.Actor{}.HasRole(permissions.RoleUser))
}
