package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// Capability is a fine-grained action grant. Role tags are coarse; every
// authorization decision in the service goes through a capability check.
type Capability string

const (
	CapViewRooms   Capability = "view_rooms"
	CapManageRooms Capability = "manage_rooms"

	CapViewOwnBooking        Capability = "view_own_booking"
	CapCreateBooking         Capability = "create_booking"
	CapModifyOwnBooking      Capability = "modify_own_booking"
	CapCancelOwnBooking      Capability = "cancel_own_booking"
	CapViewFloorDeptBookings Capability = "view_floor_dept_bookings"
	CapViewAllBookings       Capability = "view_all_bookings"
	CapApproveBooking        Capability = "approve_booking"
	CapRejectBooking         Capability = "reject_booking"
	CapOverrideBooking       Capability = "override_booking"

	CapManageBuildings         Capability = "manage_buildings"
	CapManageAmenities         Capability = "manage_amenities"
	CapManageInstitutePolicies Capability = "manage_institute_policies"

	CapViewAllUsers         Capability = "view_all_users"
	CapModerateUser         Capability = "moderate_user"
	CapPromoteToCoordinator Capability = "promote_to_coordinator"
	CapPromoteToAdmin       Capability = "promote_to_admin"
	CapPromoteToSuperAdmin  Capability = "promote_to_super_admin"
	CapDemoteToUser         Capability = "demote_to_user"
	CapDemoteToCoordinator  Capability = "demote_to_coordinator"
	CapDemoteToAdmin        Capability = "demote_to_admin"
)

const (
	RoleUser        = "user"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
	RoleSuperAdmin  = "superadmin"
)

// Actor is the acting user as seen by the core: coarse role tags plus the
// materialized management assignments a coordinator holds. It is rebuilt on
// every request so assignment changes take effect immediately.
type Actor struct {
	ID                   string
	Email                string
	Roles                []string
	ManagedBuildingIDs   []string
	ManagedFloorIDs      []string
	ManagedDepartmentIDs []string
}

func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// IsAdmin reports whether the actor carries an unrestricted role tag.
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin) || a.HasRole(RoleSuperAdmin)
}

// IsCoordinatorOnly reports whether the actor is scoped by management
// assignments rather than globally privileged.
func (a Actor) IsCoordinatorOnly() bool {
	return a.HasRole(RoleCoordinator) && !a.IsAdmin()
}

var ladder = []string{RoleUser, RoleCoordinator, RoleAdmin, RoleSuperAdmin}

// TopRole returns the highest tag in a role set, RoleUser when empty.
func TopRole(roles []string) string {
	top := RoleUser

	for _, candidate := range ladder {
		if slices.Contains(roles, candidate) {
			top = candidate
		}
	}

	return top
}

//go:embed grants.json
var grantsData []byte

type grantTable struct {
	Roles map[string][]Capability `json:"roles"`
}

var (
	grants     grantTable
	loadGrants sync.Once
)

func table() *grantTable {
	loadGrants.Do(func() {
		if err := json.Unmarshal(grantsData, &grants); err != nil {
			log.Err(err).Msg("Failed to decode embedded capability grants")

			return
		}

		log.Info().Int("roles", len(grants.Roles)).Msg("Successfully loaded embedded capability grants")
	})

	return &grants
}

// Grants returns the capabilities held by a role.
func Grants(role string) []Capability {
	return table().Roles[role]
}

// Authorize reports whether any of the actor's roles grants the capability.
func Authorize(actor Actor, capability Capability) bool {
	for _, role := range actor.Roles {
		if slices.Contains(table().Roles[role], capability) {
			return true
		}
	}

	return false
}
