package constants

const (
	RoleStudent     = "student"
	RoleCoach       = "coach"
	RoleStaff       = "staff"
	RoleAdmin       = "admin"
	RoleMaintenance = "maintenance"
)

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleCoach,
		RoleStaff,
		RoleAdmin,
		RoleMaintenance,
	}

	// VerifierRoles may scan bookings at the pool entrance.
	VerifierRoles = []string{
		RoleStaff,
		RoleAdmin,
		RoleCoach,
	}

	// ElevatedRoles may act on bookings they do not own.
	ElevatedRoles = []string{
		RoleStaff,
		RoleAdmin,
	}

	AuthorRoles = []string{
		RoleCoach,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(role string) bool { return HasRole(AllRoles, role) }

func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
