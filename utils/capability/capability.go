package capability

import (
	"github.com/waslhq/wasl-api/model"
)

// Role capability policy. Pure functions over the user and the target
// candidate; handlers call these after authentication.

// adminRoles may act on any candidate regardless of scope.
var adminRoles = map[string]bool{
	model.RoleSuperAdmin:      true,
	model.RoleProjectDirector: true,
}

// IsAdmin reports whether the role has unrestricted pipeline access.
func IsAdmin(role string) bool {
	return adminRoles[role]
}

// CanViewCandidate reports whether the user may read the candidate's records.
// Every authenticated role can view within its scope.
func CanViewCandidate(user *model.User, candidate *model.Candidate) bool {
	if IsAdmin(user.Role) || user.Role == model.RoleViewer {
		return true
	}
	return inScope(user, candidate)
}

// CanManageCandidate reports whether the user may create candidates, record
// screenings, upload documents or drive status transitions for this
// candidate.
func CanManageCandidate(user *model.User, candidate *model.Candidate) bool {
	switch user.Role {
	case model.RoleSuperAdmin, model.RoleProjectDirector:
		return true
	case model.RoleCampusAdmin:
		return candidate == nil || inScope(user, candidate)
	default:
		return false
	}
}

// CanRecordTraining reports whether the user may record assessments and
// attendance.
func CanRecordTraining(user *model.User, candidate *model.Candidate) bool {
	switch user.Role {
	case model.RoleSuperAdmin, model.RoleProjectDirector:
		return true
	case model.RoleCampusAdmin, model.RoleInstructor:
		return inScope(user, candidate)
	default:
		return false
	}
}

// CanRecordVisaStage reports whether the user may advance visa stages or
// manage hold state for this candidate.
func CanRecordVisaStage(user *model.User, candidate *model.Candidate) bool {
	switch user.Role {
	case model.RoleSuperAdmin, model.RoleProjectDirector, model.RoleVisaPartner:
		return true
	case model.RoleOEP:
		return inScope(user, candidate)
	default:
		return false
	}
}

// CanManageComplaints reports whether the user may file, escalate, assign or
// resolve complaints for this candidate.
func CanManageComplaints(user *model.User, candidate *model.Candidate) bool {
	switch user.Role {
	case model.RoleSuperAdmin, model.RoleProjectDirector:
		return true
	case model.RoleCampusAdmin, model.RoleOEP:
		return inScope(user, candidate)
	default:
		return false
	}
}

// CanRecordDeparture reports whether the user may schedule and record
// departures and post-departure details.
func CanRecordDeparture(user *model.User, candidate *model.Candidate) bool {
	switch user.Role {
	case model.RoleSuperAdmin, model.RoleProjectDirector:
		return true
	case model.RoleOEP:
		return inScope(user, candidate)
	default:
		return false
	}
}

// CanManageUsers reports whether the user may create or modify staff
// accounts.
func CanManageUsers(role string) bool {
	return role == model.RoleSuperAdmin
}

// inScope checks the user's campus/OEP assignment against the candidate.
// Users carrying neither scope field are unrestricted only through their
// role, never here.
func inScope(user *model.User, candidate *model.Candidate) bool {
	if candidate == nil {
		return false
	}
	if user.CampusID != nil {
		return candidate.CampusID != nil && *candidate.CampusID == *user.CampusID
	}
	if user.OEPID != nil {
		return candidate.OEPID != nil && *candidate.OEPID == *user.OEPID
	}
	return false
}
