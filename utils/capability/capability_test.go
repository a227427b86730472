package capability

import (
	"testing"

	"github.com/waslhq/wasl-api/model"
)

func uintPtr(v uint) *uint { return &v }

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(model.RoleSuperAdmin) || !IsAdmin(model.RoleProjectDirector) {
		t.Error("super_admin and project_director should be admins")
	}
	for _, role := range []string{model.RoleCampusAdmin, model.RoleOEP, model.RoleVisaPartner, model.RoleInstructor, model.RoleViewer} {
		if IsAdmin(role) {
			t.Errorf("role %q should not be admin", role)
		}
	}
}

func TestCanViewCandidateScoping(t *testing.T) {
	candidate := &model.Candidate{CampusID: uintPtr(1), OEPID: uintPtr(5)}

	// Admins and viewers see everything.
	for _, role := range []string{model.RoleSuperAdmin, model.RoleProjectDirector, model.RoleViewer} {
		u := &model.User{Role: role}
		if !CanViewCandidate(u, candidate) {
			t.Errorf("role %q should view any candidate", role)
		}
	}

	// Campus staff see only their campus.
	inCampus := &model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(1)}
	otherCampus := &model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(2)}
	if !CanViewCandidate(inCampus, candidate) {
		t.Error("campus_admin of campus 1 should view its candidate")
	}
	if CanViewCandidate(otherCampus, candidate) {
		t.Error("campus_admin of campus 2 should not view a campus 1 candidate")
	}

	// OEP scope.
	inOEP := &model.User{Role: model.RoleOEP, OEPID: uintPtr(5)}
	otherOEP := &model.User{Role: model.RoleOEP, OEPID: uintPtr(6)}
	if !CanViewCandidate(inOEP, candidate) {
		t.Error("oep 5 should view its candidate")
	}
	if CanViewCandidate(otherOEP, candidate) {
		t.Error("oep 6 should not view an oep 5 candidate")
	}
}

func TestCanManageCandidate(t *testing.T) {
	candidate := &model.Candidate{CampusID: uintPtr(1)}

	cases := []struct {
		name string
		user *model.User
		want bool
	}{
		{"super_admin", &model.User{Role: model.RoleSuperAdmin}, true},
		{"project_director", &model.User{Role: model.RoleProjectDirector}, true},
		{"campus_admin in scope", &model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(1)}, true},
		{"campus_admin out of scope", &model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(2)}, false},
		{"oep", &model.User{Role: model.RoleOEP, OEPID: uintPtr(1)}, false},
		{"visa_partner", &model.User{Role: model.RoleVisaPartner}, false},
		{"instructor", &model.User{Role: model.RoleInstructor, CampusID: uintPtr(1)}, false},
		{"viewer", &model.User{Role: model.RoleViewer}, false},
	}
	for _, c := range cases {
		if got := CanManageCandidate(c.user, candidate); got != c.want {
			t.Errorf("%s: CanManageCandidate = %v, want %v", c.name, got, c.want)
		}
	}

	// Creation has no candidate yet. Campus admins may create, other scoped
	// roles may not.
	if !CanManageCandidate(&model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(1)}, nil) {
		t.Error("campus_admin should be able to create candidates")
	}
	if CanManageCandidate(&model.User{Role: model.RoleInstructor}, nil) {
		t.Error("instructor should not be able to create candidates")
	}
}

func TestCanRecordTraining(t *testing.T) {
	candidate := &model.Candidate{CampusID: uintPtr(3)}

	if !CanRecordTraining(&model.User{Role: model.RoleInstructor, CampusID: uintPtr(3)}, candidate) {
		t.Error("instructor at the candidate's campus should record training")
	}
	if CanRecordTraining(&model.User{Role: model.RoleInstructor, CampusID: uintPtr(4)}, candidate) {
		t.Error("instructor at another campus should not record training")
	}
	if !CanRecordTraining(&model.User{Role: model.RoleSuperAdmin}, candidate) {
		t.Error("super_admin should record training")
	}
	if CanRecordTraining(&model.User{Role: model.RoleVisaPartner}, candidate) {
		t.Error("visa_partner should not record training")
	}
}

func TestCanRecordVisaStage(t *testing.T) {
	candidate := &model.Candidate{OEPID: uintPtr(9)}

	if !CanRecordVisaStage(&model.User{Role: model.RoleVisaPartner}, candidate) {
		t.Error("visa_partner should record visa stages for any candidate")
	}
	if !CanRecordVisaStage(&model.User{Role: model.RoleOEP, OEPID: uintPtr(9)}, candidate) {
		t.Error("oep 9 should record visa stages for its candidate")
	}
	if CanRecordVisaStage(&model.User{Role: model.RoleOEP, OEPID: uintPtr(10)}, candidate) {
		t.Error("oep 10 should not record visa stages for an oep 9 candidate")
	}
	if CanRecordVisaStage(&model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(1)}, candidate) {
		t.Error("campus_admin should not record visa stages")
	}
}

func TestCanManageComplaints(t *testing.T) {
	candidate := &model.Candidate{CampusID: uintPtr(1), OEPID: uintPtr(2)}

	if !CanManageComplaints(&model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(1)}, candidate) {
		t.Error("campus_admin in scope should manage complaints")
	}
	if !CanManageComplaints(&model.User{Role: model.RoleOEP, OEPID: uintPtr(2)}, candidate) {
		t.Error("oep in scope should manage complaints")
	}
	if CanManageComplaints(&model.User{Role: model.RoleViewer}, candidate) {
		t.Error("viewer should not manage complaints")
	}
}

func TestCanRecordDeparture(t *testing.T) {
	candidate := &model.Candidate{OEPID: uintPtr(4)}

	if !CanRecordDeparture(&model.User{Role: model.RoleOEP, OEPID: uintPtr(4)}, candidate) {
		t.Error("oep in scope should record departures")
	}
	if CanRecordDeparture(&model.User{Role: model.RoleCampusAdmin, CampusID: uintPtr(1)}, candidate) {
		t.Error("campus_admin should not record departures")
	}
	if !CanRecordDeparture(&model.User{Role: model.RoleProjectDirector}, candidate) {
		t.Error("project_director should record departures")
	}
}

func TestCanManageUsers(t *testing.T) {
	if !CanManageUsers(model.RoleSuperAdmin) {
		t.Error("super_admin should manage users")
	}
	for _, role := range []string{model.RoleProjectDirector, model.RoleCampusAdmin, model.RoleOEP, model.RoleVisaPartner, model.RoleInstructor, model.RoleViewer} {
		if CanManageUsers(role) {
			t.Errorf("role %q should not manage users", role)
		}
	}
}

func TestScopeWithoutAssignment(t *testing.T) {
	// A scoped role with neither campus nor OEP assignment acts on nothing.
	candidate := &model.Candidate{CampusID: uintPtr(1)}
	bare := &model.User{Role: model.RoleCampusAdmin}
	if CanViewCandidate(bare, candidate) {
		t.Error("campus_admin without campus assignment should not view candidates")
	}
	if CanManageCandidate(bare, candidate) {
		t.Error("campus_admin without campus assignment should not manage candidates")
	}
}
