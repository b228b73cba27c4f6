package user

import "testing"

// TestValidate_AcceptsAllKnownRoles verifies every provider role passes.
func TestValidate_AcceptsAllKnownRoles(t *testing.T) {
	for _, role := range ValidRoles {
		u := User{ID: "u1", Role: role}
		if err := u.Validate(); err != nil {
			t.Errorf("Validate() with role %q = %v, want nil", role, err)
		}
	}
}

// TestValidate_RejectsUnknownRole verifies unknown roles are rejected.
func TestValidate_RejectsUnknownRole(t *testing.T) {
	u := User{ID: "u1", Role: "SUPERUSER"}
	if err := u.Validate(); err != ErrInvalidRole {
		t.Fatalf("Validate() = %v, want ErrInvalidRole", err)
	}
}

// TestValidate_RejectsEmptyID verifies the id invariant.
func TestValidate_RejectsEmptyID(t *testing.T) {
	u := User{ID: " ", Role: RoleAthlete}
	if err := u.Validate(); err != ErrEmptyID {
		t.Fatalf("Validate() = %v, want ErrEmptyID", err)
	}
}

// TestIsAdministrative verifies the administrative/athlete split.
func TestIsAdministrative(t *testing.T) {
	for _, role := range []string{RoleCoach, RoleClubTrainer, RoleTeamManager, RoleGroupAdmin} {
		u := User{ID: "u1", Role: role}
		if !u.IsAdministrative() {
			t.Errorf("IsAdministrative() with role %q = false, want true", role)
		}
	}
	athlete := User{ID: "u2", Role: RoleAthlete}
	if athlete.IsAdministrative() {
		t.Error("IsAdministrative() with ATHLETE = true, want false")
	}
	if !athlete.IsAthlete() {
		t.Error("IsAthlete() with ATHLETE = false, want true")
	}
}
