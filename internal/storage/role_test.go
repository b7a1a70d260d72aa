package storage

import "testing"

func TestParseRole(t *testing.T) {
	if role, err := ParseRole("regular"); err != nil || role != RoleRegular {
		t.Errorf("ParseRole(regular) = %q, %v", role, err)
	}
	if role, err := ParseRole("entrepreneur"); err != nil || role != RoleEntrepreneur {
		t.Errorf("ParseRole(entrepreneur) = %q, %v", role, err)
	}
}

func TestParseRole_Invalid(t *testing.T) {
	for _, s := range []string{"", "admin", "REGULAR", "regular "} {
		if _, err := ParseRole(s); err == nil {
			t.Errorf("Expected error for role %q, got nil", s)
		}
	}
}
