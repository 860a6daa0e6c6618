package domain

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"basic", "advanced", "admin"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if string(lvl) != s {
			t.Fatalf("ParseLevel(%q) = %q", s, lvl)
		}
	}
	for _, s := range []string{"", "superadmin", "Admin", "BASIC", "root"} {
		if _, err := ParseLevel(s); !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("ParseLevel(%q) err = %v, want ErrInvalidLevel", s, err)
		}
	}
}

func TestRolesFor(t *testing.T) {
	cases := []struct {
		level Level
		want  []string
	}{
		{LevelAdmin, []string{"ROLE_ADMIN", "ROLE_USER"}},
		{LevelAdvanced, []string{"ROLE_ADVANCED", "ROLE_USER"}},
		{LevelBasic, []string{"ROLE_USER"}},
	}
	for _, tc := range cases {
		got, err := RolesFor(tc.level)
		if err != nil {
			t.Fatalf("RolesFor(%s): %v", tc.level, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("RolesFor(%s) = %v, want %v", tc.level, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("RolesFor(%s) = %v, want %v", tc.level, got, tc.want)
			}
		}
	}
}

func TestRolesFor_UnknownLevelFailsLoudly(t *testing.T) {
	if _, err := RolesFor(Level("superadmin")); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("err = %v, want ErrInvalidLevel", err)
	}
}
