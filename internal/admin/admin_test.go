package admin

import "testing"

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name    string
		token   string
		adminID int64
		userID  int64
		want    Verdict
	}{
		{"configured admin", "secret", 42, 42, Authorized},
		{"configured stranger", "secret", 42, 7, DeniedNotAuthorized},
		{"no token", "", 42, 42, DeniedNotConfigured},
		{"no admin id", "secret", 0, 42, DeniedNotConfigured},
		{"nothing configured", "", 0, 42, DeniedNotConfigured},
		{"zero user against unconfigured gate", "", 0, 0, DeniedNotConfigured},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(tc.token, tc.adminID)
			if got := g.Authorize(tc.userID); got != tc.want {
				t.Errorf("Authorize(%d) = %v, want %v", tc.userID, got, tc.want)
			}
		})
	}
}

// Misconfiguration must win over an id match so a half-configured
// deployment never exposes the raw path.
func TestNotConfiguredBeatsIDMatch(t *testing.T) {
	g := New("", 42)
	if got := g.Authorize(42); got != DeniedNotConfigured {
		t.Errorf("Authorize(42) = %v, want %v", got, DeniedNotConfigured)
	}
}
