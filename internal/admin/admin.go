// Package admin decides who may use the unredacted lookup path.
package admin

// Verdict is the outcome of an authorization check.
type Verdict int

const (
	// Authorized lets the raw handler run.
	Authorized Verdict = iota
	// DeniedNotConfigured means the deployment has no admin set up.
	DeniedNotConfigured
	// DeniedNotAuthorized means the caller is not the configured admin.
	DeniedNotAuthorized
)

func (v Verdict) String() string {
	switch v {
	case Authorized:
		return "authorized"
	case DeniedNotConfigured:
		return "not_configured"
	case DeniedNotAuthorized:
		return "not_authorized"
	default:
		return "unknown"
	}
}

// Gate holds the deployment's admin identity. Both the token and the id
// must be set for the gate to count as configured.
type Gate struct {
	token   string
	adminID int64
}

func New(token string, adminID int64) *Gate {
	return &Gate{token: token, adminID: adminID}
}

// Authorize checks userID against the configured admin.
func (g *Gate) Authorize(userID int64) Verdict {
	if g.token == "" || g.adminID == 0 {
		return DeniedNotConfigured
	}
	if userID != g.adminID {
		return DeniedNotAuthorized
	}
	return Authorized
}
