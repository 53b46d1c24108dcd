package authorization

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleNormal Role = "normal"
	RoleAdmin  Role = "admin"
)

// Identity is the authenticated caller as resolved from session state.
type Identity struct {
	UserID   uint
	Username string
	Role     Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Decision is the outcome of an authorization check. A denied decision always
// carries the redirect target and, except for page-scope denials, a
// user-visible message.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Message    string
}

type scopeKind int

const (
	scopePage scopeKind = iota
	scopeRecord
	scopeAdmin
	scopeSelfContact
)

// Scope describes what the request is trying to reach. Build one with the
// constructors below; the zero value denies everything.
type Scope struct {
	kind scopeKind

	// page scope
	username string
	pagePath string

	// record + self-contact scope
	ownerID    uint
	action     string
	redirectTo string
}

// PageScope guards a username-segmented URL. pagePath is the path below the
// username segment, e.g. "dashboard" or "admin/users"; a mismatched caller is
// redirected to their own canonical URL for the same page.
func PageScope(username, pagePath string) Scope {
	return Scope{kind: scopePage, username: username, pagePath: pagePath}
}

// RecordScope guards a mutation of an owned record. action names the denied
// operation for the flash message ("edit this book"); redirectTo is the
// record's detail view.
func RecordScope(ownerID uint, action, redirectTo string) Scope {
	return Scope{kind: scopeRecord, ownerID: ownerID, action: action, redirectTo: redirectTo}
}

// AdminScope guards admin-only pages. Denials land on the public landing page.
func AdminScope() Scope {
	return Scope{kind: scopeAdmin}
}

// SelfContactScope guards the contact-the-submitter action: contacting your own
// book is denied with a message rather than silently sending.
func SelfContactScope(submitterID uint, redirectTo string) Scope {
	return Scope{kind: scopeSelfContact, ownerID: submitterID, redirectTo: redirectTo}
}

// Authorize decides whether identity may act on scope.
func Authorize(scope Scope, identity Identity) Decision {
	switch scope.kind {
	case scopePage:
		if scope.username == identity.Username && identity.Username != "" {
			return Decision{Allowed: true}
		}
		return Decision{
			RedirectTo: fmt.Sprintf("/%s/%s", identity.Username, scope.pagePath),
		}
	case scopeRecord:
		if scope.ownerID == identity.UserID {
			return Decision{Allowed: true}
		}
		return Decision{
			RedirectTo: scope.redirectTo,
			Message:    fmt.Sprintf("You do not have permission to %s.", scope.action),
		}
	case scopeAdmin:
		if identity.IsAdmin() {
			return Decision{Allowed: true}
		}
		return Decision{
			RedirectTo: "/",
			Message:    "You do not have permission to access this page.",
		}
	case scopeSelfContact:
		if scope.ownerID != identity.UserID {
			return Decision{Allowed: true}
		}
		return Decision{
			RedirectTo: scope.redirectTo,
			Message:    "You cannot send a message to yourself.",
		}
	}
	return Decision{RedirectTo: "/"}
}
