package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Routes the gates send callers to
const (
	LoginPath       = "/login"
	MoodTrackerPath = "/mood-tracker"
)

// Outcome is the kind of a gate decision
type Outcome int

const (
	OutcomeAllowed Outcome = iota
	OutcomeRedirect
	OutcomeForbidden
)

// Decision is what a Guard concluded about a request
type Decision struct {
	Outcome  Outcome
	Location string // redirect target
	Notice   string // flashed before redirecting, optional
	Category string
}

// Allowed lets the request through
func Allowed() Decision {
	return Decision{Outcome: OutcomeAllowed}
}

// RedirectTo sends the caller elsewhere, optionally with a notice
func RedirectTo(location, category, notice string) Decision {
	return Decision{Outcome: OutcomeRedirect, Location: location, Category: category, Notice: notice}
}

// Forbidden rejects the request with 403
func Forbidden(notice string) Decision {
	return Decision{Outcome: OutcomeForbidden, Notice: notice}
}

// Guard inspects a request and decides whether it may proceed
type Guard func(c *gin.Context) Decision

// RequireSession admits signed-in users and redirects everyone else to the login page
func RequireSession() Guard {
	return func(c *gin.Context) Decision {
		if CurrentClaims(c) == nil {
			return RedirectTo(LoginPath, FlashInfo, "Please log in to access this page")
		}
		return Allowed()
	}
}

// RequireRole admits users holding role. Signed-in users without it are sent
// back to the mood tracker.
func RequireRole(role string) Guard {
	return func(c *gin.Context) Decision {
		claims := CurrentClaims(c)
		if claims == nil {
			return RedirectTo(LoginPath, FlashInfo, "Please log in to access this page")
		}
		if claims.Role != role {
			return RedirectTo(MoodTrackerPath, FlashError, "Admin access required")
		}
		return Allowed()
	}
}

// Gate evaluates guards in order and applies the first decision that is not
// Allowed. The rest of the chain only runs when every guard allows.
func Gate(guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, guard := range guards {
			d := guard(c)
			switch d.Outcome {
			case OutcomeAllowed:
				continue
			case OutcomeRedirect:
				if d.Notice != "" {
					AddFlash(c, d.Category, d.Notice)
				}
				c.Redirect(http.StatusFound, d.Location)
				c.Abort()
				return
			default:
				msg := d.Notice
				if msg == "" {
					msg = http.StatusText(http.StatusForbidden)
				}
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"error":   gin.H{"code": "ERR_FORBIDDEN", "message": msg},
				})
				return
			}
		}
		c.Next()
	}
}

// Open is a gate that admits everyone
func Open() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}
