package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"winterfell/models"
	"winterfell/utils"
)

// SessionCookie is the name of the cookie carrying the signed session handle.
const SessionCookie = "winterfell_session"

// LoadSession resolves the session cookie, if any, and puts the viewer's
// identity into the gin context. It never aborts; the role gates below
// decide what anonymous viewers may see. Reading the session slides its
// expiry window.
func LoadSession(store *utils.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		sid, err := utils.ParseSessionToken(raw)
		if err != nil {
			c.Next()
			return
		}
		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil || sess == nil {
			// expired or unknown handle reads as logged-out
			c.Next()
			return
		}
		c.Set("sessionId", sid)
		c.Set("userId", sess.UserID)
		c.Set("role", sess.Role)
		c.Next()
	}
}

// RequireAlumni gates the member-facing pages: anonymous viewers go to the
// login page, admins to their own dashboard.
func RequireAlumni(c *gin.Context) {
	switch {
	case c.GetString("userId") == "":
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	case c.GetString("role") == models.RoleAdmin:
		c.Redirect(http.StatusFound, "/admin/dashboard")
		c.Abort()
	default:
		c.Next()
	}
}

// RequireAdmin gates /admin/*: anonymous viewers go to the login page,
// non-admins back to their dashboard.
func RequireAdmin(c *gin.Context) {
	switch {
	case c.GetString("userId") == "":
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	case c.GetString("role") != models.RoleAdmin:
		c.Redirect(http.StatusFound, "/users/dashboard")
		c.Abort()
	default:
		c.Next()
	}
}
