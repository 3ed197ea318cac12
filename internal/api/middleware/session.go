package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the name of the browser-session cookie carrying the
// opaque session id.
const SessionCookie = "session_id"

// ContextSessionID is the gin context key holding the resolved id.
const ContextSessionID = "session_id"

// Session resolves the caller's session id from the cookie, issuing a
// fresh one when absent. The cookie has no max-age, so it lives for
// the browser session; clearing conversation memory does not touch it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			id = uuid.New().String()
			c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
		}
		c.Set(ContextSessionID, id)
		c.Next()
	}
}

// SessionID returns the session id resolved by the Session middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
