package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ErrorAuthFail = 40101

// HeaderIdentity trusts the upstream gateway to authenticate the caller and
// forward the user id in the "X-User-Id" header. It rewrites the id into the
// "sub" field handlers read, so callers cannot smuggle a "sub" of their own.
// Requests without an identity pass through anonymous; handlers that need a
// caller reject those themselves.
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Header.Del("sub")
		if id := c.Request.Header.Get("X-User-Id"); id != "" {
			c.Request.Header.Add("sub", id)
		}
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests. Mount after HeaderIdentity on
// routes that must know the caller.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get("sub") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": ErrorAuthFail,
				"msg":  "missing identity",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
