package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/logger"
)

// WorkspaceQueryParam carries the workspace for clients that cannot set
// headers, such as browser websockets.
const WorkspaceQueryParam = "workspace"

var workspacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequireWorkspace reads the workspace id from the given header, falling
// back to the workspace query parameter, and stores it in the context.
// Requests without a valid id are rejected.
func RequireWorkspace(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := c.GetHeader(header)
		if ws == "" {
			ws = c.Query(WorkspaceQueryParam)
		}
		if ws == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + header + " header"})
			c.Abort()
			return
		}
		if !workspacePattern.MatchString(ws) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace id"})
			c.Abort()
			return
		}
		c.Set(logger.WorkspaceKey, ws)
		c.Next()
	}
}
