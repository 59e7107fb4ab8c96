package util

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/logger"
)

// GetWorkspaceFromContext gets the workspace id from the context.
func GetWorkspaceFromContext(c *gin.Context) (string, error) {
	val, ok := c.Get(logger.WorkspaceKey)
	if !ok {
		return "", errors.New("no workspace information")
	}

	ws, ok := val.(string)
	if !ok {
		return "", errors.New("workspace information is of the wrong type")
	}
	if ws == "" {
		return "", errors.New("empty workspace id")
	}

	return ws, nil
}
