package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/service"
	"github.com/windoze95/ingredai-api/internal/util"
)

// ControllerKey is the context key of the workspace controller.
const ControllerKey = "controller"

// AttachController attaches the controller of the request's workspace to
// the context. It must run after RequireWorkspace.
func AttachController(registry *service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := util.GetWorkspaceFromContext(c)
		if err != nil {
			c.Set(ControllerKey, nil)
			c.Next()
			return
		}
		c.Set(ControllerKey, registry.Get(c.Request.Context(), ws))
		c.Next()
	}
}

// GetControllerFromContext gets the workspace controller from the context.
func GetControllerFromContext(c *gin.Context) (*service.Controller, bool) {
	val, ok := c.Get(ControllerKey)
	if !ok {
		return nil, false
	}
	ctl, ok := val.(*service.Controller)
	return ctl, ok && ctl != nil
}
