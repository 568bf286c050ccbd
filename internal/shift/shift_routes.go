package shift

import (
	"github.com/gin-gonic/gin"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/middleware"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	shifts := r.Group("/shifts")
	shifts.Use(middleware.AuthMiddleware())
	{
		shifts.GET("/resolve", middleware.RBACAuthorize(rbacService, "shift", "read"), handler.Resolve)
	}
}
