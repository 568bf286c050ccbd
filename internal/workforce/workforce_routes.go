package workforce

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
	workers := r.Group("/workers")
	workers.Use(middleware.AuthMiddleware())
	{
		workers.GET("", middleware.RBACAuthorize(rbacService, "worker", "read"), handler.GetByStage)
		workers.GET("/:code", middleware.RBACAuthorize(rbacService, "worker", "read"), handler.GetByCode)
	}
}
