package reassignment

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
	reassignments := r.Group("/reassignments")
	reassignments.Use(middleware.AuthMiddleware())
	{
		reassignments.GET("", middleware.RBACAuthorize(rbacService, "reassignment", "read"), handler.GetByStageAndDate)
		reassignments.POST("", middleware.RBACAuthorize(rbacService, "reassignment", "create"), handler.Create)
		reassignments.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "reassignment", "update"), handler.Cancel)
	}
}
