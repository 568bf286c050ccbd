package workstatus

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
	statuses := r.Group("/work-statuses")
	statuses.Use(middleware.AuthMiddleware())
	{
		statuses.GET("", middleware.RBACAuthorize(rbacService, "workstatus", "read"), handler.GetByStage)
		statuses.GET("/lookup", middleware.RBACAuthorize(rbacService, "workstatus", "read"), handler.Get)
		statuses.POST("/recompute", middleware.RBACAuthorize(rbacService, "workstatus", "recompute"), handler.Recompute)
	}
}
