package plan

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
	plans := r.Group("/plans")
	plans.Use(middleware.AuthMiddleware())
	{
		plans.GET("", middleware.RBACAuthorize(rbacService, "plan", "read"), handler.GetByStageAndDate)
		plans.GET("/by-work", middleware.RBACAuthorize(rbacService, "plan", "read"), handler.GetByWork)
		plans.GET("/:id", middleware.RBACAuthorize(rbacService, "plan", "read"), handler.GetById)
		plans.POST("", middleware.RBACAuthorize(rbacService, "plan", "create"), handler.Create)
		plans.PUT("/:id", middleware.RBACAuthorize(rbacService, "plan", "update"), handler.Update)
		plans.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "plan", "update"), handler.Submit)
		plans.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "plan", "approve"), handler.Approve)
		plans.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "plan", "approve"), handler.Reject)
		plans.DELETE("/:id", middleware.RBACAuthorize(rbacService, "plan", "update"), handler.Supersede)
	}
}
