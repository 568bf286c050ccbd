package report

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
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("", middleware.RBACAuthorize(rbacService, "report", "read"), handler.GetByStageAndDate)
		reports.GET("/:id", middleware.RBACAuthorize(rbacService, "report", "read"), handler.GetById)
		reports.POST("", middleware.RBACAuthorize(rbacService, "report", "create"), handler.Create)
		reports.PUT("/:id", middleware.RBACAuthorize(rbacService, "report", "update"), handler.Update)
		reports.POST("/submit", middleware.RBACAuthorize(rbacService, "report", "submit"), handler.Submit)
		reports.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "report", "approve"), handler.Approve)
		reports.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "report", "approve"), handler.Reject)
		reports.DELETE("/:id", middleware.RBACAuthorize(rbacService, "report", "update"), handler.Supersede)
	}
}
