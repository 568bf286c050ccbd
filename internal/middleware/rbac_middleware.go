package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/domain"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/response"
)

// RBACService is a local interface so this middleware does not import the
// rbac package directly; anything with a matching Enforce fits.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		stageCode := c.GetString("stage_code")

		if userID == "" || stageCode == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			UserID:    userID,
			StageCode: stageCode,
			Resource:  resource,
			Action:    action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", resource+":"+action)
			c.Abort()
			return
		}
		c.Next()
	}
}
