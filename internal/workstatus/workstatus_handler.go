package workstatus

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/apperror"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/response"
)

const cacheTTL = 5 * time.Minute

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, logger: zap.L().Named("workstatus.handler")}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb, logger: zap.L().Named("workstatus.handler")}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func cacheKey(key WorkKey) string {
	return "workstatus:" + key.String()
}

// Get returns the status for one work key, read-through cached in redis.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	key := WorkKey{
		StageCode:    c.Query("stage_code"),
		WorkOrderRef: c.Query("work_order_ref"),
		WorkCode:     c.Query("work_code"),
	}
	if key.StageCode == "" || key.WorkOrderRef == "" || key.WorkCode == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "stage_code, work_order_ref and work_code are required", nil)
		return
	}

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey(key)).Result(); err == nil {
			var resp StatusResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				response.Success(c, http.StatusOK, resp, nil)
				return
			}
		}
	}

	status, err := h.service.Get(ctx, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := StatusResponse{
		StageCode:     key.StageCode,
		WorkOrderRef:  key.WorkOrderRef,
		WorkCode:      key.WorkCode,
		CurrentStatus: string(status),
	}

	if h.rdb != nil {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			_ = h.rdb.Set(ctx, cacheKey(key), payload, cacheTTL).Err()
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByStage(c *gin.Context) {
	ctx := c.Request.Context()
	stageCode := c.Query("stage_code")
	if stageCode == "" {
		stageCode = c.GetString("stage_code")
	}

	rows, err := h.service.GetByStage(ctx, stageCode)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := make([]StatusResponse, len(rows))
	for i, ws := range rows {
		resp[i] = StatusResponse{
			StageCode:     ws.StageCode,
			WorkOrderRef:  ws.WorkOrderRef,
			WorkCode:      ws.WorkCode,
			CurrentStatus: ws.CurrentStatus,
		}
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Recompute forces a re-derivation, used after out-of-band data fixes.
func (h *Handler) Recompute(c *gin.Context) {
	ctx := c.Request.Context()

	var req RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	key := WorkKey{
		StageCode:    req.StageCode,
		WorkOrderRef: req.WorkOrderRef,
		WorkCode:     req.WorkCode,
	}

	status, err := h.service.Recompute(ctx, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		_ = h.rdb.Del(ctx, cacheKey(key)).Err()
	}

	response.Success(c, http.StatusOK, StatusResponse{
		StageCode:     key.StageCode,
		WorkOrderRef:  key.WorkOrderRef,
		WorkCode:      key.WorkCode,
		CurrentStatus: string(status),
	}, nil)
}
