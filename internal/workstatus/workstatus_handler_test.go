package workstatus_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

type fakeStatusService struct {
	getFn       func(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error)
	recomputeFn func(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error)
	byStageFn   func(ctx context.Context, stageCode string) ([]workstatus.WorkStatus, error)
	getCalls    int
}

func (f *fakeStatusService) Get(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error) {
	f.getCalls++
	return f.getFn(ctx, key)
}

func (f *fakeStatusService) Recompute(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error) {
	return f.recomputeFn(ctx, key)
}

func (f *fakeStatusService) GetByStage(ctx context.Context, stageCode string) ([]workstatus.WorkStatus, error) {
	return f.byStageFn(ctx, stageCode)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func performGet(h *workstatus.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	h.Get(c)
	return w
}

func TestHandler_Get_CacheMissThenHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	svc := &fakeStatusService{
		getFn: func(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error) {
			return workstatus.StatusPlanned, nil
		},
	}
	h := workstatus.NewHandlerWithRedis(svc, rdb)

	target := "/work-statuses?stage_code=GLAZE&work_order_ref=WO-77&work_code=GL-PAINT"
	cacheKey := "workstatus:GLAZE/WO-77/GL-PAINT"

	resp := workstatus.StatusResponse{
		StageCode:     "GLAZE",
		WorkOrderRef:  "WO-77",
		WorkCode:      "GL-PAINT",
		CurrentStatus: "PLANNED",
	}
	payload, _ := json.Marshal(resp)

	// Miss: handler hits the service and stores the result.
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSet(cacheKey, payload, 5*time.Minute).SetVal("OK")

	w := performGet(h, target)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.getCalls)

	// Hit: served from redis, service untouched.
	mock.ExpectGet(cacheKey).SetVal(string(payload))

	w = performGet(h, target)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.getCalls)
	assert.Contains(t, w.Body.String(), "PLANNED")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Get_MissingParams(t *testing.T) {
	h := workstatus.NewHandler(&fakeStatusService{})

	w := performGet(h, "/work-statuses?stage_code=GLAZE")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Recompute_InvalidatesCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	svc := &fakeStatusService{
		recomputeFn: func(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error) {
			return workstatus.StatusInProgress, nil
		},
	}
	h := workstatus.NewHandlerWithRedis(svc, rdb)

	mock.ExpectDel("workstatus:GLAZE/WO-77/GL-PAINT").SetVal(1)

	body := `{"stage_code":"GLAZE","work_order_ref":"WO-77","work_code":"GL-PAINT"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/work-statuses/recompute", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Recompute(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "IN_PROGRESS")
	assert.NoError(t, mock.ExpectationsWereMet())
}
