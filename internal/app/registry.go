package app

import (
	"database/sql"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/auth"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/messaging/kafka"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/overtime"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/plan"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/rbac"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/rbac/infra"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/reassignment"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/report"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shift"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/skill"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/user"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workforce"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	workforceRepo := workforce.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	skillRepo := skill.NewRepository(gormDB)
	planRepo := plan.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	reassignmentRepo := reassignment.NewRepository(gormDB)
	workStatusRepo := workstatus.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Cross-domain plumbing ---
	detector := conflict.NewDetector(
		report.NewConflictSource(reportRepo),
		plan.NewConflictSource(planRepo),
		reassignment.NewConflictSource(reassignmentRepo),
	)
	skillResolver := skill.NewResolver(skillRepo, planRepo)
	shiftService := shift.NewService(shiftRepo)
	calculator := overtime.NewCalculator(
		report.NewOvertimeSource(reportRepo),
		workforceRepo,
		shiftService,
	)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, workforceRepo)
	userService := user.NewService(userRepo)
	workforceService := workforce.NewService(workforceRepo)
	workStatusService := workstatus.NewService(workStatusRepo)
	planService := plan.NewService(db, planRepo, detector, skillResolver, workStatusService, outboxRepo)
	reportService := report.NewService(db, reportRepo, planRepo, detector, calculator, workStatusService, outboxRepo)
	reassignmentService := reassignment.NewService(db, reassignmentRepo, detector)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	workforceHandler := workforce.NewHandler(workforceService)
	shiftHandler := shift.NewHandler(shiftService)
	planHandler := plan.NewHandler(planService)
	reportHandler := report.NewHandler(reportService)
	reassignmentHandler := reassignment.NewHandler(reassignmentService)
	workStatusHandler := workstatus.NewHandlerWithRedis(workStatusService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, zap.L())
		workforce.RegisterRoutes(api, workforceHandler, rbacService)
		shift.RegisterRoutes(api, shiftHandler, rbacService)
		plan.RegisterRoutes(api, planHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		reassignment.RegisterRoutes(api, reassignmentHandler, rbacService)
		workstatus.RegisterRoutes(api, workStatusHandler, rbacService)
	}

	return nil
}
