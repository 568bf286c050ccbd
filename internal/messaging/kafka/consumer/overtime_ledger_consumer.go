package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/events"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/overtime"
)

// ConsumeOvertimeCalculated writes one ledger row per worker and date. A
// redelivered event hits the unique constraint and is skipped.
func ConsumeOvertimeCalculated(
	ctx context.Context,
	reader *kafkago.Reader,
	ledger overtime.LedgerRepository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.overtime_ledger")
	log.Info("overtime ledger consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("overtime ledger consumer stopped")
				return
			}
			log.Error("fetch overtime message failed", zap.Error(err))
			continue
		}

		var event events.OvertimeCalculatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode overtime_calculated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		workDate, err := time.Parse("2006-01-02", event.WorkDate)
		if err != nil {
			log.Error("overtime_calculated event has bad work_date",
				zap.String("work_date", event.WorkDate),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entry := &overtime.LedgerEntry{
			ID:              uuid.New(),
			StageCode:       event.StageCode,
			WorkerCode:      event.WorkerCode,
			WorkDate:        workDate,
			OvertimeMinutes: event.OvertimeMinutes,
			OvertimeAmount:  event.OvertimeAmount,
		}
		if err := ledger.Create(ctx, entry); err != nil {
			if isDuplicateLedgerEntry(err) {
				log.Warn("overtime ledger entry already exists, skipping",
					zap.String("worker_code", event.WorkerCode),
					zap.String("work_date", event.WorkDate),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("create overtime ledger entry failed",
				zap.String("worker_code", event.WorkerCode),
				zap.String("work_date", event.WorkDate),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit overtime message failed", zap.Error(err))
			continue
		}

		log.Info("overtime ledger entry written",
			zap.String("worker_code", event.WorkerCode),
			zap.String("work_date", event.WorkDate),
			zap.Int("overtime_minutes", event.OvertimeMinutes),
		)
	}
}

func isDuplicateLedgerEntry(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_overtime_worker_date"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_overtime_worker_date")
}
