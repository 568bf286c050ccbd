package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/events"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

// ConsumeReportLifecycle recomputes the derived work status whenever a
// report is submitted. The recompute is idempotent, so redelivery is
// harmless.
func ConsumeReportLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	statusService workstatus.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.report_lifecycle")
	log.Info("report lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("report lifecycle consumer stopped")
				return
			}
			log.Error("fetch report lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.ReportSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode report_submitted event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		key := workstatus.WorkKey{
			StageCode:    event.StageCode,
			WorkOrderRef: event.WorkOrderRef,
			WorkCode:     event.WorkCode,
		}
		status, err := statusService.Recompute(ctx, key)
		if err != nil {
			log.Error("recompute work status failed",
				zap.String("key", key.String()),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit report lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("work status recomputed from report_submitted event",
			zap.String("key", key.String()),
			zap.String("status", string(status)),
		)
	}
}
