package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/stockpilot/stockpilot/internal/catalog"
	jobmetrics "github.com/stockpilot/stockpilot/internal/jobs"
	"github.com/stockpilot/stockpilot/internal/reports"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup rebuilds the cached report summary off the request path.
	TaskReportsWarmup = "reports:warmup"
	// TaskLowStockScan logs products sitting below their minimum threshold.
	TaskLowStockScan = "inventory:lowstock"
)

// NewReportsWarmupTask constructs the warmup task; it carries no payload.
func NewReportsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportsWarmup, nil)
}

// NewLowStockScanTask constructs the low-stock scan task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil)
}

// HandleReportsWarmup recomputes the report summary so the first
// dashboard hit after an invalidation stays fast.
func HandleReportsWarmup(svc *reports.Service, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track("reports_warmup")
		if err := svc.WarmSummary(ctx); err != nil {
			logger.Error("reports warmup", slog.Any("error", err))
			return tracker.End(err)
		}
		logger.Info("reports warmup done")
		return tracker.End(nil)
	}
}

// HandleLowStockScan surfaces products below their minimum threshold in
// the worker log so operators notice reorder gaps between dashboard visits.
func HandleLowStockScan(svc *catalog.Service, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track("lowstock_scan")
		products, err := svc.ListRestock(ctx)
		if err != nil {
			logger.Error("low stock scan", slog.Any("error", err))
			return tracker.End(err)
		}
		for _, p := range products {
			logger.Warn("product below minimum",
				slog.Int64("product_id", p.ID),
				slog.String("name", p.Name),
				slog.String("supplier", p.SupplierName),
				slog.Int("stock", p.Stock),
				slog.Int("min_quantity", p.MinQuantity),
				slog.Int("reorder_quantity", p.RestockQuantity()))
		}
		metrics.SetLowStock(len(products))
		logger.Info("low stock scan done", slog.Int("flagged", len(products)))
		return tracker.End(nil)
	}
}
