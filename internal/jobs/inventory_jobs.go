package jobs

import (
	"context"

	"rental-tracker-backend/internal/logger"
)

// ReportLowStock logs every item at or below its minimum stock.
func (jr *JobRunner) ReportLowStock() error {
	return jr.runWithRecovery("ReportLowStock", func(ctx context.Context) error {
		items, err := jr.inventory.ListLowStock(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			logger.Warn("Low stock",
				"product_id", item.ID,
				"code", item.Code,
				"name", item.Name,
				"quantity", item.Quantity,
				"min_stock", item.MinStock,
			)
		}
		logger.Info("Low stock reported", "count", len(items))
		return nil
	})
}
