package jobs

import (
	"context"

	"rental-tracker-backend/internal/logger"
)

// ReportOverdueRentals logs every active rental past its end date, most overdue first.
func (jr *JobRunner) ReportOverdueRentals() error {
	return jr.runWithRecovery("ReportOverdueRentals", func(ctx context.Context) error {
		rentals, err := jr.rentals.ListOverdue(ctx)
		if err != nil {
			return err
		}

		today := jr.today()
		for _, r := range rentals {
			daysLate := int(today.Sub(r.EndDate.Time).Hours() / 24)
			logger.Warn("Rental overdue",
				"rental_id", r.ID,
				"supplier", r.SupplierName,
				"equipment", r.EquipmentName,
				"end_date", r.EndDate.String(),
				"days_overdue", daysLate,
			)
		}

		logger.Info("Overdue rentals reported", "count", len(rentals), "as_of", today.String())
		return nil
	})
}
