package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-tracker-backend/internal/config"
	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
)

type stubRentals struct {
	rentals []domain.Rental
	err     error
	panic   bool
}

func (s *stubRentals) ListOverdue(ctx context.Context) ([]domain.Rental, error) {
	if s.panic {
		panic("boom")
	}
	return s.rentals, s.err
}

type stubInventory struct {
	items []domain.InventoryItem
	err   error
}

func (s *stubInventory) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.items, s.err
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetDefault(logger.New(&buf, "info", "text"))
	t.Cleanup(func() { logger.Initialize("info", "text") })
	return &buf
}

func newRunner(r OverdueLister, i LowStockLister) *JobRunner {
	today := func() domain.Date { return domain.MustParseDate("2024-01-15") }
	return NewJobRunner(r, i, &config.Config{}, today)
}

func TestReportOverdueRentals(t *testing.T) {
	logs := captureLogs(t)
	rentals := &stubRentals{rentals: []domain.Rental{
		{ID: "r1", EquipmentName: "Crane", SupplierName: "Acme", EndDate: domain.MustParseDate("2024-01-10")},
	}}

	require.NoError(t, newRunner(rentals, &stubInventory{}).ReportOverdueRentals())
	out := logs.String()
	assert.Contains(t, out, "rental_id=r1")
	assert.Contains(t, out, "days_overdue=5")
	assert.Contains(t, out, "count=1")
}

func TestReportOverdueRentals_Failure(t *testing.T) {
	captureLogs(t)
	rentals := &stubRentals{err: domain.NewStorageError("list overdue rentals", errors.New("down"))}
	err := newRunner(rentals, &stubInventory{}).ReportOverdueRentals()
	assert.True(t, errors.Is(err, domain.ErrStorage))
}

func TestRunWithRecovery_Panic(t *testing.T) {
	logs := captureLogs(t)
	err := newRunner(&stubRentals{panic: true}, &stubInventory{}).ReportOverdueRentals()
	require.Error(t, err)
	assert.Contains(t, logs.String(), "Job panicked")
}

func TestReportLowStock(t *testing.T) {
	logs := captureLogs(t)
	inv := &stubInventory{items: []domain.InventoryItem{{ID: "p1", Code: "AUG", Name: "Auger", Quantity: 1, MinStock: 3}}}
	require.NoError(t, newRunner(&stubRentals{}, inv).ReportLowStock())
	assert.Contains(t, logs.String(), "code=AUG")
}

func TestRun(t *testing.T) {
	captureLogs(t)
	runner := newRunner(&stubRentals{}, &stubInventory{})

	assert.Equal(t, []string{JobReportLowStock, JobReportOverdueRentals}, runner.Names())
	assert.NoError(t, runner.Run(JobReportLowStock))
	assert.NoError(t, runner.Run("all"))
	assert.Error(t, runner.Run("send-invoices"))
}
