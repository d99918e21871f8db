package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"rental-tracker-backend/internal/domain"
)

type activeRentalLister interface {
	ListActive(ctx context.Context) ([]domain.Rental, error)
}

type stockAggregator interface {
	AggregateStock(ctx context.Context) (domain.StockAggregate, error)
}

// DashboardService composes the headline numbers. It owns no data.
type DashboardService struct {
	rentals   activeRentalLister
	inventory stockAggregator
}

func NewDashboardService(rentals activeRentalLister, inventory stockAggregator) *DashboardService {
	return &DashboardService{rentals: rentals, inventory: inventory}
}

// Stats fetches rentals and stock concurrently. MonthlyRevenue is the total of every
// active rental, with no calendar window.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		active []domain.Rental
		stock  domain.StockAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.rentals.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stock, err = s.inventory.AggregateStock(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	revenue := decimal.Zero
	for _, r := range active {
		revenue = revenue.Add(r.TotalAmount)
	}
	return domain.DashboardStats{
		ActiveRentals:   len(active),
		MonthlyRevenue:  revenue,
		ProductsInStock: stock.TotalUnits,
		LowStockItems:   stock.LowStockCount,
	}, nil
}
