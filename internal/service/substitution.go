package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/locks"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

// SubstitutionService is the append-only ledger of mid-rental equipment swaps.
type SubstitutionService struct {
	rentals       repository.RentalRepository
	substitutions repository.SubstitutionRepository
	locker        locks.Locker
	clock         Clock
	log           *slog.Logger
}

func NewSubstitutionService(
	rentals repository.RentalRepository,
	substitutions repository.SubstitutionRepository,
	locker locks.Locker,
	clock Clock,
) *SubstitutionService {
	if locker == nil {
		locker = locks.NewKeyedMutex()
	}
	return &SubstitutionService{
		rentals:       rentals,
		substitutions: substitutions,
		locker:        locker,
		clock:         clock,
		log:           logger.WithComponent("substitutions"),
	}
}

// Record appends a substitution to rentalID and returns it with its sequence number.
// The status check and append run under the rental's lock, so sequences for one
// rental are dense and unique.
func (s *SubstitutionService) Record(ctx context.Context, rentalID string, draft domain.SubstitutionDraft) (*domain.EquipmentSubstitution, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "rental:"+rentalID)
	if err != nil {
		err = domain.NewStorageError("acquire rental lock", err)
		logFailure(ctx, s.log, "record substitution", err)
		return nil, err
	}
	defer unlock()

	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		logFailure(ctx, s.log, "record substitution", err)
		return nil, err
	}
	if rental.Status == domain.RentalStatusCancelled || rental.Status == domain.RentalStatusCompleted {
		return nil, domain.NewConflictError(fmt.Sprintf("rental is %s; substitutions are closed", rental.Status))
	}

	sub := draft.Build(rentalID)
	sub.CreatedAt = s.clock.Now()
	if err := s.substitutions.Append(ctx, sub); err != nil {
		logFailure(ctx, s.log, "record substitution", err)
		return nil, err
	}
	sub.SupplierID = rental.SupplierID
	sub.SupplierName = rental.SupplierName
	sub.RentalEquipmentName = rental.EquipmentName

	s.log.InfoContext(ctx, "substitution recorded",
		"rental_id", rentalID, "sequence", sub.Sequence, "reason", sub.Reason,
		"responsibility_shift", sub.ResponsibilityShift)
	return sub, nil
}

// ListByRental returns one rental's substitutions by date, then sequence.
func (s *SubstitutionService) ListByRental(ctx context.Context, rentalID string) ([]domain.EquipmentSubstitution, error) {
	if _, err := s.rentals.GetByID(ctx, rentalID); err != nil {
		logFailure(ctx, s.log, "list rental substitutions", err)
		return nil, err
	}
	subs, err := s.substitutions.ListByRental(ctx, rentalID)
	if err != nil {
		logFailure(ctx, s.log, "list rental substitutions", err)
		return nil, err
	}
	return subs, nil
}

// ListAll returns every substitution matching filter, in the order they were recorded.
func (s *SubstitutionService) ListAll(ctx context.Context, filter domain.SubstitutionFilter) ([]domain.EquipmentSubstitution, error) {
	subs, err := s.substitutions.List(ctx, filter)
	if err != nil {
		logFailure(ctx, s.log, "list substitutions", err)
		return nil, err
	}
	return subs, nil
}

// Summary is ListAll followed by Summarize.
func (s *SubstitutionService) Summary(ctx context.Context, filter domain.SubstitutionFilter) (domain.SubstitutionSummary, error) {
	subs, err := s.ListAll(ctx, filter)
	if err != nil {
		return domain.SubstitutionSummary{}, err
	}
	return Summarize(subs), nil
}

// Summarize totals a set of substitutions. Missing costs count as zero, and a tie
// for most common reason goes to the reason seen first.
func Summarize(subs []domain.EquipmentSubstitution) domain.SubstitutionSummary {
	summary := domain.SubstitutionSummary{
		Total:                len(subs),
		TotalAdditionalCosts: decimal.Zero,
	}

	counts := make(map[domain.SubstitutionReason]int)
	var order []domain.SubstitutionReason
	for _, sub := range subs {
		if sub.ResponsibilityShift {
			summary.WithResponsibilityShift++
		}
		if sub.AdditionalCosts.Valid {
			summary.TotalAdditionalCosts = summary.TotalAdditionalCosts.Add(sub.AdditionalCosts.Decimal)
		}
		if _, seen := counts[sub.Reason]; !seen {
			order = append(order, sub.Reason)
		}
		counts[sub.Reason]++
	}

	best := 0
	for _, reason := range order {
		if counts[reason] > best {
			best = counts[reason]
			summary.MostCommonReason = reason
		}
	}
	return summary
}
