// Package report renders substitution exports for downstream report consumers.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"rental-tracker-backend/internal/domain"
)

// SubstitutionHeader is the column list consumers parse by position.
var SubstitutionHeader = []string{
	"Date",
	"Supplier",
	"Original Equipment",
	"New Equipment",
	"Reason",
	"Responsible",
	"Additional Costs",
	"Responsibility Shift",
}

const substitutionDateLayout = "2006-01-02 15:04"

// WriteSubstitutionsCSV writes the header followed by one row per substitution, in
// the order given. Dates are rendered in loc (UTC when nil). Supplier names come from
// the joined rental context.
func WriteSubstitutionsCSV(w io.Writer, subs []domain.EquipmentSubstitution, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(SubstitutionHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range subs {
		if err := cw.Write(substitutionRow(s, loc)); err != nil {
			return fmt.Errorf("write substitution %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func substitutionRow(s domain.EquipmentSubstitution, loc *time.Location) []string {
	costs := "0"
	if s.AdditionalCosts.Valid {
		costs = s.AdditionalCosts.Decimal.String()
	}
	shift := "no"
	if s.ResponsibilityShift {
		shift = "yes"
	}
	return []string{
		s.SubstitutionDate.In(loc).Format(substitutionDateLayout),
		s.SupplierName,
		s.OldEquipmentName,
		s.NewEquipmentName,
		s.Reason.Label(),
		s.SupplierResponsible,
		costs,
		shift,
	}
}
