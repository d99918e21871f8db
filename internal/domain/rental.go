package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle work is expected for the status.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPending, RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// RentalPeriod only affects how daily_rate is read; it never changes totals.
type RentalPeriod string

const (
	RentalPeriodDaily   RentalPeriod = "daily"
	RentalPeriodWeekly  RentalPeriod = "weekly"
	RentalPeriodMonthly RentalPeriod = "monthly"
)

type Rental struct {
	ID            string          `json:"id"`
	SupplierID    string          `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	SupplierEmail string          `json:"supplier_email,omitempty"`
	SupplierPhone string          `json:"supplier_phone,omitempty"`
	EquipmentName string          `json:"equipment_name"`
	EquipmentType string          `json:"equipment_type,omitempty"`
	Quantity      int32           `json:"quantity"`
	StartDate     Date            `json:"start_date"`
	EndDate       Date            `json:"end_date"`
	RentalPeriod  RentalPeriod    `json:"rental_period"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	// TotalAmount is caller supplied and never recomputed from DailyRate.
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      RentalStatus    `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsOverdue is the derived overdue view: still active but past its end date.
func (r *Rental) IsOverdue(today Date) bool {
	return r.Status == RentalStatusActive && r.EndDate.Before(today)
}

// RentalDraft is the caller-owned input for create and full-replace update.
type RentalDraft struct {
	SupplierID    string          `json:"supplier_id" validate:"required"`
	EquipmentName string          `json:"equipment_name" validate:"required,max=255"`
	EquipmentType string          `json:"equipment_type" validate:"max=255"`
	Quantity      *int32          `json:"quantity" validate:"omitempty,gte=1"`
	StartDate     Date            `json:"start_date" validate:"required"`
	EndDate       Date            `json:"end_date" validate:"required"`
	RentalPeriod  RentalPeriod    `json:"rental_period" validate:"omitempty,oneof=daily weekly monthly"`
	DailyRate     decimal.Decimal `json:"daily_rate" validate:"gte=0"`
	TotalAmount   decimal.Decimal `json:"total_amount" validate:"gte=0"`
	Status        RentalStatus    `json:"status" validate:"omitempty,oneof=pending active completed cancelled"`
	Notes         string          `json:"notes"`
}

// Validate checks field contracts and the end_date >= start_date invariant.
func (d *RentalDraft) Validate() error {
	if err := validateStruct(d); err != nil {
		return err
	}
	if d.EndDate.Before(d.StartDate) {
		return NewValidationError("end_date", "must be on or after start_date")
	}
	if err := checkMoney("daily_rate", d.DailyRate); err != nil {
		return err
	}
	return checkMoney("total_amount", d.TotalAmount)
}

// Apply copies the draft onto r and fills defaults for omitted fields.
func (d *RentalDraft) Apply(r *Rental) {
	r.SupplierID = d.SupplierID
	r.EquipmentName = d.EquipmentName
	r.EquipmentType = d.EquipmentType
	r.Quantity = 1
	if d.Quantity != nil {
		r.Quantity = *d.Quantity
	}
	r.StartDate = d.StartDate
	r.EndDate = d.EndDate
	r.RentalPeriod = d.RentalPeriod
	if r.RentalPeriod == "" {
		r.RentalPeriod = RentalPeriodDaily
	}
	r.DailyRate = d.DailyRate
	r.TotalAmount = d.TotalAmount
	r.Status = d.Status
	if r.Status == "" {
		r.Status = RentalStatusPending
	}
	r.Notes = d.Notes
}
