package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

type SubstitutionReason string

const (
	ReasonDefect      SubstitutionReason = "defect"
	ReasonDamage      SubstitutionReason = "damage"
	ReasonUpgrade     SubstitutionReason = "upgrade"
	ReasonMaintenance SubstitutionReason = "maintenance"
	ReasonWear        SubstitutionReason = "wear"
)

var reasonLabels = map[SubstitutionReason]string{
	ReasonDefect:      "Defect",
	ReasonDamage:      "Damage",
	ReasonUpgrade:     "Upgrade",
	ReasonMaintenance: "Maintenance",
	ReasonWear:        "Normal Wear",
}

func (r SubstitutionReason) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}

// Label is the human-readable name used in reports. Unknown reasons print as-is.
func (r SubstitutionReason) Label() string {
	if l, ok := reasonLabels[r]; ok {
		return l
	}
	return string(r)
}

// EquipmentSubstitution records a mid-rental equipment swap. Records are append-only.
type EquipmentSubstitution struct {
	ID                  string              `json:"id"`
	RentalID            string              `json:"rental_id"`
	Sequence            int32               `json:"sequence"`
	OldEquipmentName    string              `json:"old_equipment_name"`
	NewEquipmentName    string              `json:"new_equipment_name"`
	SubstitutionDate    time.Time           `json:"substitution_date"`
	Reason              SubstitutionReason  `json:"reason"`
	SupplierResponsible string              `json:"supplier_responsible"`
	RenterNotes         string              `json:"renter_notes,omitempty"`
	SupplierNotes       string              `json:"supplier_notes,omitempty"`
	ResponsibilityShift bool                `json:"responsibility_shift"`
	AdditionalCosts     decimal.NullDecimal `json:"additional_costs"`
	DeliveryPhotos      []string            `json:"delivery_photos"`
	ReceiptPhotos       []string            `json:"receipt_photos"`
	CreatedAt           time.Time           `json:"created_at"`

	// Joined from rental -> supplier when listing.
	SupplierID          string `json:"supplier_id,omitempty"`
	SupplierName        string `json:"supplier_name,omitempty"`
	RentalEquipmentName string `json:"rental_equipment_name,omitempty"`
}

type SubstitutionDraft struct {
	OldEquipmentName    string              `json:"old_equipment_name" validate:"required,max=255"`
	NewEquipmentName    string              `json:"new_equipment_name" validate:"required,max=255"`
	SubstitutionDate    time.Time           `json:"substitution_date" validate:"required"`
	Reason              SubstitutionReason  `json:"reason" validate:"required,oneof=defect damage upgrade maintenance wear"`
	SupplierResponsible string              `json:"supplier_responsible" validate:"required,max=255"`
	RenterNotes         string              `json:"renter_notes"`
	SupplierNotes       string              `json:"supplier_notes"`
	ResponsibilityShift bool                `json:"responsibility_shift"`
	AdditionalCosts     decimal.NullDecimal `json:"additional_costs" validate:"omitempty,gte=0"`
	DeliveryPhotos      []string            `json:"delivery_photos" validate:"dive,required"`
	ReceiptPhotos       []string            `json:"receipt_photos" validate:"dive,required"`
}

func (d *SubstitutionDraft) Validate() error {
	if err := validateStruct(d); err != nil {
		return err
	}
	if d.ResponsibilityShift && !d.AdditionalCosts.Valid {
		return NewValidationError("additional_costs", "is required when responsibility_shift is set")
	}
	if d.AdditionalCosts.Valid {
		return checkMoney("additional_costs", d.AdditionalCosts.Decimal)
	}
	return nil
}

// Build turns the draft into a record for rentalID. Costs only count when
// responsibility moved to the renter, so they are dropped otherwise.
func (d *SubstitutionDraft) Build(rentalID string) *EquipmentSubstitution {
	sub := &EquipmentSubstitution{
		RentalID:            rentalID,
		OldEquipmentName:    d.OldEquipmentName,
		NewEquipmentName:    d.NewEquipmentName,
		SubstitutionDate:    d.SubstitutionDate,
		Reason:              d.Reason,
		SupplierResponsible: d.SupplierResponsible,
		RenterNotes:         d.RenterNotes,
		SupplierNotes:       d.SupplierNotes,
		ResponsibilityShift: d.ResponsibilityShift,
		DeliveryPhotos:      append([]string{}, d.DeliveryPhotos...),
		ReceiptPhotos:       append([]string{}, d.ReceiptPhotos...),
	}
	if d.ResponsibilityShift {
		sub.AdditionalCosts = d.AdditionalCosts
	}
	return sub
}

// SubstitutionFilter narrows ListAll. Zero values mean "no filter"; all set filters
// must match.
type SubstitutionFilter struct {
	SupplierName            string
	Reason                  SubstitutionReason
	From                    *time.Time
	To                      *time.Time
	ResponsibilityShiftOnly bool
}

type SubstitutionSummary struct {
	Total                   int                `json:"total"`
	WithResponsibilityShift int                `json:"with_responsibility_shift"`
	TotalAdditionalCosts    decimal.Decimal    `json:"total_additional_costs"`
	MostCommonReason        SubstitutionReason `json:"most_common_reason,omitempty"`
}

// Casers are stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matches applies the filter to one record. It relies on SupplierName being joined in.
func (f SubstitutionFilter) Matches(s EquipmentSubstitution) bool {
	if f.SupplierName != "" &&
		!strings.Contains(fold(s.SupplierName), fold(f.SupplierName)) {
		return false
	}
	if f.Reason != "" && s.Reason != f.Reason {
		return false
	}
	if f.From != nil && s.SubstitutionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && s.SubstitutionDate.After(*f.To) {
		return false
	}
	if f.ResponsibilityShiftOnly && !s.ResponsibilityShift {
		return false
	}
	return true
}
