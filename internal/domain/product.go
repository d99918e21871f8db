package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryDraft struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

func (d *CategoryDraft) Validate() error {
	return validateStruct(d)
}

// InventoryItem is a product held in stock. IsLowStock is derived on every read and
// never persisted.
type InventoryItem struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int32           `json:"quantity"`
	MinStock     int32           `json:"min_stock"`
	IsRentable   bool            `json:"is_rentable"`
	IsLowStock   bool            `json:"is_low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsLowStock reports whether on-hand quantity has fallen to or below the threshold.
func IsLowStock(item InventoryItem) bool {
	return item.Quantity <= item.MinStock
}

// Derive refreshes the computed fields in place.
func (i *InventoryItem) Derive() {
	i.IsLowStock = IsLowStock(*i)
}

type ProductDraft struct {
	Code        string          `json:"code" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity    int32           `json:"quantity" validate:"gte=0"`
	MinStock    int32           `json:"min_stock" validate:"gte=0"`
	IsRentable  *bool           `json:"is_rentable"`
}

func (d *ProductDraft) Validate() error {
	if err := validateStruct(d); err != nil {
		return err
	}
	return checkMoney("unit_price", d.UnitPrice)
}

func (d *ProductDraft) Apply(i *InventoryItem) {
	i.Code = d.Code
	i.Name = d.Name
	i.Description = d.Description
	i.CategoryID = d.CategoryID
	if i.CategoryID != nil && *i.CategoryID == "" {
		i.CategoryID = nil
	}
	i.UnitPrice = d.UnitPrice
	i.Quantity = d.Quantity
	i.MinStock = d.MinStock
	i.IsRentable = true
	if d.IsRentable != nil {
		i.IsRentable = *d.IsRentable
	}
}

// StockAggregate sums quantities over every item, rentable or not.
type StockAggregate struct {
	TotalUnits    int64 `json:"total_units"`
	LowStockCount int   `json:"low_stock_count"`
}
