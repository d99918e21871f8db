package domain

import "time"

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Document  string    `json:"document,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SupplierDraft struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Address  string `json:"address"`
	Document string `json:"document" validate:"max=50"`
}

func (d *SupplierDraft) Validate() error {
	return validateStruct(d)
}

func (d *SupplierDraft) Apply(s *Supplier) {
	s.Name = d.Name
	s.Email = d.Email
	s.Phone = d.Phone
	s.Address = d.Address
	s.Document = d.Document
}
