package models

import "time"

// Supplier statuses
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

// Supplier is a vendor issuing gift cards.
type Supplier struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null;index" json:"nome"`
	Description string    `json:"descricao,omitempty"`
	Website     string    `json:"website,omitempty"`
	LogoURL     string    `json:"logo,omitempty"`
	Status      string    `gorm:"default:'active'" json:"status"`
	UserID      uint      `gorm:"index" json:"userId"`
	CompanyID   uint      `gorm:"index" json:"empresaId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Supplier) GetID() uint   { return s.ID }
func (s *Supplier) SetID(id uint) { s.ID = id }
func (s *Supplier) Stamp(now time.Time, created bool) {
	if created {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
