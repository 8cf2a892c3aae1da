package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Company is the multi-tenancy boundary. Most list and search queries are
// scoped by company id.
type Company struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"nome"`
	Email     string    `json:"email,omitempty"`
	Status    string    `gorm:"default:'active'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Company) GetID() uint   { return c.ID }
func (c *Company) SetID(id uint) { c.ID = id }
func (c *Company) Stamp(now time.Time, created bool) {
	if created {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

// StringList stores a JSON string array column.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("stringlist: unsupported scan type")
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether the list holds the given entry.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Profile carries the permission list consulted by the authorization
// middleware.
type Profile struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"not null" json:"nome"`
	Permissions StringList `gorm:"type:jsonb" json:"permissoes"`
	CompanyID   uint       `gorm:"index" json:"empresaId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Profile) GetID() uint   { return p.ID }
func (p *Profile) SetID(id uint) { p.ID = id }
func (p *Profile) Stamp(now time.Time, created bool) {
	if created {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// User is an account within a company.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:'user'" json:"role"`
	Status    string    `gorm:"default:'active'" json:"status"`
	ProfileID uint      `gorm:"index" json:"perfilId"`
	CompanyID uint      `gorm:"index" json:"empresaId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) GetID() uint   { return u.ID }
func (u *User) SetID(id uint) { u.ID = id }
func (u *User) Stamp(now time.Time, created bool) {
	if created {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// UserClaims is the JWT payload issued at login.
type UserClaims struct {
	UserID      uint       `json:"userId"`
	CompanyID   uint       `json:"empresaId"`
	Role        string     `json:"role"`
	Permissions StringList `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the claims grant the permission, either
// directly or through the wildcard.
func (c *UserClaims) HasPermission(perm string) bool {
	return c.Permissions.Contains("*") || c.Permissions.Contains(perm)
}
