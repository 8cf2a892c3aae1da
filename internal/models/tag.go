package models

import "time"

// Tag labels gift cards. Tags carry no balance semantics.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null;index" json:"nome"`
	CompanyID uint      `gorm:"index" json:"empresaId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tag) GetID() uint   { return t.ID }
func (t *Tag) SetID(id uint) { t.ID = id }
func (t *Tag) Stamp(now time.Time, created bool) {
	if created {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// GiftCardTag links a gift card to a tag (many-to-many).
type GiftCardTag struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	GiftCardID uint      `gorm:"index;not null" json:"giftCardId"`
	TagID      uint      `gorm:"index;not null" json:"tagId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (l *GiftCardTag) GetID() uint   { return l.ID }
func (l *GiftCardTag) SetID(id uint) { l.ID = id }
func (l *GiftCardTag) Stamp(now time.Time, created bool) {
	if created {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
}
