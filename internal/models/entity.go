package models

import "time"

// Entity is implemented by every stored model. The store uses it to assign
// ids and maintain timestamps without per-entity boilerplate.
type Entity interface {
	GetID() uint
	SetID(id uint)
	Stamp(now time.Time, created bool)
}
