package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemStatus is the derived stock state of an inventory item. The stored
// column is a cached projection only: DeriveItemStatus is the source of
// truth and every write path that touches quantity, minimum stock or
// expiry must recompute it.
type ItemStatus string

const (
	ItemStatusOK      ItemStatus = "OK"
	ItemStatusLow     ItemStatus = "LOW"
	ItemStatusExpired ItemStatus = "EXPIRED"
)

// ItemKind distinguishes consumables (have expiry dates) from equipment.
type ItemKind string

const (
	ItemKindConsumable    ItemKind = "consumable"
	ItemKindNonConsumable ItemKind = "non_consumable"
)

// InventoryItem is a material stocked in one ambulance.
type InventoryItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AmbulanceID uuid.UUID `gorm:"type:uuid;index:idx_items_ambulance_name,unique;not null" json:"ambulanceId"`
	Ambulance   Ambulance `gorm:"foreignKey:AmbulanceID;constraint:OnDelete:CASCADE" json:"-"`

	Name     string   `gorm:"size:150;index:idx_items_ambulance_name,unique;not null" json:"name"`
	Kind     ItemKind `gorm:"size:20;not null;default:'consumable'" json:"kind"`
	Category string   `gorm:"size:80" json:"category,omitempty"`
	Location string   `gorm:"size:120" json:"location,omitempty"` // compartment / bag inside the vehicle

	Quantity int        `gorm:"not null;default:0" json:"quantity"`
	MinStock int        `gorm:"not null;default:0" json:"minStock"`
	Expiry   *JSONTime  `json:"expiryDate,omitempty"`
	Status   ItemStatus `gorm:"size:10;not null;default:'OK';index" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ItemQuantityChange is the append-only history of stock movements.
type ItemQuantityChange struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID uuid.UUID `gorm:"type:uuid;index;not null" json:"itemId"`

	Diff      int       `gorm:"not null" json:"diff"` // signed: +restock, -consumption
	Reason    string    `gorm:"size:200" json:"reason,omitempty"`
	ActorID   uuid.UUID `gorm:"type:uuid" json:"actorId"`
	ActorName string    `gorm:"size:100" json:"actorName,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// DeriveItemStatus computes the authoritative status from scratch.
// Precedence: expired > low > ok. Low stock only applies when a minimum is
// configured.
func DeriveItemStatus(quantity, minStock int, expiry *time.Time, today time.Time) ItemStatus {
	if expiry != nil && !expiry.IsZero() && expiry.Before(truncateToDay(today)) {
		return ItemStatusExpired
	}
	if minStock > 0 && quantity <= minStock {
		return ItemStatusLow
	}
	return ItemStatusOK
}

// Recompute refreshes the cached status column from current field values.
func (it *InventoryItem) Recompute(today time.Time) {
	it.Status = DeriveItemStatus(it.Quantity, it.MinStock, it.ExpiryTime(), today)
}

// ExpiryTime unwraps the optional expiry date, nil when unset.
func (it *InventoryItem) ExpiryTime() *time.Time {
	if it.Expiry == nil || it.Expiry.IsZero() {
		return nil
	}
	t := it.Expiry.Time()
	return &t
}

// DaysUntilExpiry returns whole days until expiry, negative when already
// expired. The boolean is false when the item has no expiry date.
func (it *InventoryItem) DaysUntilExpiry(today time.Time) (int, bool) {
	exp := it.ExpiryTime()
	if exp == nil {
		return 0, false
	}
	return DaysUntil(*exp, today), true
}

// DaysUntil returns whole days from today until t, negative when t is past.
func DaysUntil(t, today time.Time) int {
	return int(truncateToDay(t).Sub(truncateToDay(today)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
