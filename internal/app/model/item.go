package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ItemType is the kind of exchange the owner is offering
type ItemType string

const (
	ItemTypeSwap   ItemType = "swap"   // trade for another item
	ItemTypeDonate ItemType = "donate" // give away for free
	ItemTypeRent   ItemType = "rent"   // lend for a fee
)

// Valid reports whether t is one of the known listing types
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeSwap, ItemTypeDonate, ItemTypeRent:
		return true
	}
	return false
}

// ItemCondition describes wear so interested users know what to expect
type ItemCondition string

const (
	ConditionNew     ItemCondition = "new"
	ConditionLikeNew ItemCondition = "like_new"
	ConditionGood    ItemCondition = "good"
	ConditionFair    ItemCondition = "fair"
	ConditionPoor    ItemCondition = "poor"
)

// Item is a listing offered for swap, donation, or rental.
// Price is nullable on every type; a rent listing without one is
// open for negotiation.
type Item struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	ItemType    ItemType       `gorm:"type:varchar(10);not null;index" json:"item_type"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       *float64       `json:"price,omitempty"`
	Condition   ItemCondition  `gorm:"type:varchar(10);default:'good'" json:"condition"`
	Location    string         `gorm:"size:200" json:"location"`
	ContactInfo string         `gorm:"size:200" json:"contact_info"`
	ImageURL    string         `json:"image_url"`
	ExtraImages pq.StringArray `gorm:"type:text[]" json:"extra_images,omitempty"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner         User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category      Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CartItems     []CartItem     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	Conversations []Conversation `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Item) TableName() string {
	return "items"
}
