package model

import (
	"time"
)

// Cart is a per-user holding area for items of interest. Exactly zero or one
// exists per user; it is created lazily on the first cart interaction.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is one saved item. At most one row exists per (cart, item);
// repeat adds increment Quantity instead of inserting. Rows are hard-deleted
// on removal so the unique index never blocks a re-add.
type CartItem struct {
	ID       uint `gorm:"primarykey" json:"id"`
	CartID   uint `gorm:"not null;uniqueIndex:idx_cart_item;index" json:"cart_id"`
	ItemID   uint `gorm:"not null;uniqueIndex:idx_cart_item;index" json:"item_id"`
	Quantity int  `gorm:"not null;default:1" json:"quantity"`

	AddedAt time.Time `gorm:"autoCreateTime;index" json:"added_at"`

	// Relationships
	Cart Cart `gorm:"foreignKey:CartID" json:"-"`
	Item Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
