package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Name         string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         Role   `gorm:"size:16;index;not null"` // customer, admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Cart struct {
	ID     string `gorm:"primaryKey;size:64;not null"`
	UserID string `gorm:"size:64;uniqueIndex;not null"`

	// derived, recomputed on every mutation
	TotalItems      int64 `gorm:"not null"`
	TotalPriceCents int64 `gorm:"not null"`

	Items     []CartItem `gorm:"foreignKey:CartID;references:ID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID         uint   `gorm:"primaryKey"`
	CartID     string `gorm:"size:64;index:idx_cart_product,unique;not null"`
	ProductID  string `gorm:"size:64;index:idx_cart_product,unique;not null"`
	Title      string `gorm:"size:255;not null"`
	PriceCents int64  `gorm:"not null"` // unit price snapshot at add time
	Quantity   int64  `gorm:"not null"`
	Thumbnail  string `gorm:"size:512"`
	AddedAt    time.Time
}

type WishlistItem struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     string `gorm:"size:64;index:idx_wish_user_product,unique;not null"`
	ProductID  string `gorm:"size:64;index:idx_wish_user_product,unique;not null"`
	Title      string `gorm:"size:255;not null"`
	PriceCents int64  `gorm:"not null"`
	Thumbnail  string `gorm:"size:512"`
	AddedAt    time.Time
}

type Order struct {
	ID     string `gorm:"primaryKey;size:64;not null"`
	UserID string `gorm:"size:64;index;not null"`

	SubtotalCents int64 `gorm:"not null"`
	TaxCents      int64 `gorm:"not null"`
	ShippingCents int64 `gorm:"not null"`
	TotalCents    int64 `gorm:"not null"`

	PaymentStatus   PaymentStatus `gorm:"size:16;index;not null"`
	OrderStatus     OrderStatus   `gorm:"size:16;index;not null"`
	PaymentIntentID string        `gorm:"size:128;uniqueIndex;not null"`

	// destination snapshot at order time
	ShipName    string `gorm:"size:255"`
	ShipLine1   string `gorm:"size:255"`
	ShipLine2   string `gorm:"size:255"`
	ShipCity    string `gorm:"size:128"`
	ShipState   string `gorm:"size:128"`
	ShipZip     string `gorm:"size:32"`
	ShipCountry string `gorm:"size:64"`

	Carrier           string `gorm:"size:64"`
	TrackingNumber    string `gorm:"size:128"`
	EstimatedDelivery *time.Time

	// optimistic concurrency guard for status transitions
	Version int64 `gorm:"not null;default:0"`

	Items         []OrderItem        `gorm:"foreignKey:OrderID;references:ID"`
	StatusHistory []OrderStatusEvent `gorm:"foreignKey:OrderID;references:ID"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

type OrderItem struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    string `gorm:"size:64;index;not null"`
	ProductID  string `gorm:"size:64;index;not null"`
	Title      string `gorm:"size:255;not null"`
	PriceCents int64  `gorm:"not null"` // unit price snapshot at purchase time
	Quantity   int64  `gorm:"not null"`
	Thumbnail  string `gorm:"size:512"`
	CreatedAt  time.Time
}

// OrderStatusEvent rows are append-only; nothing updates or deletes them.
type OrderStatusEvent struct {
	ID        uint        `gorm:"primaryKey"`
	OrderID   string      `gorm:"size:64;index;not null"`
	Status    OrderStatus `gorm:"size:16;not null"`
	Note      string      `gorm:"size:255"`
	CreatedAt time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
