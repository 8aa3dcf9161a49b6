package dto

import "time"

// ---- auth ----

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
}

type UpdateUserRequest struct {
	Role string `json:"role"`
}

// ---- cart / wishlist ----

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type CartItemResponse struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Price     string    `json:"price"`
	Cents     int64     `json:"price_cents"`
	Quantity  int64     `json:"quantity"`
	Thumbnail string    `json:"thumbnail"`
	AddedAt   time.Time `json:"added_at"`
}

type CartResponse struct {
	ID         string              `json:"id"`
	Items      []*CartItemResponse `json:"items"`
	TotalItems int64               `json:"total_items"`
	TotalPrice string              `json:"total_price"`
	TotalCents int64               `json:"total_price_cents"`
}

type WishlistItemResponse struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Price     string    `json:"price"`
	Cents     int64     `json:"price_cents"`
	Thumbnail string    `json:"thumbnail"`
	AddedAt   time.Time `json:"added_at"`
}

// ---- checkout / orders ----

type ShippingAddress struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type CreateIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type ConfirmOrderRequest struct {
	IntentID        string          `json:"intent_id"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Cents     int64  `json:"price_cents"`
	Quantity  int64  `json:"quantity"`
	Thumbnail string `json:"thumbnail"`
}

type StatusEventResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type TrackingInfo struct {
	Carrier           string     `json:"carrier,omitempty"`
	TrackingNumber    string     `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

type OrderResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Items           []*OrderItemResponse   `json:"items"`
	Subtotal        string                 `json:"subtotal"`
	Tax             string                 `json:"tax"`
	Shipping        string                 `json:"shipping"`
	Total           string                 `json:"total"`
	TotalCents      int64                  `json:"total_cents"`
	PaymentStatus   string                 `json:"payment_status"`
	OrderStatus     string                 `json:"order_status"`
	StatusHistory   []*StatusEventResponse `json:"status_history,omitempty"`
	TrackingInfo    *TrackingInfo          `json:"tracking_info,omitempty"`
	ShippingAddress ShippingAddress        `json:"shipping_address"`
	CreatedAt       time.Time              `json:"created_at"`
}

type OrderListResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Total  int64            `json:"total"`
}

type TransitionRequest struct {
	Status       string        `json:"status"`
	Note         string        `json:"note,omitempty"`
	TrackingInfo *TrackingInfo `json:"tracking_info,omitempty"`
}

type BulkUpdateRequest struct {
	OrderIDs []string `json:"order_ids"`
	Status   string   `json:"status"`
}

type BulkUpdateResponse struct {
	Updated  int               `json:"updated"`
	Failed   int               `json:"failed"`
	Failures map[string]string `json:"failures,omitempty"`
}

// ---- admin dashboard ----

type MonthRevenue struct {
	Month   string `json:"month"` // "2026-08"
	Revenue string `json:"revenue"`
	Cents   int64  `json:"revenue_cents"`
}

type TopProduct struct {
	ProductID    string `json:"product_id"`
	Title        string `json:"title"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
	RevenueCents int64  `json:"revenue_cents"`
}

type DashboardResponse struct {
	TotalOrders    int64            `json:"total_orders"`
	TotalUsers     int64            `json:"total_users"`
	TotalRevenue   string           `json:"total_revenue"`
	RevenueCents   int64            `json:"total_revenue_cents"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	RevenueByMonth []*MonthRevenue  `json:"revenue_by_month"`
	TopProducts    []*TopProduct    `json:"top_products"`
	OrdersToday    int64            `json:"orders_today"`
	UsersToday     int64            `json:"users_today"`
	RevenueToday   string           `json:"revenue_today"`
}
