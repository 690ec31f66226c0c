package models

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a member of the order status enum.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name         string `gorm:"not null"                      json:"name"`
	Email        string `gorm:"unique;not null"               json:"email"`
	PasswordHash string `gorm:"not null"                      json:"-"`
	Role         string `gorm:"not null;default:customer"     json:"role"`
	ProfilePic   string `json:"profile_pic"`
}

type Product struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string  `gorm:"not null"                 json:"name"`
	Picture    string  `gorm:"not null"                 json:"picture"`
	Quantity   uint    `gorm:"not null"                 json:"quantity"`
	PricePerKg float64 `gorm:"not null"                 json:"pricePerKg"`
}

// Address is embedded into Order. All fields are required at placement
// time and the pincode must match ^\d{6}$; enforcement lives in the order
// service, not here.
type Address struct {
	Taluk       string `gorm:"not null" json:"taluk"`
	District    string `gorm:"not null" json:"district"`
	Pincode     string `gorm:"not null" json:"pincode"`
	VillageTown string `gorm:"not null" json:"villageTown"`
}

// OrderItem is a frozen copy of a catalog line at placement time.
// ProductName and PricePerKg are snapshots; later catalog edits never
// change historical orders.
type OrderItem struct {
	ID          uint     `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID     uint     `gorm:"index;not null"             json:"order_id"`
	ProductID   uint     `gorm:"not null"                   json:"product_id"`
	ProductName string   `gorm:"not null"                   json:"productName"`
	Quantity    uint     `gorm:"not null;check:quantity>0"  json:"quantity"`
	PricePerKg  float64  `gorm:"not null"                   json:"pricePerKg"`
	Product     *Product `gorm:"foreignKey:ProductID"       json:"product,omitempty"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"              json:"id"`
	BuyerID   uint        `gorm:"index;not null"                        json:"buyer_id"`
	Buyer     *User       `gorm:"foreignKey:BuyerID"                    json:"buyer,omitempty"`
	Address   Address     `gorm:"embedded;embeddedPrefix:address_"      json:"address"`
	Status    string      `gorm:"not null;default:pending"              json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"                    json:"products"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// Payment is an append-only log of the mock payment step. No gateway is
// called; records are written once with status "success".
type Payment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"index;not null"           json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID"        json:"user,omitempty"`
	Amount        float64   `gorm:"not null"                 json:"amount"`
	PaymentMethod string    `gorm:"not null"                 json:"payment_method"`
	Status        string    `gorm:"not null;default:success" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
