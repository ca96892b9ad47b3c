package model

import (
	"time"

	"github.com/google/uuid"
)

// Order status constants. Status is derived from per-line delivered vs
// ordered quantities, never set freely once delivery tracking begins.
const (
	OrderStatusPending            = "Pending"
	OrderStatusPartiallyDelivered = "Partially Delivered"
	OrderStatusDelivered          = "Delivered"
)

// Order is created once with an immutable item list and pricing; only the
// delivery-tracking fields (status, delivered amounts, per-line delivered
// quantities) mutate afterwards. Customer/salesman/worker names are
// denormalized snapshots taken at creation time.
type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	SalesmanID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"salesman_id"`
	SalesmanName    string      `gorm:"type:varchar(255);not null" json:"salesman_name"`
	WorkerID        *uuid.UUID  `gorm:"type:uuid;index" json:"worker_id"`
	WorkerName      string      `gorm:"type:varchar(255)" json:"worker_name,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount     float64     `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	TotalCost       float64     `gorm:"type:decimal(14,2);not null" json:"total_cost"`
	TotalProfit     float64     `gorm:"type:decimal(14,2);not null" json:"total_profit"`
	Status          string      `gorm:"type:varchar(30);default:'Pending';index" json:"status"`
	DeliveredAmount float64     `gorm:"type:decimal(14,2);default:0;not null" json:"delivered_amount"`
	DeliveredProfit float64     `gorm:"type:decimal(14,2);default:0;not null" json:"delivered_profit"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a line of an order. Pricing fields are fixed at creation;
// DeliveredQuantity is the cumulative fulfilled count, 0 <= delivered <= quantity.
type OrderItem struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName       string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Size              string    `gorm:"type:varchar(50);not null" json:"size"`
	Color             string    `gorm:"type:varchar(50);not null" json:"color"`
	Quantity          int       `gorm:"type:int;not null" json:"quantity"`
	CostPrice         float64   `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	SellingPrice      float64   `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	FinalPrice        float64   `gorm:"type:decimal(12,2);not null" json:"final_price"`
	DiscountGiven     float64   `gorm:"type:decimal(12,2);default:0;not null" json:"discount_given"`
	DeliveredQuantity int       `gorm:"type:int;default:0;not null" json:"delivered_quantity"`
}

// DeliveryLog records one line of one partial-delivery batch: how many units
// were credited and the money attributed to them (clamped to the line's
// remaining quantity).
type DeliveryLog struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Size              string    `gorm:"type:varchar(50);not null" json:"size"`
	Color             string    `gorm:"type:varchar(50);not null" json:"color"`
	QuantityDelivered int       `gorm:"type:int;not null" json:"quantity_delivered"`
	Amount            float64   `gorm:"type:decimal(14,2);not null" json:"amount"`
	Profit            float64   `gorm:"type:decimal(14,2);not null" json:"profit"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
}
