package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for catalog browsing
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product represents a sellable item. A product flagged Fullstock bypasses
// stock tracking entirely: always available, never decremented.
type Product struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string           `gorm:"type:varchar(255);not null" json:"title"`
	CategoryID   *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category     *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SellingPrice float64          `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	CostPrice    float64          `gorm:"type:decimal(12,2);default:0" json:"cost_price"`
	ImageURL     string           `gorm:"type:text" json:"image_url"`
	Active       bool             `gorm:"default:true;not null" json:"active"`
	Fullstock    bool             `gorm:"default:false;not null" json:"fullstock"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductVariant is one (size, color) combination of a product with its own
// stock and production counters. Position preserves the admin-defined order.
// Size+color is the natural key within a product; duplicates are a data
// anomaly and the first match governs.
type ProductVariant struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Size       string    `gorm:"type:varchar(50);not null" json:"size"`
	Color      string    `gorm:"type:varchar(50);not null" json:"color"`
	Stock      int       `gorm:"type:int;default:0;not null" json:"stock"`
	Production int       `gorm:"type:int;default:0;not null" json:"production"`
	Position   int       `gorm:"type:int;default:0;not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockMovement records every stock decrement strictly, one row per variant
// touched, with the resulting stock level.
type StockMovement struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"variant_id"`
	OrderID         *uuid.UUID `gorm:"type:uuid;index" json:"order_id"` // nullable for manual adjustments
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time  `json:"created_at"`
}
