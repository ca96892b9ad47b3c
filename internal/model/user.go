package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role constants
const (
	RoleAdmin    = "admin"
	RoleSalesman = "salesman"
	RoleCustomer = "customer"
	RoleWorker   = "worker"
)

// User is the central principal entity: admins, salesmen, customers and
// workers share one table discriminated by Role. The salesman-only fields
// (MaxDiscountPercent and the running aggregates) stay zero for other roles.
// The aggregates are increased on each successful order creation and never
// decreased afterwards.
type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email              string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone              string         `gorm:"type:varchar(20)" json:"phone"`
	Password           string         `gorm:"type:varchar(255);not null" json:"-"`
	Role               string         `gorm:"type:varchar(50);not null;index" json:"role"` // admin, salesman, customer, worker
	Approved           bool           `gorm:"default:true;not null" json:"approved"`
	MaxDiscountPercent float64        `gorm:"type:decimal(5,2);default:0;not null" json:"max_discount_percent"`
	TotalSales         float64        `gorm:"type:decimal(14,2);default:0;not null" json:"total_sales"`
	TotalDiscountGiven float64        `gorm:"type:decimal(14,2);default:0;not null" json:"total_discount_given"`
	TotalProfit        float64        `gorm:"type:decimal(14,2);default:0;not null" json:"total_profit_generated"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
