package repository

import (
	"context"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateDeliveryState(ctx context.Context, order *model.Order) error
	List(ctx context.Context, page, limit int, status string) ([]model.Order, int64, error)
	ListAll(ctx context.Context) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row so concurrent delivery batches
// against the same order serialize.
func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).
		Where("order_id = ?", id).
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateDeliveryState persists the delivery-tracking overlay: status,
// cumulative delivered money and per-item delivered quantities. The item
// list and pricing stay untouched.
func (r *orderRepository) UpdateDeliveryState(ctx context.Context, order *model.Order) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":           order.Status,
		"delivered_amount": order.DeliveredAmount,
		"delivered_profit": order.DeliveredProfit,
	}).Error; err != nil {
		return err
	}
	for _, item := range order.Items {
		if err := db.Model(&model.OrderItem{}).Where("id = ?", item.ID).
			Update("delivered_quantity", item.DeliveredQuantity).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, page, limit int, status string) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Order{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListAll loads every order with items for the in-memory report folds.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
