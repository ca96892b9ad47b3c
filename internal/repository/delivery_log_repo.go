package repository

import (
	"context"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryLogRepository interface {
	Create(ctx context.Context, entry *model.DeliveryLog) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.DeliveryLog, error)
}

type deliveryLogRepository struct {
	db *gorm.DB
}

func NewDeliveryLogRepository(db *gorm.DB) DeliveryLogRepository {
	return &deliveryLogRepository{db: db}
}

func (r *deliveryLogRepository) Create(ctx context.Context, entry *model.DeliveryLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *deliveryLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.DeliveryLog, error) {
	var logs []model.DeliveryLog
	if err := GetDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
