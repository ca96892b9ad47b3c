package repository

import (
	"context"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockMovement{}).Where("product_id = ?", productID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}
