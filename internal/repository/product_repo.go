package repository

import (
	"context"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows product listings. ActiveOnly excludes soft-deleted
// (active=false) products; CategoryID filters by category when set.
type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	ActiveOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []model.ProductVariant) error
	UpdateVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, page, limit int, filter ProductFilter) ([]model.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Omit("Variants").Save(product).Error
}

func (r *productRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Update("active", active).Error
}

// ReplaceVariants swaps the whole ordered variant list of a product.
func (r *productRepository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []model.ProductVariant) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("product_id = ?", productID).Delete(&model.ProductVariant{}).Error; err != nil {
		return err
	}
	for i := range variants {
		variants[i].ProductID = productID
		variants[i].Position = i
	}
	if len(variants) == 0 {
		return nil
	}
	return db.Create(&variants).Error
}

func (r *productRepository) UpdateVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error {
	return GetDB(ctx, r.db).Model(&model.ProductVariant{}).Where("id = ?", variantID).Update("stock", stock).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row so concurrent availability checks
// and decrements serialize per product.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).
		Where("product_id = ?", id).Order("position ASC").
		Find(&product.Variants).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, page, limit int, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{})
	if filter.Search != "" {
		db = db.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOnly {
		db = db.Where("active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Category").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
