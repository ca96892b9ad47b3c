package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"saleshub/internal/model"
	"saleshub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type VariantRequest struct {
	Size       string `json:"size" binding:"required"`
	Color      string `json:"color" binding:"required"`
	Stock      int    `json:"stock" binding:"gte=0"`
	Production int    `json:"production" binding:"gte=0"`
}

type CreateProductRequest struct {
	Title        string           `json:"title" binding:"required"`
	CategoryID   string           `json:"category_id"`
	SellingPrice float64          `json:"selling_price" binding:"required,gt=0"`
	CostPrice    float64          `json:"cost_price" binding:"gte=0"`
	ImageURL     string           `json:"image_url"`
	Fullstock    bool             `json:"fullstock"`
	Variants     []VariantRequest `json:"variants" binding:"dive"`
}

type UpdateProductRequest struct {
	Title        string           `json:"title" binding:"required"`
	CategoryID   string           `json:"category_id"`
	SellingPrice float64          `json:"selling_price" binding:"required,gt=0"`
	CostPrice    float64          `json:"cost_price" binding:"gte=0"`
	ImageURL     string           `json:"image_url"`
	Fullstock    bool             `json:"fullstock"`
	Variants     []VariantRequest `json:"variants" binding:"dive"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Interface ---

type ProductService interface {
	ListProducts(ctx context.Context, page, limit int, filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, userID, id string, req UpdateProductRequest) (*model.Product, error)
	DeactivateProduct(ctx context.Context, userID, id string) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, userID string, req CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, userID, id string, req CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *productService) ListProducts(ctx context.Context, page, limit int, filter repository.ProductFilter) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.productRepo.List(ctx, page, limit, filter)
}

func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (*model.Product, error) {
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	product := model.Product{
		Title:        req.Title,
		CategoryID:   categoryID,
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		ImageURL:     req.ImageURL,
		Active:       true,
		Fullstock:    req.Fullstock,
		Variants:     buildVariants(req.Variants),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.productRepo.Create(txCtx, &product); createErr != nil {
			return fmt.Errorf("failed to create product: %w", createErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionCreateProduct, product.ID.String(), product.Title, req)
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID, id string, req UpdateProductRequest) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	product.Title = req.Title
	product.CategoryID = categoryID
	product.SellingPrice = req.SellingPrice
	product.CostPrice = req.CostPrice
	product.ImageURL = req.ImageURL
	product.Fullstock = req.Fullstock

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.productRepo.Update(txCtx, product); updateErr != nil {
			return fmt.Errorf("failed to update product: %w", updateErr)
		}
		if req.Variants != nil {
			if varErr := s.productRepo.ReplaceVariants(txCtx, product.ID, buildVariants(req.Variants)); varErr != nil {
				return fmt.Errorf("failed to replace variants: %w", varErr)
			}
		}
		return s.writeAudit(txCtx, userID, model.ActionUpdateProduct, product.ID.String(), product.Title, req)
	})
	if err != nil {
		return nil, err
	}

	return s.productRepo.FindByID(ctx, product.ID)
}

// DeactivateProduct soft-deletes by flipping active=false; there is no
// hard delete, so historical orders keep resolving against the product.
func (s *productService) DeactivateProduct(ctx context.Context, userID, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if setErr := s.productRepo.SetActive(txCtx, product.ID, false); setErr != nil {
			return fmt.Errorf("failed to deactivate product: %w", setErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionDeleteProduct, product.ID.String(), product.Title, map[string]bool{"active": false})
	})
}

func (s *productService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *productService) CreateCategory(ctx context.Context, userID string, req CategoryRequest) (*model.Category, error) {
	category := model.Category{Name: req.Name}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.categoryRepo.Create(txCtx, &category); createErr != nil {
			return fmt.Errorf("failed to create category: %w", createErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionCreateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *productService) UpdateCategory(ctx context.Context, userID, id string, req CategoryRequest) (*model.Category, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	category.Name = req.Name
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.categoryRepo.Update(txCtx, category); updateErr != nil {
			return fmt.Errorf("failed to update category: %w", updateErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionUpdateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *productService) DeleteCategory(ctx context.Context, userID, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("category not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.categoryRepo.Delete(txCtx, category.ID); delErr != nil {
			return fmt.Errorf("failed to delete category: %w", delErr)
		}
		return s.writeAudit(txCtx, userID, model.ActionDeleteCategory, category.ID.String(), category.Name, map[string]bool{"deleted": true})
	})
}

// --- Helpers ---

func buildVariants(reqs []VariantRequest) []model.ProductVariant {
	variants := make([]model.ProductVariant, 0, len(reqs))
	for i, v := range reqs {
		variants = append(variants, model.ProductVariant{
			Size:       v.Size,
			Color:      v.Color,
			Stock:      v.Stock,
			Production: v.Production,
			Position:   i,
		})
	}
	return variants
}

func (s *productService) resolveCategory(ctx context.Context, id string) (*uuid.UUID, error) {
	if id == "" {
		return nil, nil
	}
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &categoryID, nil
}

func (s *productService) writeAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	details, _ := json.Marshal(payload)
	audit := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
