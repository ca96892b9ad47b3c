package service

import (
	"context"
	"errors"
	"fmt"

	"saleshub/internal/model"
	"saleshub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientStock means a decrement would drive a variant's stock
// below zero. The caller decides whether to surface it as a business
// failure or roll back a larger transaction.
var ErrInsufficientStock = errors.New("insufficient stock")

// --- DTOs ---

type StockCheckItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// OutOfStockItem reports one shortfall line. AvailableStock is zero when the
// product or variant does not exist at all.
type OutOfStockItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	Requested      int    `json:"requested"`
	AvailableStock int    `json:"available_stock"`
}

type StockCheckResult struct {
	HasSufficientStock bool             `json:"has_sufficient_stock"`
	OutOfStockItems    []OutOfStockItem `json:"out_of_stock_items"`
}

// --- Interface ---

type StockService interface {
	// CheckAvailability answers whether one variant can supply the quantity.
	// It never errors: unknown products or variants read as unavailable.
	CheckAvailability(ctx context.Context, productID, size, color string, quantity int) bool
	// CheckOrderStock is the read-only pre-flight probe over a whole cart.
	// Unlike order creation it is exhaustive for every failure kind,
	// reporting missing products and variants as zero availability.
	CheckOrderStock(ctx context.Context, items []StockCheckItem) (StockCheckResult, error)
	// Decrement applies a guarded stock decrement to the variant matching
	// (size, color) exactly. No-op for fullstock products. Must run inside
	// a transaction so the row lock taken here holds until commit.
	Decrement(ctx context.Context, orderID *uuid.UUID, productID uuid.UUID, size, color string, quantity int) error
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewStockService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) StockService {
	return &stockService{productRepo: productRepo, movementRepo: movementRepo}
}

// findVariant returns the first variant matching size and color by exact
// string equality. Duplicate (size, color) pairs are a data anomaly; the
// first match governs.
func findVariant(variants []model.ProductVariant, size, color string) *model.ProductVariant {
	for i := range variants {
		if variants[i].Size == size && variants[i].Color == color {
			return &variants[i]
		}
	}
	return nil
}

func (s *stockService) CheckAvailability(ctx context.Context, productID, size, color string, quantity int) bool {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return false
	}
	product, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		return false
	}
	if product.Fullstock {
		return true
	}
	variant := findVariant(product.Variants, size, color)
	if variant == nil {
		return false
	}
	return variant.Stock >= quantity
}

func (s *stockService) CheckOrderStock(ctx context.Context, items []StockCheckItem) (StockCheckResult, error) {
	result := StockCheckResult{HasSufficientStock: true, OutOfStockItems: []OutOfStockItem{}}

	for _, item := range items {
		pid, parseErr := uuid.Parse(item.ProductID)
		if parseErr != nil {
			result.OutOfStockItems = append(result.OutOfStockItems, OutOfStockItem{
				ProductID: item.ProductID,
				Size:      item.Size,
				Color:     item.Color,
				Requested: item.Quantity,
			})
			continue
		}

		product, findErr := s.productRepo.FindByID(ctx, pid)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				result.OutOfStockItems = append(result.OutOfStockItems, OutOfStockItem{
					ProductID: item.ProductID,
					Size:      item.Size,
					Color:     item.Color,
					Requested: item.Quantity,
				})
				continue
			}
			return StockCheckResult{}, fmt.Errorf("failed to check product %s: %w", item.ProductID, findErr)
		}

		if product.Fullstock {
			continue
		}

		variant := findVariant(product.Variants, item.Size, item.Color)
		if variant == nil {
			result.OutOfStockItems = append(result.OutOfStockItems, OutOfStockItem{
				ProductID:   item.ProductID,
				ProductName: product.Title,
				Size:        item.Size,
				Color:       item.Color,
				Requested:   item.Quantity,
			})
			continue
		}

		if variant.Stock < item.Quantity {
			result.OutOfStockItems = append(result.OutOfStockItems, OutOfStockItem{
				ProductID:      item.ProductID,
				ProductName:    product.Title,
				Size:           item.Size,
				Color:          item.Color,
				Requested:      item.Quantity,
				AvailableStock: variant.Stock,
			})
		}
	}

	result.HasSufficientStock = len(result.OutOfStockItems) == 0
	return result, nil
}

func (s *stockService) Decrement(ctx context.Context, orderID *uuid.UUID, productID uuid.UUID, size, color string, quantity int) error {
	product, err := s.productRepo.FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product not found: %s", productID)
		}
		return fmt.Errorf("failed to load product %s: %w", productID, err)
	}

	if product.Fullstock {
		return nil
	}

	variant := findVariant(product.Variants, size, color)
	if variant == nil {
		return fmt.Errorf("variant not found for product %s (size: %s, color: %s)", product.Title, size, color)
	}

	newStock := variant.Stock - quantity
	if newStock < 0 {
		return fmt.Errorf("%w for product %s (size: %s, color: %s, current: %d, requested: %d)",
			ErrInsufficientStock, product.Title, size, color, variant.Stock, quantity)
	}

	if err := s.productRepo.UpdateVariantStock(ctx, variant.ID, newStock); err != nil {
		return fmt.Errorf("failed to update stock for product %s: %w", product.Title, err)
	}

	movement := &model.StockMovement{
		ProductID:       product.ID,
		VariantID:       variant.ID,
		OrderID:         orderID,
		QuantityChanged: -quantity,
		StockAfter:      newStock,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}

	return nil
}
