package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"saleshub/internal/model"
	"saleshub/internal/repository"
	ws "saleshub/internal/websocket"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// errOrderRejected aborts the creation transaction for a business-rule
// failure. The caller maps it to the structured result instead of an error.
var errOrderRejected = errors.New("order rejected")

// --- DTOs ---

type OrderItemRequest struct {
	ProductID     string  `json:"product_id" binding:"required"`
	Size          string  `json:"size" binding:"required"`
	Color         string  `json:"color" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	SellingPrice  float64 `json:"selling_price" binding:"required,gt=0"`
	FinalPrice    float64 `json:"final_price" binding:"required,gt=0"`
	DiscountGiven float64 `json:"discount_given" binding:"gte=0"`
}

type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" binding:"required"`
	SalesmanID string             `json:"salesman_id" binding:"required"`
	WorkerID   string             `json:"worker_id"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderResult is the discriminated outcome of order creation.
// OutOfStockItems is set only when stock shortfalls rejected the order;
// its absence means the failure had a different reason.
type CreateOrderResult struct {
	Success         bool             `json:"success"`
	OrderID         string           `json:"order_id,omitempty"`
	Message         string           `json:"message,omitempty"`
	OutOfStockItems []OutOfStockItem `json:"out_of_stock_items,omitempty"`
}

// Websocket payload
type OrderEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (CreateOrderResult, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, page, limit int, status string) ([]model.Order, int64, error)
}

type orderService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	auditRepo   repository.AuditRepository
	stock       StockService
	discounts   DiscountService
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewOrderService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	stock StockService,
	discounts DiscountService,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		stock:       stock,
		discounts:   discounts,
		txManager:   txManager,
		hub:         hub,
	}
}

// CreateOrder is the only write path that creates an order.
//
// Discount ceilings are checked first, fail-fast on the first offending
// line. Stock validation, persistence, decrements and salesman statistics
// then run inside one transaction with every non-fullstock product row
// locked, so validation and decrement are atomic: stock can never be
// over-sold by two orders racing on the same variant. Missing products and
// variants fail fast with distinct messages; stock shortfalls are collected
// exhaustively and reported as a list.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (CreateOrderResult, error) {
	// Step 1 — discount validation, before anything is persisted.
	for _, item := range req.Items {
		if item.DiscountGiven <= 0 {
			continue
		}
		percent := decimal.NewFromFloat(item.DiscountGiven).
			Div(decimal.NewFromFloat(item.SellingPrice)).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
		v := s.discounts.ValidateDiscount(ctx, req.SalesmanID, percent)
		if !v.IsValid {
			return CreateOrderResult{
				Success: false,
				Message: fmt.Sprintf("discount rejected for product %s: %s", s.productLabel(ctx, item.ProductID), v.Message),
			}, nil
		}
	}

	var result CreateOrderResult
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Step 2 — resolve and lock every product in input order.
		products := make([]*model.Product, len(req.Items))
		var outOfStock []OutOfStockItem
		for i, item := range req.Items {
			pid, parseErr := uuid.Parse(item.ProductID)
			if parseErr != nil {
				result = CreateOrderResult{Success: false, Message: fmt.Sprintf("product not found: %s", item.ProductID)}
				return errOrderRejected
			}

			product, findErr := s.productRepo.FindByIDForUpdate(txCtx, pid)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					result = CreateOrderResult{Success: false, Message: fmt.Sprintf("product not found: %s", item.ProductID)}
					return errOrderRejected
				}
				return fmt.Errorf("failed to find product %s: %w", item.ProductID, findErr)
			}
			products[i] = product

			if product.Fullstock {
				continue
			}

			variant := findVariant(product.Variants, item.Size, item.Color)
			if variant == nil {
				result = CreateOrderResult{
					Success: false,
					Message: fmt.Sprintf("variant not found for product %s (size: %s, color: %s)", product.Title, item.Size, item.Color),
				}
				return errOrderRejected
			}

			if variant.Stock < item.Quantity {
				outOfStock = append(outOfStock, OutOfStockItem{
					ProductID:      item.ProductID,
					ProductName:    product.Title,
					Size:           item.Size,
					Color:          item.Color,
					Requested:      item.Quantity,
					AvailableStock: variant.Stock,
				})
			}
		}

		if len(outOfStock) > 0 {
			result = CreateOrderResult{
				Success:         false,
				Message:         "insufficient stock",
				OutOfStockItems: outOfStock,
			}
			return errOrderRejected
		}

		// Step 3 — resolve display names; these are snapshots embedded in
		// the order, never synced with later profile edits.
		customer, lookupErr := s.lookupUser(txCtx, req.CustomerID)
		if lookupErr != nil {
			result = CreateOrderResult{Success: false, Message: "customer not found"}
			return errOrderRejected
		}
		salesman, lookupErr := s.lookupUser(txCtx, req.SalesmanID)
		if lookupErr != nil {
			result = CreateOrderResult{Success: false, Message: "salesman not found"}
			return errOrderRejected
		}

		var workerID *uuid.UUID
		workerName := ""
		if req.WorkerID != "" {
			if worker, werr := s.lookupUser(txCtx, req.WorkerID); werr == nil {
				workerID = &worker.ID
				workerName = worker.Username
			}
		}

		// Totals are financial aggregates fixed at creation time.
		totalAmount := decimal.Zero
		totalCost := decimal.Zero
		totalDiscount := decimal.Zero
		items := make([]model.OrderItem, 0, len(req.Items))
		for i, item := range req.Items {
			qty := decimal.NewFromInt(int64(item.Quantity))
			totalAmount = totalAmount.Add(decimal.NewFromFloat(item.FinalPrice).Mul(qty))
			totalCost = totalCost.Add(decimal.NewFromFloat(products[i].CostPrice).Mul(qty))
			totalDiscount = totalDiscount.Add(decimal.NewFromFloat(item.DiscountGiven).Mul(qty))

			items = append(items, model.OrderItem{
				ProductID:     products[i].ID,
				ProductName:   products[i].Title,
				Size:          item.Size,
				Color:         item.Color,
				Quantity:      item.Quantity,
				CostPrice:     products[i].CostPrice,
				SellingPrice:  item.SellingPrice,
				FinalPrice:    item.FinalPrice,
				DiscountGiven: item.DiscountGiven,
			})
		}
		totalProfit := totalAmount.Sub(totalCost)

		order := model.Order{
			CustomerID:   customer.ID,
			CustomerName: customer.Username,
			SalesmanID:   salesman.ID,
			SalesmanName: salesman.Username,
			WorkerID:     workerID,
			WorkerName:   workerName,
			Items:        items,
			TotalAmount:  totalAmount.InexactFloat64(),
			TotalCost:    totalCost.InexactFloat64(),
			TotalProfit:  totalProfit.InexactFloat64(),
			Status:       model.OrderStatusPending,
		}
		if createErr := s.orderRepo.Create(txCtx, &order); createErr != nil {
			return fmt.Errorf("failed to create order: %w", createErr)
		}

		// Step 4 — decrements against the rows locked above, then salesman
		// statistics. Same transaction, so a failure here voids the order.
		for i, item := range req.Items {
			if products[i].Fullstock {
				continue
			}
			if decErr := s.stock.Decrement(txCtx, &order.ID, products[i].ID, item.Size, item.Color, item.Quantity); decErr != nil {
				return decErr
			}
		}

		if statErr := s.userRepo.IncrementSalesStats(txCtx, salesman.ID,
			totalAmount.InexactFloat64(), totalDiscount.InexactFloat64(), totalProfit.InexactFloat64()); statErr != nil {
			return fmt.Errorf("failed to update salesman statistics: %w", statErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(map[string]interface{}{
			"customer":     customer.Username,
			"salesman":     salesman.Username,
			"total_amount": order.TotalAmount,
			"items":        len(items),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCreateOrder,
			EntityID:   order.ID.String(),
			EntityName: customer.Username,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		result = CreateOrderResult{Success: true, OrderID: order.ID.String()}
		return nil
	})

	if errors.Is(err, errOrderRejected) {
		return result, nil
	}
	if err != nil {
		return CreateOrderResult{}, err
	}

	log.Info().Str("order_id", result.OrderID).Str("salesman_id", req.SalesmanID).Msg("order created")
	s.broadcast("order_created", map[string]interface{}{"order_id": result.OrderID})
	return result, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", err)
	}
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int, status string) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.List(ctx, page, limit, status)
}

// lookupUser parses and fetches a user by id string.
func (s *orderService) lookupUser(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, uid)
}

// productLabel resolves a product title for failure messages, falling back
// to the raw id when the product cannot be read.
func (s *orderService) productLabel(ctx context.Context, productID string) string {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return productID
	}
	product, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		return productID
	}
	return product.Title
}

func (s *orderService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(OrderEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
