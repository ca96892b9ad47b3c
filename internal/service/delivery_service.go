package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"saleshub/internal/model"
	"saleshub/internal/repository"
	ws "saleshub/internal/websocket"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// DeliveryItemRequest is one delivery event: an incremental quantity being
// delivered now for the order line matching product+size+color.
type DeliveryItemRequest struct {
	ProductID         string `json:"product_id" binding:"required"`
	Size              string `json:"size" binding:"required"`
	Color             string `json:"color" binding:"required"`
	DeliveredQuantity int    `json:"delivered_quantity" binding:"required,gt=0"`
}

type DeliveryUpdateResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// DeliverySummary is derived from an order's current item list, for display
// and for gating further delivery input.
type DeliverySummary struct {
	TotalItems           int  `json:"total_items"`
	DeliveredItems       int  `json:"delivered_items"`
	RemainingItems       int  `json:"remaining_items"`
	Progress             int  `json:"progress"`
	IsFullyDelivered     bool `json:"is_fully_delivered"`
	IsPartiallyDelivered bool `json:"is_partially_delivered"`
}

// --- Interface ---

type DeliveryService interface {
	// UpdatePartialDelivery applies a batch of delivery events against an
	// existing order. Delivery is a fulfillment-tracking overlay: it never
	// touches stock or salesman statistics, which were applied at creation
	// time against the ordered quantities.
	UpdatePartialDelivery(ctx context.Context, userID, orderID string, items []DeliveryItemRequest) (DeliveryUpdateResult, error)
}

type deliveryService struct {
	orderRepo   repository.OrderRepository
	logRepo     repository.DeliveryLogRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewDeliveryService(
	orderRepo repository.OrderRepository,
	logRepo repository.DeliveryLogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) DeliveryService {
	return &deliveryService{
		orderRepo: orderRepo,
		logRepo:   logRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

// DeriveStatus recomputes an order's status from its item list. Pure and
// idempotent: Delivered iff every line is fully delivered, Partially
// Delivered iff any line has progress, Pending otherwise.
func DeriveStatus(items []model.OrderItem) string {
	if len(items) == 0 {
		return model.OrderStatusPending
	}
	allDelivered := true
	anyDelivered := false
	for _, item := range items {
		if item.DeliveredQuantity > 0 {
			anyDelivered = true
		}
		if item.DeliveredQuantity < item.Quantity {
			allDelivered = false
		}
	}
	switch {
	case allDelivered:
		return model.OrderStatusDelivered
	case anyDelivered:
		return model.OrderStatusPartiallyDelivered
	default:
		return model.OrderStatusPending
	}
}

// GetOrderDeliverySummary derives delivery progress from the order's
// current item list. Pure function, no persistence access.
func GetOrderDeliverySummary(order *model.Order) DeliverySummary {
	summary := DeliverySummary{}
	for _, item := range order.Items {
		summary.TotalItems += item.Quantity
		summary.DeliveredItems += item.DeliveredQuantity
	}
	summary.RemainingItems = summary.TotalItems - summary.DeliveredItems
	if summary.TotalItems > 0 {
		summary.Progress = int(math.Round(float64(summary.DeliveredItems) / float64(summary.TotalItems) * 100))
	}
	summary.IsFullyDelivered = summary.TotalItems > 0 && summary.RemainingItems == 0
	summary.IsPartiallyDelivered = summary.DeliveredItems > 0 && !summary.IsFullyDelivered
	return summary
}

func (s *deliveryService) UpdatePartialDelivery(ctx context.Context, userID, orderID string, items []DeliveryItemRequest) (DeliveryUpdateResult, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return DeliveryUpdateResult{Success: false, Message: "order not found"}, nil
	}

	var result DeliveryUpdateResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, findErr := s.orderRepo.FindByIDForUpdate(txCtx, oid)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				result = DeliveryUpdateResult{Success: false, Message: "order not found"}
				return errOrderRejected
			}
			return fmt.Errorf("failed to load order: %w", findErr)
		}

		// A line can never be delivered past its ordered quantity: the
		// requested quantity clamps silently, and the monetary credit uses
		// the clamped delta so delivered money always matches delivered
		// units.
		batchAmount := decimal.Zero
		batchProfit := decimal.Zero
		for _, event := range items {
			line := findOrderLine(order.Items, event.ProductID, event.Size, event.Color)
			if line == nil {
				continue
			}

			remaining := line.Quantity - line.DeliveredQuantity
			delta := event.DeliveredQuantity
			if delta > remaining {
				delta = remaining
			}
			if delta <= 0 {
				continue
			}

			line.DeliveredQuantity += delta

			qty := decimal.NewFromInt(int64(delta))
			amount := decimal.NewFromFloat(line.FinalPrice).Mul(qty)
			profit := decimal.NewFromFloat(line.FinalPrice).Sub(decimal.NewFromFloat(line.CostPrice)).Mul(qty)
			batchAmount = batchAmount.Add(amount)
			batchProfit = batchProfit.Add(profit)

			entry := &model.DeliveryLog{
				OrderID:           order.ID,
				ProductID:         line.ProductID,
				Size:              line.Size,
				Color:             line.Color,
				QuantityDelivered: delta,
				Amount:            amount.InexactFloat64(),
				Profit:            profit.InexactFloat64(),
			}
			if logErr := s.logRepo.Create(txCtx, entry); logErr != nil {
				return fmt.Errorf("failed to record delivery log: %w", logErr)
			}
		}

		order.Status = DeriveStatus(order.Items)
		order.DeliveredAmount = decimal.NewFromFloat(order.DeliveredAmount).Add(batchAmount).InexactFloat64()
		order.DeliveredProfit = decimal.NewFromFloat(order.DeliveredProfit).Add(batchProfit).InexactFloat64()

		if saveErr := s.orderRepo.UpdateDeliveryState(txCtx, order); saveErr != nil {
			return fmt.Errorf("failed to update order delivery state: %w", saveErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(map[string]interface{}{
			"status":       order.Status,
			"batch_amount": batchAmount.InexactFloat64(),
			"events":       len(items),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionUpdateDelivery,
			EntityID:   order.ID.String(),
			EntityName: order.CustomerName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		result = DeliveryUpdateResult{Success: true, Status: order.Status}
		return nil
	})

	if errors.Is(err, errOrderRejected) {
		return result, nil
	}
	if err != nil {
		return DeliveryUpdateResult{}, err
	}

	log.Info().Str("order_id", orderID).Str("status", result.Status).Msg("delivery updated")
	s.broadcast("delivery_updated", map[string]interface{}{"order_id": orderID, "status": result.Status})
	return result, nil
}

// findOrderLine locates the first order line matching product+size+color.
func findOrderLine(items []model.OrderItem, productID, size, color string) *model.OrderItem {
	for i := range items {
		if items[i].ProductID.String() == productID && items[i].Size == size && items[i].Color == color {
			return &items[i]
		}
	}
	return nil
}

func (s *deliveryService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(OrderEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
