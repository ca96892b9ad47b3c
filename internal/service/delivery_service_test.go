package service

import (
	"context"
	"testing"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliveryFixture struct {
	svc    DeliveryService
	orders *memOrderRepo
	logs   *memDeliveryLogRepo
	audits *memAuditRepo
}

func setupDelivery(t *testing.T) *deliveryFixture {
	t.Helper()
	orders := newMemOrderRepo()
	logs := &memDeliveryLogRepo{}
	audits := &memAuditRepo{}
	svc := NewDeliveryService(orders, logs, audits, passthroughTx{}, nil)
	return &deliveryFixture{svc: svc, orders: orders, logs: logs, audits: audits}
}

func seedPendingOrder(orders *memOrderRepo, items ...model.OrderItem) *model.Order {
	return orders.add(&model.Order{
		CustomerID:   uuid.New(),
		CustomerName: "acme-store",
		SalesmanID:   uuid.New(),
		SalesmanName: "maria",
		Items:        items,
		Status:       model.OrderStatusPending,
	})
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		items []model.OrderItem
		want  string
	}{
		{"no items", nil, model.OrderStatusPending},
		{"nothing delivered", []model.OrderItem{{Quantity: 5}}, model.OrderStatusPending},
		{"some delivered", []model.OrderItem{{Quantity: 5, DeliveredQuantity: 2}}, model.OrderStatusPartiallyDelivered},
		{"one line done one untouched", []model.OrderItem{
			{Quantity: 5, DeliveredQuantity: 5},
			{Quantity: 3},
		}, model.OrderStatusPartiallyDelivered},
		{"all delivered", []model.OrderItem{
			{Quantity: 5, DeliveredQuantity: 5},
			{Quantity: 3, DeliveredQuantity: 3},
		}, model.OrderStatusDelivered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.items))
		})
	}
}

func TestGetOrderDeliverySummary(t *testing.T) {
	order := &model.Order{Items: []model.OrderItem{
		{Quantity: 5, DeliveredQuantity: 5},
		{Quantity: 5, DeliveredQuantity: 0},
	}}

	summary := GetOrderDeliverySummary(order)

	assert.Equal(t, 10, summary.TotalItems)
	assert.Equal(t, 5, summary.DeliveredItems)
	assert.Equal(t, 5, summary.RemainingItems)
	assert.Equal(t, 50, summary.Progress)
	assert.False(t, summary.IsFullyDelivered)
	assert.True(t, summary.IsPartiallyDelivered)
}

func TestGetOrderDeliverySummaryComplete(t *testing.T) {
	order := &model.Order{Items: []model.OrderItem{{Quantity: 4, DeliveredQuantity: 4}}}

	summary := GetOrderDeliverySummary(order)

	assert.Equal(t, 100, summary.Progress)
	assert.True(t, summary.IsFullyDelivered)
	assert.False(t, summary.IsPartiallyDelivered)
}

func TestUpdatePartialDelivery(t *testing.T) {
	f := setupDelivery(t)
	ctx := context.Background()
	productID := uuid.New()
	order := seedPendingOrder(f.orders, model.OrderItem{
		ProductID:   productID,
		ProductName: "Classic Shirt",
		Size:        "M",
		Color:       "Blue",
		Quantity:    10,
		CostPrice:   60,
		FinalPrice:  100,
	})

	result, err := f.svc.UpdatePartialDelivery(ctx, uuid.NewString(), order.ID.String(), []DeliveryItemRequest{
		{ProductID: productID.String(), Size: "M", Color: "Blue", DeliveredQuantity: 4},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, model.OrderStatusPartiallyDelivered, result.Status)

	saved := f.orders.orders[order.ID]
	assert.Equal(t, 4, saved.Items[0].DeliveredQuantity)
	assert.Equal(t, 400.0, saved.DeliveredAmount)
	assert.Equal(t, 160.0, saved.DeliveredProfit)

	require.Len(t, f.logs.entries, 1)
	assert.Equal(t, 4, f.logs.entries[0].QuantityDelivered)
	assert.Equal(t, 400.0, f.logs.entries[0].Amount)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.ActionUpdateDelivery, f.audits.entries[0].Action)
}

func TestUpdatePartialDeliveryClampsToRemaining(t *testing.T) {
	f := setupDelivery(t)
	ctx := context.Background()
	productID := uuid.New()
	order := seedPendingOrder(f.orders, model.OrderItem{
		ProductID:  productID,
		Size:       "M",
		Color:      "Blue",
		Quantity:   10,
		CostPrice:  60,
		FinalPrice: 100,
	})

	event := []DeliveryItemRequest{{ProductID: productID.String(), Size: "M", Color: "Blue", DeliveredQuantity: 4}}
	_, err := f.svc.UpdatePartialDelivery(ctx, uuid.NewString(), order.ID.String(), event)
	require.NoError(t, err)

	// Reporting 10 more with only 6 remaining credits exactly the clamped 6.
	event[0].DeliveredQuantity = 10
	result, err := f.svc.UpdatePartialDelivery(ctx, uuid.NewString(), order.ID.String(), event)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, model.OrderStatusDelivered, result.Status)

	saved := f.orders.orders[order.ID]
	assert.Equal(t, 10, saved.Items[0].DeliveredQuantity)
	assert.Equal(t, 1000.0, saved.DeliveredAmount)
	assert.Equal(t, 400.0, saved.DeliveredProfit)

	require.Len(t, f.logs.entries, 2)
	assert.Equal(t, 6, f.logs.entries[1].QuantityDelivered)
}

func TestUpdatePartialDeliveryFullyDeliveredLineIgnored(t *testing.T) {
	f := setupDelivery(t)
	ctx := context.Background()
	productID := uuid.New()
	order := seedPendingOrder(f.orders, model.OrderItem{
		ProductID:         productID,
		Size:              "M",
		Color:             "Blue",
		Quantity:          3,
		DeliveredQuantity: 3,
		FinalPrice:        100,
	})
	order.Status = model.OrderStatusDelivered

	result, err := f.svc.UpdatePartialDelivery(ctx, uuid.NewString(), order.ID.String(), []DeliveryItemRequest{
		{ProductID: productID.String(), Size: "M", Color: "Blue", DeliveredQuantity: 2},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, model.OrderStatusDelivered, result.Status)

	assert.Equal(t, 3, f.orders.orders[order.ID].Items[0].DeliveredQuantity)
	assert.Empty(t, f.logs.entries)
}

func TestUpdatePartialDeliveryUnmatchedLineSkipped(t *testing.T) {
	f := setupDelivery(t)
	ctx := context.Background()
	productID := uuid.New()
	order := seedPendingOrder(f.orders, model.OrderItem{
		ProductID:  productID,
		Size:       "M",
		Color:      "Blue",
		Quantity:   5,
		FinalPrice: 100,
	})

	result, err := f.svc.UpdatePartialDelivery(ctx, uuid.NewString(), order.ID.String(), []DeliveryItemRequest{
		{ProductID: uuid.NewString(), Size: "M", Color: "Blue", DeliveredQuantity: 2},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, model.OrderStatusPending, result.Status)
	assert.Empty(t, f.logs.entries)
}

func TestUpdatePartialDeliveryOrderNotFound(t *testing.T) {
	f := setupDelivery(t)
	ctx := context.Background()

	for _, id := range []string{"bogus", uuid.NewString()} {
		result, err := f.svc.UpdatePartialDelivery(ctx, uuid.NewString(), id, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "order not found", result.Message)
	}
}
