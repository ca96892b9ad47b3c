package service

import (
	"context"
	"testing"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStock(t *testing.T) (StockService, *memProductRepo, *memMovementRepo) {
	t.Helper()
	productRepo := newMemProductRepo()
	movementRepo := &memMovementRepo{}
	return NewStockService(productRepo, movementRepo), productRepo, movementRepo
}

func seedShirt(repo *memProductRepo, stock int) *model.Product {
	return repo.add(&model.Product{
		Title:        "Classic Shirt",
		SellingPrice: 100,
		CostPrice:    60,
		Active:       true,
		Variants: []model.ProductVariant{
			{Size: "M", Color: "Blue", Stock: stock},
			{Size: "L", Color: "Blue", Stock: 1},
		},
	})
}

func TestCheckAvailability(t *testing.T) {
	svc, repo, _ := setupStock(t)
	ctx := context.Background()
	shirt := seedShirt(repo, 5)

	assert.True(t, svc.CheckAvailability(ctx, shirt.ID.String(), "M", "Blue", 5))
	assert.False(t, svc.CheckAvailability(ctx, shirt.ID.String(), "M", "Blue", 6))
	assert.False(t, svc.CheckAvailability(ctx, shirt.ID.String(), "XL", "Blue", 1))
	assert.False(t, svc.CheckAvailability(ctx, uuid.NewString(), "M", "Blue", 1))
	assert.False(t, svc.CheckAvailability(ctx, "not-a-uuid", "M", "Blue", 1))
}

func TestCheckAvailabilityFullstock(t *testing.T) {
	svc, repo, _ := setupStock(t)
	ctx := context.Background()
	service := repo.add(&model.Product{Title: "Embroidery Service", Fullstock: true})

	// Fullstock products answer yes for any quantity, variants or not.
	assert.True(t, svc.CheckAvailability(ctx, service.ID.String(), "", "", 1000))
}

func TestCheckOrderStockExhaustive(t *testing.T) {
	svc, repo, _ := setupStock(t)
	ctx := context.Background()
	shirt := seedShirt(repo, 5)
	missingID := uuid.NewString()

	result, err := svc.CheckOrderStock(ctx, []StockCheckItem{
		{ProductID: shirt.ID.String(), Size: "M", Color: "Blue", Quantity: 3},
		{ProductID: shirt.ID.String(), Size: "L", Color: "Blue", Quantity: 4},
		{ProductID: shirt.ID.String(), Size: "XL", Color: "Blue", Quantity: 1},
		{ProductID: missingID, Size: "M", Color: "Blue", Quantity: 2},
	})
	require.NoError(t, err)

	assert.False(t, result.HasSufficientStock)
	require.Len(t, result.OutOfStockItems, 3)

	shortfall := result.OutOfStockItems[0]
	assert.Equal(t, "L", shortfall.Size)
	assert.Equal(t, 4, shortfall.Requested)
	assert.Equal(t, 1, shortfall.AvailableStock)
	assert.Equal(t, "Classic Shirt", shortfall.ProductName)

	// Missing variant and missing product both read as zero availability.
	assert.Equal(t, "XL", result.OutOfStockItems[1].Size)
	assert.Equal(t, 0, result.OutOfStockItems[1].AvailableStock)
	assert.Equal(t, missingID, result.OutOfStockItems[2].ProductID)
	assert.Equal(t, 0, result.OutOfStockItems[2].AvailableStock)
}

func TestCheckOrderStockAllAvailable(t *testing.T) {
	svc, repo, _ := setupStock(t)
	ctx := context.Background()
	shirt := seedShirt(repo, 5)
	fullstock := repo.add(&model.Product{Title: "Embroidery Service", Fullstock: true})

	result, err := svc.CheckOrderStock(ctx, []StockCheckItem{
		{ProductID: shirt.ID.String(), Size: "M", Color: "Blue", Quantity: 5},
		{ProductID: fullstock.ID.String(), Size: "", Color: "", Quantity: 9999},
	})
	require.NoError(t, err)

	assert.True(t, result.HasSufficientStock)
	assert.Empty(t, result.OutOfStockItems)
}

func TestDecrement(t *testing.T) {
	svc, repo, movements := setupStock(t)
	ctx := context.Background()
	shirt := seedShirt(repo, 5)
	orderID := uuid.New()

	err := svc.Decrement(ctx, &orderID, shirt.ID, "M", "Blue", 3)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.products[shirt.ID].Variants[0].Stock)
	require.Len(t, movements.movements, 1)
	assert.Equal(t, -3, movements.movements[0].QuantityChanged)
	assert.Equal(t, 2, movements.movements[0].StockAfter)
	assert.Equal(t, &orderID, movements.movements[0].OrderID)
}

func TestDecrementInsufficient(t *testing.T) {
	svc, repo, movements := setupStock(t)
	ctx := context.Background()
	shirt := seedShirt(repo, 5)

	err := svc.Decrement(ctx, nil, shirt.ID, "M", "Blue", 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing moved.
	assert.Equal(t, 5, repo.products[shirt.ID].Variants[0].Stock)
	assert.Empty(t, movements.movements)
}

func TestDecrementFullstockNoOp(t *testing.T) {
	svc, repo, movements := setupStock(t)
	ctx := context.Background()
	fullstock := repo.add(&model.Product{Title: "Embroidery Service", Fullstock: true})

	err := svc.Decrement(ctx, nil, fullstock.ID, "", "", 50)
	require.NoError(t, err)
	assert.Empty(t, movements.movements)
}

func TestDecrementVariantNotFound(t *testing.T) {
	svc, repo, _ := setupStock(t)
	ctx := context.Background()
	shirt := seedShirt(repo, 5)

	err := svc.Decrement(ctx, nil, shirt.ID, "XXL", "Green", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant not found")
}
