package service

import (
	"context"

	"saleshub/internal/model"
	"saleshub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository doubles. They implement just enough of the
// persistence contracts for service tests: map-backed storage, no paging
// semantics beyond what the tests exercise.

type memProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *memProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variants {
		if p.Variants[i].ID == uuid.Nil {
			p.Variants[i].ID = uuid.New()
		}
		p.Variants[i].ProductID = p.ID
	}
	m.products[p.ID] = p
	return p
}

func (m *memProductRepo) Create(_ context.Context, product *model.Product) error {
	m.add(product)
	return nil
}

func (m *memProductRepo) Update(_ context.Context, product *model.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *memProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

func (m *memProductRepo) ReplaceVariants(_ context.Context, productID uuid.UUID, variants []model.ProductVariant) error {
	p, ok := m.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range variants {
		if variants[i].ID == uuid.Nil {
			variants[i].ID = uuid.New()
		}
		variants[i].ProductID = productID
		variants[i].Position = i
	}
	p.Variants = variants
	return nil
}

func (m *memProductRepo) UpdateVariantStock(_ context.Context, variantID uuid.UUID, stock int) error {
	for _, p := range m.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				p.Variants[i].Stock = stock
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return m.FindByID(ctx, id)
}

func (m *memProductRepo) List(_ context.Context, _, _ int, _ repository.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type memOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *memOrderRepo) add(o *model.Order) *model.Order {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	m.orders[o.ID] = o
	return o
}

func (m *memOrderRepo) Create(_ context.Context, order *model.Order) error {
	m.add(order)
	return nil
}

func (m *memOrderRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (m *memOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return m.FindByIDWithItems(ctx, id)
}

func (m *memOrderRepo) UpdateDeliveryState(_ context.Context, order *model.Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memOrderRepo) List(_ context.Context, _, _ int, status string) ([]model.Order, int64, error) {
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *memUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return u
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	m.add(user)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) List(_ context.Context, _, _ int, role string) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) IncrementSalesStats(_ context.Context, id uuid.UUID, sales, discount, profit float64) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TotalSales += sales
	u.TotalDiscountGiven += discount
	u.TotalProfit += profit
	return nil
}

type memCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (m *memCategoryRepo) add(c *model.Category) *model.Category {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.categories[c.ID] = c
	return c
}

func (m *memCategoryRepo) Create(_ context.Context, category *model.Category) error {
	m.add(category)
	return nil
}

func (m *memCategoryRepo) Update(_ context.Context, category *model.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *memCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

type memMovementRepo struct {
	movements []model.StockMovement
}

func (m *memMovementRepo) Create(_ context.Context, movement *model.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	m.movements = append(m.movements, *movement)
	return nil
}

func (m *memMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			out = append(out, mv)
		}
	}
	return out, int64(len(out)), nil
}

type memDeliveryLogRepo struct {
	entries []model.DeliveryLog
}

func (m *memDeliveryLogRepo) Create(_ context.Context, entry *model.DeliveryLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memDeliveryLogRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.DeliveryLog, error) {
	var out []model.DeliveryLog
	for _, e := range m.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memAuditRepo struct {
	entries []model.AuditLog
}

func (m *memAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAuditRepo) List(_ context.Context, _, _ int, action string) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range m.entries {
		if action != "" && e.Action != action {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

// passthroughTx runs the closure on the caller's context. Rollback-on-error
// semantics are not simulated; tests assert observable state instead.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
