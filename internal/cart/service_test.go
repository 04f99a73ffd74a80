package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/metrics"
)

func TestAddItemReservesAndMerges(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	dto, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].Quantity != 3 {
		t.Fatalf("unexpected cart state %+v", dto.Lines)
	}
	if got := env.ledger.stock[product]; got != 2 {
		t.Fatalf("expected stock 2, got %d", got)
	}

	// Adding again merges into the existing line.
	dto, err = env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged line of 5, got %+v", dto.Lines)
	}
	if got := env.ledger.stock[product]; got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}

func TestAddItemInsufficientStockLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 4})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	dto, err := env.svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].Quantity != 3 {
		t.Fatalf("failed add must not change the cart, got %+v", dto.Lines)
	}
	if got := env.ledger.stock[product]; got != 2 {
		t.Fatalf("failed add must not change stock, got %d", got)
	}
}

func TestAddItemReleasesStockWhenCartWriteFails(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	env.repo.failUpsert = true
	_, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3})
	if err == nil {
		t.Fatal("expected cart write error")
	}
	if got := env.ledger.stock[product]; got != 5 {
		t.Fatalf("expected reservation rolled back to 5, got %d", got)
	}
}

func TestAddItemCompensationFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	env.repo.failUpsert = true
	env.ledger.failRelease = true
	_, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3})
	if err == nil {
		t.Fatal("expected cart write error")
	}
	// The surfaced error is the cart write failure, not the release failure.
	if pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemValidatesQuantity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)

	for _, qty := range []int{0, -2} {
		_, err := env.svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product, Quantity: qty})
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for qty=%d, got %v", qty, err)
		}
	}
}

func TestSetQuantityIncreaseReservesDelta(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	dto, err := env.svc.SetQuantity(ctx, userID, product, 4)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if dto.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", dto.Lines[0].Quantity)
	}
	if got := env.ledger.stock[product]; got != 1 {
		t.Fatalf("expected stock 1 after delta reserve, got %d", got)
	}
}

func TestSetQuantityIncreaseBeyondStock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := env.svc.SetQuantity(ctx, userID, product, 7)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	dto, err := env.svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if dto.Lines[0].Quantity != 3 {
		t.Fatalf("failed increase must keep quantity 3, got %d", dto.Lines[0].Quantity)
	}
	if got := env.ledger.stock[product]; got != 2 {
		t.Fatalf("failed increase must keep stock 2, got %d", got)
	}
}

func TestSetQuantityDecreaseReleasesDelta(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 4}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	dto, err := env.svc.SetQuantity(ctx, userID, product, 1)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if dto.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", dto.Lines[0].Quantity)
	}
	if got := env.ledger.stock[product]; got != 4 {
		t.Fatalf("expected stock 4 after delta release, got %d", got)
	}
}

func TestSetQuantityZeroRemovesLineAndRestoresStock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	dto, err := env.svc.SetQuantity(ctx, userID, product, 0)
	if err != nil {
		t.Fatalf("set quantity zero: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", dto.Lines)
	}
	if got := env.ledger.stock[product]; got != 5 {
		t.Fatalf("expected full stock restored, got %d", got)
	}
}

func TestSetQuantityEqualIsNoOp(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	reservesBefore := env.ledger.reserveCalls

	dto, err := env.svc.SetQuantity(ctx, userID, product, 2)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if dto.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", dto.Lines[0].Quantity)
	}
	if env.ledger.reserveCalls != reservesBefore {
		t.Fatal("equal quantity must not touch the ledger")
	}
	if got := env.ledger.stock[product]; got != 3 {
		t.Fatalf("expected stock unchanged at 3, got %d", got)
	}
}

func TestSetQuantityRequiresExistingCartAndLine(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	userID := uuid.New()
	ctx := context.Background()

	// No cart yet.
	_, err := env.svc.SetQuantity(ctx, userID, product, 2)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected cart not found, got %v", err)
	}

	// Cart exists but line does not.
	if _, err := env.svc.GetCart(ctx, userID); err != nil {
		t.Fatalf("get cart: %v", err)
	}
	_, err = env.svc.SetQuantity(ctx, userID, product, 2)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected line not found, got %v", err)
	}
}

func TestRemoveItemRestoresStock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	product := env.seedProduct(5)
	other := env.seedProduct(2)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: product, Quantity: 3}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.svc.AddItem(ctx, userID, AddItemInput{ProductID: other, Quantity: 1}); err != nil {
		t.Fatalf("add other: %v", err)
	}

	dto, err := env.svc.RemoveItem(ctx, userID, product)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(dto.Lines) != 1 || dto.Lines[0].ProductID != other {
		t.Fatalf("expected only other line to survive, got %+v", dto.Lines)
	}
	if got := env.ledger.stock[product]; got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	_, err = env.svc.RemoveItem(ctx, userID, product)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for repeat remove, got %v", err)
	}
}

func TestGetCartCreatesLazily(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()

	dto, err := env.svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if dto.UserID != userID || len(dto.Lines) != 0 {
		t.Fatalf("expected fresh empty cart, got %+v", dto)
	}

	again, err := env.svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != dto.ID {
		t.Fatal("expected the same cart on repeat access")
	}
}

type testEnv struct {
	svc    Service
	repo   *stubRepo
	ledger *stubLedger
	prods  *stubProducts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newStubRepo()
	ledger := &stubLedger{stock: map[uuid.UUID]int{}}
	prods := &stubProducts{products: map[uuid.UUID]*models.Product{}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, ledger, prods, logg, metrics.NewCartMetrics(nil))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{svc: svc, repo: repo, ledger: ledger, prods: prods}
}

func (e *testEnv) seedProduct(stock int) uuid.UUID {
	id := uuid.New()
	e.prods.products[id] = &models.Product{
		ID:         id,
		SKU:        "SKU-" + id.String()[:8],
		Name:       "widget",
		Category:   "hardware",
		PriceCents: 1299,
		IsActive:   true,
	}
	e.ledger.stock[id] = stock
	return id
}

type stubLedger struct {
	stock        map[uuid.UUID]int
	failRelease  bool
	reserveCalls int
}

func (l *stubLedger) Reserve(_ context.Context, productID uuid.UUID, qty int) error {
	l.reserveCalls++
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if l.stock[productID] < qty {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock")
	}
	l.stock[productID] -= qty
	return nil
}

func (l *stubLedger) Release(_ context.Context, productID uuid.UUID, qty int) error {
	if l.failRelease {
		return pkgerrors.New(pkgerrors.CodeDependency, "release failed")
	}
	l.stock[productID] += qty
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (p *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := p.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

type lineKey struct {
	cartID    uuid.UUID
	productID uuid.UUID
}

type stubRepo struct {
	carts      map[uuid.UUID]*models.Cart
	lines      map[lineKey]*models.CartLine
	order      []lineKey
	failUpsert bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		carts: map[uuid.UUID]*models.Cart{},
		lines: map[lineKey]*models.CartLine{},
	}
}

func (r *stubRepo) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if cart, err := r.FindByUser(ctx, userID); err == nil {
		return cart, nil
	}
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	r.carts[userID] = cart
	return r.FindByUser(ctx, userID)
}

func (r *stubRepo) FindByUser(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	copied := *cart
	copied.Lines = nil
	for _, key := range r.order {
		if key.cartID != cart.ID {
			continue
		}
		if line, live := r.lines[key]; live {
			copied.Lines = append(copied.Lines, *line)
		}
	}
	return &copied, nil
}

func (r *stubRepo) FindLine(_ context.Context, cartID, productID uuid.UUID) (*models.CartLine, error) {
	line, ok := r.lines[lineKey{cartID, productID}]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
	}
	copied := *line
	return &copied, nil
}

func (r *stubRepo) UpsertLine(_ context.Context, cartID, productID uuid.UUID, quantity int) error {
	if r.failUpsert {
		return pkgerrors.New(pkgerrors.CodeDependency, "cart write failed")
	}
	key := lineKey{cartID, productID}
	if line, ok := r.lines[key]; ok {
		line.Quantity = quantity
		return nil
	}
	r.lines[key] = &models.CartLine{ID: uuid.New(), CartID: cartID, ProductID: productID, Quantity: quantity}
	r.order = append(r.order, key)
	return nil
}

func (r *stubRepo) RemoveLine(_ context.Context, cartID, productID uuid.UUID) error {
	key := lineKey{cartID, productID}
	if _, ok := r.lines[key]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
	}
	delete(r.lines, key)
	return nil
}
