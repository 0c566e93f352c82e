package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-cart-store/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

type countingInventory struct {
	*memory.Inventory
	stockCalls   int
	productCalls int
	stockErr     error
	productErr   error
}

func (c *countingInventory) GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error) {
	c.stockCalls++
	if c.stockErr != nil {
		return domain.StockInfo{}, c.stockErr
	}
	return c.Inventory.GetStock(ctx, id)
}

func (c *countingInventory) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	c.productCalls++
	if c.productErr != nil {
		return nil, c.productErr
	}
	return c.Inventory.GetProduct(ctx, id)
}

type flakyStorage struct {
	*memory.Storage
	saveErr error
	loadErr error
	saves   int
}

func (f *flakyStorage) Load(ctx context.Context) (domain.Cart, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Storage.Load(ctx)
}

func (f *flakyStorage) Save(ctx context.Context, cart domain.Cart) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Storage.Save(ctx, cart)
}

type harness struct {
	svc       *Service
	inventory *countingInventory
	storage   *flakyStorage
	notifier  *memory.Notifier
}

func newHarness(t *testing.T, seed domain.Cart) *harness {
	t.Helper()
	inv := &countingInventory{Inventory: memory.NewInventory()}
	store := &flakyStorage{Storage: memory.NewStorage("")}
	if seed != nil {
		require.NoError(t, store.Storage.Save(context.Background(), seed))
	}
	notifier := memory.NewNotifier()
	svc, err := Open(context.Background(), inv, store, WithNotifier(notifier))
	require.NoError(t, err)
	return &harness{svc: svc, inventory: inv, storage: store, notifier: notifier}
}

func product(id domain.ProductID, title string) domain.Product {
	return domain.Product{ID: id, Title: title, Price: decimal.RequireFromString("99.90"), Image: "https://cdn.example/p.jpg"}
}

func requirePersisted(t *testing.T, h *harness) {
	t.Helper()
	persisted, err := h.storage.Storage.Load(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(h.svc.GetCart(context.Background()), persisted); diff != "" {
		t.Fatalf("persisted snapshot differs from visible cart (-visible +persisted):\n%s", diff)
	}
}

func TestOpen_EmptyWhenNothingPersisted(t *testing.T) {
	h := newHarness(t, nil)
	require.Empty(t, h.svc.GetCart(context.Background()))
	require.NotNil(t, h.svc.GetCart(context.Background()))
}

func TestOpen_RestoresPersistedCart(t *testing.T) {
	seed := domain.Cart{{Product: product(7, "Shoe"), Amount: 2}}
	h := newHarness(t, seed)
	if diff := cmp.Diff(seed, h.svc.GetCart(context.Background())); diff != "" {
		t.Fatalf("restored cart mismatch:\n%s", diff)
	}
}

func TestOpen_FailsOnStorageError(t *testing.T) {
	store := &flakyStorage{Storage: memory.NewStorage(""), loadErr: errors.New("disk on fire")}
	_, err := Open(context.Background(), memory.NewInventory(), store)
	require.Error(t, err)
}

func TestAddProduct_NewLineAppendedWithAmountOne(t *testing.T) {
	h := newHarness(t, nil)
	h.inventory.SetStock(7, 3)
	h.inventory.PutProduct(domain.Product{ID: 7, Title: "Shoe"})

	outcome := h.svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeApplied, outcome.Kind)
	require.Empty(t, outcome.Message)
	cart := h.svc.GetCart(context.Background())
	require.Len(t, cart, 1)
	require.Equal(t, domain.ProductID(7), cart[0].ID)
	require.Equal(t, "Shoe", cart[0].Title)
	require.Equal(t, 1, cart[0].Amount)
	require.Empty(t, h.notifier.Messages())
	requirePersisted(t, h)
}

func TestAddProduct_ExistingLineIncrementsInPlace(t *testing.T) {
	h := newHarness(t, domain.Cart{
		{Product: product(7, "Shoe"), Amount: 1},
		{Product: product(8, "Boot"), Amount: 1},
	})
	h.inventory.SetStock(7, 3)

	outcome := h.svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeApplied, outcome.Kind)
	cart := h.svc.GetCart(context.Background())
	require.Len(t, cart, 2)
	require.Equal(t, domain.ProductID(7), cart[0].ID)
	require.Equal(t, 2, cart[0].Amount)
	require.Zero(t, h.inventory.productCalls, "metadata is only fetched for new lines")
	requirePersisted(t, h)
}

func TestAddProduct_StockExceeded(t *testing.T) {
	seed := domain.Cart{{Product: product(7, "Shoe"), Amount: 3}}
	h := newHarness(t, seed)
	h.inventory.SetStock(7, 3)

	outcome := h.svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeStockExceeded, outcome.Kind)
	require.Equal(t, []string{MsgStockExceeded}, h.notifier.Messages())
	require.Zero(t, h.storage.saves)
	require.Equal(t, 3, h.svc.GetCart(context.Background())[0].Amount)
}

func TestAddProduct_NoStockForNewProduct(t *testing.T) {
	h := newHarness(t, nil)
	h.inventory.SetStock(7, 0)
	h.inventory.PutProduct(product(7, "Shoe"))

	outcome := h.svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeStockExceeded, outcome.Kind)
	require.Zero(t, h.inventory.productCalls)
	require.Empty(t, h.svc.GetCart(context.Background()))
}

func TestAddProduct_ProductNoLongerExists(t *testing.T) {
	h := newHarness(t, nil)
	h.inventory.SetStock(7, 3)

	outcome := h.svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeProductUnavailable, outcome.Kind)
	require.Equal(t, []string{MsgProductUnavailable}, h.notifier.Messages())
	require.Empty(t, h.svc.GetCart(context.Background()))
	require.Zero(t, h.storage.saves)
}

func TestAddProduct_InventoryFailuresAreSanitized(t *testing.T) {
	cases := map[string]func(h *harness){
		"stock lookup":   func(h *harness) { h.inventory.stockErr = errors.New("connection refused") },
		"product lookup": func(h *harness) { h.inventory.productErr = errors.New("502 bad gateway") },
		"unknown stock":  func(h *harness) { h.inventory.Inventory = memory.NewInventory() },
	}
	for name, breakIt := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.inventory.SetStock(7, 3)
			breakIt(h)

			outcome := h.svc.AddProduct(context.Background(), 7)

			require.Equal(t, ports.OutcomeUnexpected, outcome.Kind)
			require.Error(t, outcome.Err)
			require.Equal(t, []string{MsgAddFailed}, h.notifier.Messages())
			require.Empty(t, h.svc.GetCart(context.Background()))
		})
	}
}

func TestAddProduct_MismatchedProductIsUnexpected(t *testing.T) {
	h := newHarness(t, nil)
	h.inventory.SetStock(7, 3)
	h.inventory.PutProduct(product(7, "Shoe"))
	wrong := &mismatchInventory{countingInventory: h.inventory}
	svc, err := Open(context.Background(), wrong, h.storage, WithNotifier(h.notifier))
	require.NoError(t, err)

	outcome := svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeUnexpected, outcome.Kind)
	require.ErrorIs(t, outcome.Err, ErrMalformedInventory)
	require.Equal(t, []string{MsgAddFailed}, h.notifier.Messages())
}

type mismatchInventory struct {
	*countingInventory
}

func (m *mismatchInventory) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	p, err := m.countingInventory.GetProduct(ctx, id)
	if p != nil {
		p.ID = id + 1
	}
	return p, err
}

func TestAddProduct_SaveFailureKeepsVisibleCart(t *testing.T) {
	seed := domain.Cart{{Product: product(7, "Shoe"), Amount: 1}}
	h := newHarness(t, seed)
	h.inventory.SetStock(7, 5)
	h.storage.saveErr = errors.New("quota exceeded")

	outcome := h.svc.AddProduct(context.Background(), 7)

	require.Equal(t, ports.OutcomeUnexpected, outcome.Kind)
	require.Equal(t, []string{MsgAddFailed}, h.notifier.Messages())
	require.Equal(t, 1, h.svc.GetCart(context.Background())[0].Amount)
	require.Equal(t, 1, outcome.Cart[0].Amount)
}

func TestRemoveProduct_DeletesLineAndPersists(t *testing.T) {
	h := newHarness(t, domain.Cart{
		{Product: product(1, "a"), Amount: 1},
		{Product: product(2, "b"), Amount: 2},
		{Product: product(3, "c"), Amount: 3},
	})

	outcome := h.svc.RemoveProduct(context.Background(), 2)

	require.Equal(t, ports.OutcomeApplied, outcome.Kind)
	cart := h.svc.GetCart(context.Background())
	require.Len(t, cart, 2)
	require.Equal(t, domain.ProductID(1), cart[0].ID)
	require.Equal(t, domain.ProductID(3), cart[1].ID)
	require.Empty(t, h.notifier.Messages())
	requirePersisted(t, h)
}

func TestRemoveProduct_AbsentUsesGenericMessage(t *testing.T) {
	h := newHarness(t, domain.Cart{{Product: product(1, "a"), Amount: 1}})

	outcome := h.svc.RemoveProduct(context.Background(), 9)

	require.Equal(t, ports.OutcomeNotInCart, outcome.Kind)
	require.Equal(t, []string{MsgRemoveFailed}, h.notifier.Messages())
	require.Len(t, h.svc.GetCart(context.Background()), 1)
	require.Zero(t, h.storage.saves)
}

func TestRemoveProduct_SaveFailure(t *testing.T) {
	h := newHarness(t, domain.Cart{{Product: product(1, "a"), Amount: 1}})
	h.storage.saveErr = errors.New("read-only")

	outcome := h.svc.RemoveProduct(context.Background(), 1)

	require.Equal(t, ports.OutcomeUnexpected, outcome.Kind)
	require.Equal(t, []string{MsgRemoveFailed}, h.notifier.Messages())
	require.Len(t, h.svc.GetCart(context.Background()), 1)
}

func TestRemoveThenAdd_PlacesProductAtEnd(t *testing.T) {
	h := newHarness(t, domain.Cart{
		{Product: product(1, "a"), Amount: 2},
		{Product: product(2, "b"), Amount: 1},
	})
	h.inventory.SetStock(1, 5)
	h.inventory.PutProduct(product(1, "a"))

	require.Equal(t, ports.OutcomeApplied, h.svc.RemoveProduct(context.Background(), 1).Kind)
	require.Equal(t, ports.OutcomeApplied, h.svc.AddProduct(context.Background(), 1).Kind)

	cart := h.svc.GetCart(context.Background())
	require.Equal(t, domain.ProductID(2), cart[0].ID)
	require.Equal(t, domain.ProductID(1), cart[1].ID)
	require.Equal(t, 1, cart[1].Amount)
}

func TestUpdateProductAmount_NonPositiveIsIgnored(t *testing.T) {
	for _, amount := range []int{0, -1, -50} {
		h := newHarness(t, domain.Cart{{Product: product(7, "Shoe"), Amount: 2}})

		outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 7, Amount: amount})

		require.Equal(t, ports.OutcomeIgnored, outcome.Kind)
		require.False(t, outcome.Failed())
		require.Empty(t, h.notifier.Messages())
		require.Zero(t, h.inventory.stockCalls)
		require.Zero(t, h.storage.saves)
		require.Equal(t, 2, h.svc.GetCart(context.Background())[0].Amount)
	}
}

func TestUpdateProductAmount_SetsAmount(t *testing.T) {
	h := newHarness(t, domain.Cart{
		{Product: product(7, "Shoe"), Amount: 1},
		{Product: product(8, "Boot"), Amount: 1},
	})
	h.inventory.SetStock(7, 5)

	outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 7, Amount: 5})

	require.Equal(t, ports.OutcomeApplied, outcome.Kind)
	cart := h.svc.GetCart(context.Background())
	require.Equal(t, 5, cart[0].Amount)
	require.Equal(t, "Shoe", cart[0].Title)
	require.Equal(t, domain.ProductID(8), cart[1].ID)
	requirePersisted(t, h)
}

func TestUpdateProductAmount_AboveStock(t *testing.T) {
	h := newHarness(t, domain.Cart{{Product: product(7, "Shoe"), Amount: 1}})
	h.inventory.SetStock(7, 3)

	outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 7, Amount: 4})

	require.Equal(t, ports.OutcomeStockExceeded, outcome.Kind)
	require.Equal(t, []string{MsgStockExceeded}, h.notifier.Messages())
	require.Equal(t, 1, h.svc.GetCart(context.Background())[0].Amount)
}

func TestUpdateProductAmount_NotInCart(t *testing.T) {
	h := newHarness(t, nil)
	h.inventory.SetStock(7, 3)

	outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 7, Amount: 2})

	require.Equal(t, ports.OutcomeNotInCart, outcome.Kind)
	require.Equal(t, []string{MsgNotInCart}, h.notifier.Messages())
	require.Empty(t, h.svc.GetCart(context.Background()))
}

func TestUpdateProductAmount_StockCheckedBeforeMembership(t *testing.T) {
	h := newHarness(t, nil)
	h.inventory.SetStock(7, 1)

	outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 7, Amount: 2})

	require.Equal(t, ports.OutcomeStockExceeded, outcome.Kind)
}

func TestUpdateProductAmount_StockErrorIsSanitized(t *testing.T) {
	h := newHarness(t, domain.Cart{{Product: product(7, "Shoe"), Amount: 1}})
	h.inventory.stockErr = errors.New("timeout")

	outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 7, Amount: 2})

	require.Equal(t, ports.OutcomeUnexpected, outcome.Kind)
	require.Equal(t, MsgUpdateFailed, outcome.Message)
	require.NotContains(t, outcome.Message, "timeout")
	require.Equal(t, []string{MsgUpdateFailed}, h.notifier.Messages())
}

func TestGetCart_ReturnsCopy(t *testing.T) {
	h := newHarness(t, domain.Cart{{Product: product(7, "Shoe"), Amount: 1}})

	cart := h.svc.GetCart(context.Background())
	cart[0].Amount = 99

	require.Equal(t, 1, h.svc.GetCart(context.Background())[0].Amount)
}

func TestSummary_ReflectsVisibleCart(t *testing.T) {
	h := newHarness(t, domain.Cart{
		{Product: product(1, "a"), Amount: 2},
		{Product: product(2, "b"), Amount: 1},
	})

	summary := h.svc.Summary(context.Background())
	require.Equal(t, 2, summary.Lines)
	require.Equal(t, 3, summary.Units)
	require.True(t, decimal.RequireFromString("299.70").Equal(summary.Subtotal))
}

func TestOperations_AmountsStayWithinBounds(t *testing.T) {
	h := newHarness(t, nil)
	for id := domain.ProductID(1); id <= 3; id++ {
		h.inventory.SetStock(id, int(id))
		h.inventory.PutProduct(product(id, "p"))
	}
	ctx := context.Background()
	steps := []func(){
		func() { h.svc.AddProduct(ctx, 1) },
		func() { h.svc.AddProduct(ctx, 1) },
		func() { h.svc.AddProduct(ctx, 2) },
		func() { h.svc.UpdateProductAmount(ctx, ports.UpdateProductAmount{ProductID: 2, Amount: 9}) },
		func() { h.svc.UpdateProductAmount(ctx, ports.UpdateProductAmount{ProductID: 2, Amount: 2}) },
		func() { h.svc.AddProduct(ctx, 3) },
		func() { h.svc.UpdateProductAmount(ctx, ports.UpdateProductAmount{ProductID: 3, Amount: -1}) },
		func() { h.svc.RemoveProduct(ctx, 1) },
		func() { h.svc.AddProduct(ctx, 2) },
		func() { h.svc.AddProduct(ctx, 3) },
		func() { h.svc.AddProduct(ctx, 3) },
		func() { h.svc.AddProduct(ctx, 3) },
		func() { h.svc.AddProduct(ctx, 3) },
	}
	for _, step := range steps {
		step()
		for _, line := range h.svc.GetCart(ctx) {
			require.GreaterOrEqual(t, line.Amount, 1)
			require.LessOrEqual(t, line.Amount, int(line.ID))
		}
		requirePersisted(t, h)
	}
}
