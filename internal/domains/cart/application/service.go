package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

// Service owns the canonical in-memory cart for one session. Every mutation is
// validated against the inventory, persisted as a full snapshot, and only then
// published as the visible cart.
type Service struct {
	mu        sync.Mutex
	cart      domain.Cart
	inventory ports.InventoryClient
	storage   ports.CartStorage
	notifier  ports.Notifier
}

type Option func(*Service)

// WithNotifier sets the sink that receives failure messages.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// Open builds the service and restores the cart from storage. A missing snapshot
// yields an empty cart; any other load failure is returned.
func Open(ctx context.Context, inventory ports.InventoryClient, storage ports.CartStorage, opts ...Option) (*Service, error) {
	if inventory == nil {
		return nil, errors.New("inventory client is nil")
	}
	if storage == nil {
		return nil, errors.New("cart storage is nil")
	}
	s := &Service{
		inventory: inventory,
		storage:   storage,
		notifier:  ports.NoopNotifier,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	cart, err := storage.Load(ctx)
	switch {
	case errors.Is(err, ports.ErrSnapshotNotFound):
		cart = domain.Cart{}
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := cart.Validate(); err != nil {
		return nil, fmt.Errorf("load cart: %w: %w", domain.ErrCorruptSnapshot, err)
	}
	s.cart = cart.Clone()
	return s, nil
}

// GetCart returns a copy of the visible cart.
func (s *Service) GetCart(_ context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Service) Summary(_ context.Context) domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

func (s *Service) AddProduct(ctx context.Context, id domain.ProductID) ports.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settle(ctx, s.addProduct(ctx, id))
}

func (s *Service) RemoveProduct(ctx context.Context, id domain.ProductID) ports.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settle(ctx, s.removeProduct(ctx, id))
}

func (s *Service) UpdateProductAmount(ctx context.Context, input ports.UpdateProductAmount) ports.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settle(ctx, s.updateProductAmount(ctx, input))
}

func (s *Service) addProduct(ctx context.Context, id domain.ProductID) ports.Outcome {
	current := s.cart.Amount(id)
	stock, err := s.inventory.GetStock(ctx, id)
	if err != nil {
		return s.unexpected(MsgAddFailed, fmt.Errorf("get stock: %w", err))
	}
	if stock.ProductID != id {
		return s.unexpected(MsgAddFailed, mismatchError("stock", id, stock.ProductID))
	}
	candidate := current + 1
	if !stock.Allows(candidate) {
		return s.rejected(ports.OutcomeStockExceeded, MsgStockExceeded)
	}

	var next domain.Cart
	if current > 0 {
		next, err = s.cart.WithAmount(id, candidate)
	} else {
		product, lookupErr := s.inventory.GetProduct(ctx, id)
		if lookupErr != nil {
			return s.unexpected(MsgAddFailed, fmt.Errorf("get product: %w", lookupErr))
		}
		if product == nil {
			return s.rejected(ports.OutcomeProductUnavailable, MsgProductUnavailable)
		}
		if product.ID != id {
			return s.unexpected(MsgAddFailed, mismatchError("product", id, product.ID))
		}
		next, err = s.cart.Append(*product)
	}
	if err != nil {
		return s.unexpected(MsgAddFailed, err)
	}
	return s.commit(ctx, next, MsgAddFailed)
}

func (s *Service) removeProduct(ctx context.Context, id domain.ProductID) ports.Outcome {
	next, err := s.cart.Without(id)
	if errors.Is(err, domain.ErrNotInCart) {
		// Reported with the generic removal message, not MsgNotInCart.
		return ports.Outcome{Kind: ports.OutcomeNotInCart, Cart: s.cart.Clone(), Message: MsgRemoveFailed, Err: err}
	}
	if err != nil {
		return s.unexpected(MsgRemoveFailed, err)
	}
	return s.commit(ctx, next, MsgRemoveFailed)
}

func (s *Service) updateProductAmount(ctx context.Context, input ports.UpdateProductAmount) ports.Outcome {
	if input.Amount <= 0 {
		return ports.Outcome{Kind: ports.OutcomeIgnored, Cart: s.cart.Clone()}
	}
	stock, err := s.inventory.GetStock(ctx, input.ProductID)
	if err != nil {
		return s.unexpected(MsgUpdateFailed, fmt.Errorf("get stock: %w", err))
	}
	if stock.ProductID != input.ProductID {
		return s.unexpected(MsgUpdateFailed, mismatchError("stock", input.ProductID, stock.ProductID))
	}
	if !stock.Allows(input.Amount) {
		return s.rejected(ports.OutcomeStockExceeded, MsgStockExceeded)
	}
	if s.cart.Index(input.ProductID) < 0 {
		return s.rejected(ports.OutcomeNotInCart, MsgNotInCart)
	}
	next, err := s.cart.WithAmount(input.ProductID, input.Amount)
	if err != nil {
		return s.unexpected(MsgUpdateFailed, err)
	}
	return s.commit(ctx, next, MsgUpdateFailed)
}

// commit persists next and publishes it only after the save succeeded.
func (s *Service) commit(ctx context.Context, next domain.Cart, failure string) ports.Outcome {
	if err := s.storage.Save(ctx, next); err != nil {
		return s.unexpected(failure, fmt.Errorf("save cart: %w", err))
	}
	s.cart = next
	return ports.Outcome{Kind: ports.OutcomeApplied, Cart: next.Clone()}
}

func (s *Service) rejected(kind ports.OutcomeKind, msg string) ports.Outcome {
	return ports.Outcome{Kind: kind, Cart: s.cart.Clone(), Message: msg}
}

func (s *Service) unexpected(msg string, err error) ports.Outcome {
	return ports.Outcome{Kind: ports.OutcomeUnexpected, Cart: s.cart.Clone(), Message: msg, Err: err}
}

// settle emits the single notification owed by a failed operation.
func (s *Service) settle(ctx context.Context, outcome ports.Outcome) ports.Outcome {
	if outcome.Failed() {
		s.notifier.Notify(ctx, outcome.Message)
	}
	return outcome
}

var _ ports.Service = (*Service)(nil)
