package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/pricing"
	"printstore/internal/repository"
)

// CartLine is a cart item priced with the current variant price.
type CartLine struct {
	domain.CartItem
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartView struct {
	ID       string          `json:"id"`
	UserID   string          `json:"userId"`
	Items    []CartLine      `json:"items"`
	SubTotal decimal.Decimal `json:"subTotal"`
}

func priceCartLine(item domain.CartItem) CartLine {
	line := CartLine{CartItem: item, UnitPrice: decimal.Zero, LineTotal: decimal.Zero}
	if item.Variant != nil {
		line.UnitPrice = pricing.PriceVariant(*item.Variant)
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return line
}

// CartService manages the caller's own cart. Carts are personal: admins get
// no access to other users' carts.
type CartService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewCartService(store repository.Store, logger *zap.Logger) *CartService {
	return &CartService{store: store, logger: logger}
}

// cartFor returns the user's cart, creating it on first use.
func (s *CartService) cartFor(ctx context.Context, carts repository.CartRepository, userID string) (*domain.Cart, error) {
	cart, err := carts.FindByUser(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}

	cart = &domain.Cart{ID: uuid.NewString(), UserID: userID}
	err = carts.Create(ctx, cart)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Another request created it first.
		return carts.FindByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ownedItem(ctx context.Context, tx repository.Store, actor auth.Actor, id string) (*domain.CartItem, error) {
	item, err := tx.CartItems().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	cart, err := tx.Carts().FindByID(ctx, item.CartID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.UserID != actor.Subject {
		return nil, ErrCartAccessDenied
	}
	return item, nil
}

func (s *CartService) GetCart(ctx context.Context, actor auth.Actor) (*CartView, error) {
	cart, err := s.cartFor(ctx, s.store.Carts(), actor.Subject)
	if err != nil {
		return nil, err
	}
	items, err := s.store.CartItems().ListByCart(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &CartView{ID: cart.ID, UserID: cart.UserID, Items: make([]CartLine, 0, len(items)), SubTotal: decimal.Zero}
	for _, item := range items {
		line := priceCartLine(item)
		view.Items = append(view.Items, line)
		view.SubTotal = view.SubTotal.Add(line.LineTotal)
	}
	return view, nil
}

// AddItem puts a variant in the caller's cart. A variant already in the cart
// is a conflict; the client updates that line instead.
func (s *CartService) AddItem(ctx context.Context, actor auth.Actor, in AddCartItemInput) (*CartLine, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var item domain.CartItem
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := s.cartFor(ctx, tx.Carts(), actor.Subject)
		if err != nil {
			return err
		}
		variant, err := tx.Variants().FindByID(ctx, in.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrVariantNotFound
		}

		existing, err := tx.CartItems().FindByCartAndVariant(ctx, cart.ID, variant.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCartItemExists
		}

		item = domain.CartItem{
			ID:        uuid.NewString(),
			CartID:    cart.ID,
			VariantID: variant.ID,
			Quantity:  in.Quantity,
			Note:      in.Note,
		}
		if err := tx.CartItems().Create(ctx, &item); err != nil {
			return mapDuplicate(err, ErrCartItemExists)
		}
		item.Variant = variant
		return nil
	})
	if err != nil {
		return nil, err
	}

	line := priceCartLine(item)
	return &line, nil
}

func (s *CartService) UpdateItem(ctx context.Context, actor auth.Actor, id string, in UpdateCartItemInput) (*CartLine, error) {
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Note != nil {
		item.Note = in.Note
	}
	if err := s.store.CartItems().Update(ctx, item); err != nil {
		return nil, err
	}

	line := priceCartLine(*item)
	return &line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, actor auth.Actor, id string) (*domain.CartItem, error) {
	item, err := s.ownedItem(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.CartItems().Delete(ctx, id); err != nil {
		return nil, err
	}
	return item, nil
}

// ClearCart deletes the caller's cart together with its lines.
func (s *CartService) ClearCart(ctx context.Context, actor auth.Actor) error {
	cart, err := s.store.Carts().FindByUser(ctx, actor.Subject)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	if err := s.store.Carts().Delete(ctx, cart.ID); err != nil {
		return err
	}
	s.logger.Info("cart cleared", zap.String("cart_id", cart.ID), zap.String("user_id", actor.Subject))
	return nil
}
