package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	rabbit "printstore/internal/infra/rabbitmq"
	"printstore/internal/repository"
)

// OrderItemsService mutates single order lines. Every mutation recomputes
// the order totals in the same transaction.
type OrderItemsService struct {
	store  repository.Store
	engine *OrderTotalEngine
	authz  auth.Authorizer
	tx     txRunner
	events eventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderItemsService(store repository.Store, engine *OrderTotalEngine, pub rabbit.PublisherInterface, logger *zap.Logger, maxAttempts int) *OrderItemsService {
	return &OrderItemsService{
		store:  store,
		engine: engine,
		authz:  auth.NewAuthorizer(),
		tx:     newTxRunner(store, maxAttempts, logger),
		events: eventPublisher{publisher: pub, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

func (s *OrderItemsService) mutableOrder(ctx context.Context, tx repository.Store, actor auth.Actor, orderID string) (*domain.Order, error) {
	order, err := loadOwnedOrder(ctx, tx.Orders(), s.authz, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, ErrOrderTerminal
	}
	return order, nil
}

func (s *OrderItemsService) loadItem(ctx context.Context, items repository.OrderItemRepository, id string) (*domain.OrderItem, error) {
	item, err := items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrOrderItemNotFound
	}
	return item, nil
}

func (s *OrderItemsService) CreateItem(ctx context.Context, actor auth.Actor, in CreateOrderItemInput) (*domain.OrderItem, error) {
	var (
		item domain.OrderItem
		box  outbox
	)
	err := s.tx.run(ctx, "order_item.create", func(tx repository.Store) error {
		box.reset()
		order, err := s.mutableOrder(ctx, tx, actor, in.OrderID)
		if err != nil {
			return err
		}

		item, err = priceLine(ctx, tx.Variants(), order.ID, ItemInput{VariantID: in.VariantID, Quantity: in.Quantity})
		if err != nil {
			return err
		}
		if err := tx.OrderItems().Create(ctx, &item); err != nil {
			return err
		}

		if err := s.engine.Recompute(ctx, tx, order, KeepVoucher()); err != nil {
			return err
		}
		box.totalsRecomputed(order, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return &item, nil
}

func (s *OrderItemsService) GetItem(ctx context.Context, actor auth.Actor, id string) (*domain.OrderItem, error) {
	item, err := s.loadItem(ctx, s.store.OrderItems(), id)
	if err != nil {
		return nil, err
	}
	if _, err := loadOwnedOrder(ctx, s.store.Orders(), s.authz, actor, item.OrderID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderItemsService) ListByOrder(ctx context.Context, actor auth.Actor, orderID string) ([]domain.OrderItem, error) {
	if _, err := loadOwnedOrder(ctx, s.store.Orders(), s.authz, actor, orderID); err != nil {
		return nil, err
	}
	return s.store.OrderItems().ListByOrder(ctx, orderID)
}

// UpdateItem changes the variant or quantity of a line. Switching variant
// snapshots the new variant's price; a quantity change keeps the original
// price.
func (s *OrderItemsService) UpdateItem(ctx context.Context, actor auth.Actor, id string, in UpdateOrderItemInput) (*domain.OrderItem, error) {
	var (
		item *domain.OrderItem
		box  outbox
	)
	err := s.tx.run(ctx, "order_item.update", func(tx repository.Store) error {
		box.reset()
		var err error
		item, err = s.loadItem(ctx, tx.OrderItems(), id)
		if err != nil {
			return err
		}
		order, err := s.mutableOrder(ctx, tx, actor, item.OrderID)
		if err != nil {
			return err
		}

		quantity := item.Quantity
		if in.Quantity != nil {
			quantity = *in.Quantity
		}
		if quantity < 1 {
			return ErrInvalidQuantity
		}

		if in.VariantID != nil && *in.VariantID != item.VariantID {
			repriced, err := priceLine(ctx, tx.Variants(), item.OrderID, ItemInput{VariantID: *in.VariantID, Quantity: quantity})
			if err != nil {
				return err
			}
			item.VariantID = repriced.VariantID
			item.Price = repriced.Price
		} else if _, err := loadVariant(ctx, tx.Variants(), item.VariantID, quantity); err != nil {
			return err
		}
		item.Quantity = quantity

		if err := tx.OrderItems().Update(ctx, item); err != nil {
			return err
		}
		if err := s.engine.Recompute(ctx, tx, order, KeepVoucher()); err != nil {
			return err
		}
		box.totalsRecomputed(order, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return item, nil
}

func (s *OrderItemsService) DeleteItem(ctx context.Context, actor auth.Actor, id string) (*domain.OrderItem, error) {
	var (
		item *domain.OrderItem
		box  outbox
	)
	err := s.tx.run(ctx, "order_item.delete", func(tx repository.Store) error {
		box.reset()
		var err error
		item, err = s.loadItem(ctx, tx.OrderItems(), id)
		if err != nil {
			return err
		}
		order, err := s.mutableOrder(ctx, tx, actor, item.OrderID)
		if err != nil {
			return err
		}
		if err := tx.OrderItems().Delete(ctx, id); err != nil {
			return err
		}
		if err := s.engine.Recompute(ctx, tx, order, KeepVoucher()); err != nil {
			return err
		}
		box.totalsRecomputed(order, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return item, nil
}
