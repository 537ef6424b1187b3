package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/pricing"
	rabbit "printstore/internal/infra/rabbitmq"
	"printstore/internal/repository"
)

type OrderService struct {
	store  repository.Store
	engine *OrderTotalEngine
	authz  auth.Authorizer
	tx     txRunner
	events eventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderService(store repository.Store, engine *OrderTotalEngine, pub rabbit.PublisherInterface, logger *zap.Logger, maxAttempts int) *OrderService {
	return &OrderService{
		store:  store,
		engine: engine,
		authz:  auth.NewAuthorizer(),
		tx:     newTxRunner(store, maxAttempts, logger),
		events: eventPublisher{publisher: pub, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// loadOwnedOrder returns the order if the actor may access it.
func loadOwnedOrder(ctx context.Context, orders repository.OrderRepository, authz auth.Authorizer, actor auth.Actor, id string) (*domain.Order, error) {
	o, err := orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !authz.CanAccessOrder(actor, o) {
		return nil, ErrOrderAccessDenied
	}
	return o, nil
}

func ensureAddress(ctx context.Context, addresses repository.AddressRepository, addressID, userID string) error {
	a, err := addresses.FindByID(ctx, addressID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrAddressNotFound
	}
	if a.UserID != userID {
		return ErrAddressNotOwned
	}
	return nil
}

func (s *OrderService) CreateOrder(ctx context.Context, actor auth.Actor, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	userID := in.UserID
	if userID == "" {
		userID = actor.Subject
	}
	if !s.authz.CanActFor(actor, userID) {
		return nil, ErrActForOtherUser
	}

	var (
		order *domain.Order
		box   outbox
	)
	err := s.tx.run(ctx, "order.create", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		if err := ensureAddress(ctx, tx.Addresses(), in.AddressID, userID); err != nil {
			return err
		}

		order = &domain.Order{
			ID:        uuid.NewString(),
			UserID:    userID,
			AddressID: in.AddressID,
			Status:    domain.StatusPending,
			Version:   1,
		}

		items := make([]domain.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			item, err := priceLine(ctx, tx.Variants(), order.ID, line)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		if err := s.engine.Apply(ctx, tx.Vouchers(), order, items, VoucherFromCode(in.VoucherCode)); err != nil {
			return err
		}

		if in.Payment != nil {
			p, err := newPayment(order.ID, *in.Payment, order.TotalAmount, now)
			if err != nil {
				return err
			}
			order.Payment = p
			advanceOnPayment(order, p.Status, &box, now)
			if p.Status == domain.PaymentPaid {
				box.add(domain.EventPaymentPaid, paymentPaidEvent(p, now))
			}
		}
		if in.Shipment != nil {
			sh, err := newShipment(order.ID, *in.Shipment, now)
			if err != nil {
				return err
			}
			order.Shipment = sh
			advanceOnShipment(order, sh.Status, &box, now)
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		box.events = append([]pendingEvent{{
			routingKey: domain.EventOrderCreated,
			payload: domain.OrderCreatedEvent{
				OrderID:     order.ID,
				UserID:      order.UserID,
				ItemCount:   len(order.Items),
				TotalAmount: order.TotalAmount,
				CreatedAt:   now,
			},
		}}, box.events...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("total_amount", order.TotalAmount.String()))
	s.events.flush(ctx, &box)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor auth.Actor, id string) (*domain.Order, error) {
	return loadOwnedOrder(ctx, s.store.Orders(), s.authz, actor, id)
}

// ListOrders returns newest first. Customers only ever see their own orders.
func (s *OrderService) ListOrders(ctx context.Context, actor auth.Actor, filter OrderListFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown order status %q", filter.Status)
	}
	return s.store.Orders().List(ctx, repository.OrderFilter{
		UserID: s.authz.ScopeUserID(actor, filter.UserID),
		Status: filter.Status,
	})
}

func (s *OrderService) UpdateOrder(ctx context.Context, actor auth.Actor, id string, in UpdateOrderInput) (*domain.Order, error) {
	if in.Items != nil && len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("unknown order status %q", *in.Status)
	}

	var (
		order *domain.Order
		box   outbox
	)
	err := s.tx.run(ctx, "order.update", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		var err error
		order, err = loadOwnedOrder(ctx, tx.Orders(), s.authz, actor, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() && in.touchesRecords() {
			return ErrOrderTerminal
		}

		if in.AddressID != nil && *in.AddressID != order.AddressID {
			if err := ensureAddress(ctx, tx.Addresses(), *in.AddressID, order.UserID); err != nil {
				return err
			}
			order.AddressID = *in.AddressID
		}

		if in.Items != nil {
			if err := s.replaceItems(ctx, tx, order.ID, in.Items); err != nil {
				return err
			}
		}

		// Totals stay frozen unless the lines or the voucher change.
		totalsChanged := false
		if in.Items != nil || !in.Voucher.IsKeep() {
			items, err := tx.OrderItems().ListByOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			before := pricing.FromOrder(*order)
			if err := s.engine.Apply(ctx, tx.Vouchers(), order, items, in.Voucher); err != nil {
				return err
			}
			totalsChanged = !before.Equal(pricing.FromOrder(*order))
		}

		if in.Status != nil {
			if err := s.changeStatus(actor, order, *in.Status, &box, now); err != nil {
				return err
			}
		}
		if in.Payment != nil {
			if err := s.upsertPayment(ctx, tx, order, *in.Payment, &box, now); err != nil {
				return err
			}
		} else if totalsChanged {
			if err := syncPaymentAmount(ctx, tx.Payments(), order); err != nil {
				return err
			}
		}
		if in.Shipment != nil {
			if err := s.upsertShipment(ctx, tx, order, *in.Shipment, &box, now); err != nil {
				return err
			}
		}

		if err := tx.Orders().Save(ctx, order); err != nil {
			return err
		}
		if totalsChanged {
			box.totalsRecomputed(order, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return order, nil
}

func (s *OrderService) replaceItems(ctx context.Context, tx repository.Store, orderID string, lines []ItemInput) error {
	if err := tx.OrderItems().DeleteByOrder(ctx, orderID); err != nil {
		return err
	}
	for _, line := range lines {
		item, err := priceLine(ctx, tx.Variants(), orderID, line)
		if err != nil {
			return err
		}
		if err := tx.OrderItems().Create(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}

// changeStatus applies a manual status change. Customers may only cancel.
func (s *OrderService) changeStatus(actor auth.Actor, order *domain.Order, to domain.OrderStatus, box *outbox, now time.Time) error {
	if to == order.Status {
		return nil
	}
	if !actor.IsAdmin() && to != domain.StatusCancelled {
		return ErrCustomerCancelOnly
	}
	if !domain.CanTransition(order.Status, to) {
		return ErrIllegalTransition
	}
	box.statusChanged(order.ID, order.Status, to, "manual", now)
	order.Status = to
	return nil
}

func (s *OrderService) upsertPayment(ctx context.Context, tx repository.Store, order *domain.Order, in PaymentInput, box *outbox, now time.Time) error {
	p := order.Payment
	wasPaid := p != nil && p.Status == domain.PaymentPaid
	if p == nil {
		if in.Method == nil {
			method := domain.MethodCreditCard
			in.Method = &method
		}
		created, err := newPayment(order.ID, in, order.TotalAmount, now)
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, created); err != nil {
			return mapDuplicate(err, ErrPaymentExists)
		}
		p = created
	} else {
		if err := patchPayment(p, in, now); err != nil {
			return err
		}
		if in.Amount == nil && !wasPaid {
			p.Amount = order.TotalAmount
		}
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
	}
	order.Payment = p
	advanceOnPayment(order, p.Status, box, now)
	if p.Status == domain.PaymentPaid && !wasPaid {
		box.add(domain.EventPaymentPaid, paymentPaidEvent(p, now))
	}
	return nil
}

func (s *OrderService) upsertShipment(ctx context.Context, tx repository.Store, order *domain.Order, in ShipmentInput, box *outbox, now time.Time) error {
	sh := order.Shipment
	if sh == nil {
		created, err := newShipment(order.ID, in, now)
		if err != nil {
			return err
		}
		if err := tx.Shipments().Create(ctx, created); err != nil {
			return mapDuplicate(err, ErrShipmentExists)
		}
		sh = created
	} else {
		if err := patchShipment(sh, in, now); err != nil {
			return err
		}
		if err := tx.Shipments().Update(ctx, sh); err != nil {
			return err
		}
	}
	order.Shipment = sh
	advanceOnShipment(order, sh.Status, box, now)
	return nil
}

// DeleteOrder soft-deletes the order. Its lines and sub-records are kept.
func (s *OrderService) DeleteOrder(ctx context.Context, actor auth.Actor, id string) (*domain.Order, error) {
	order, err := loadOwnedOrder(ctx, s.store.Orders(), s.authz, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Orders().Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("order deleted",
		zap.String("order_id", id),
		zap.String("actor", actor.Subject),
		zap.String("status", string(order.Status)))
	return order, nil
}
