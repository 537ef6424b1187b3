package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	rabbit "printstore/internal/infra/rabbitmq"
	"printstore/internal/repository"
)

type ShipmentService struct {
	store  repository.Store
	authz  auth.Authorizer
	tx     txRunner
	events eventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewShipmentService(store repository.Store, pub rabbit.PublisherInterface, logger *zap.Logger, maxAttempts int) *ShipmentService {
	return &ShipmentService{
		store:  store,
		authz:  auth.NewAuthorizer(),
		tx:     newTxRunner(store, maxAttempts, logger),
		events: eventPublisher{publisher: pub, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

func (s *ShipmentService) ownedShipment(ctx context.Context, tx repository.Store, actor auth.Actor, id string) (*domain.Shipment, *domain.Order, error) {
	sh, err := tx.Shipments().FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sh == nil {
		return nil, nil, ErrShipmentNotFound
	}
	order, err := loadOwnedOrder(ctx, tx.Orders(), s.authz, actor, sh.OrderID)
	if errors.Is(err, ErrOrderNotFound) {
		return nil, nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return sh, order, nil
}

// settle moves the order along the shipment status and persists it when it
// changed.
func (s *ShipmentService) settle(ctx context.Context, tx repository.Store, order *domain.Order, sh *domain.Shipment, box *outbox, now time.Time) error {
	if !advanceOnShipment(order, sh.Status, box, now) {
		return nil
	}
	return tx.Orders().Save(ctx, order)
}

func (s *ShipmentService) CreateShipment(ctx context.Context, actor auth.Actor, in CreateShipmentInput) (*domain.Shipment, error) {
	var (
		shipment *domain.Shipment
		box      outbox
	)
	err := s.tx.run(ctx, "shipment.create", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		order, err := loadOwnedOrder(ctx, tx.Orders(), s.authz, actor, in.OrderID)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		existing, err := tx.Shipments().FindByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrShipmentExists
		}

		shipment, err = newShipment(order.ID, in.ShipmentInput, now)
		if err != nil {
			return err
		}
		if err := tx.Shipments().Create(ctx, shipment); err != nil {
			return mapDuplicate(err, ErrShipmentExists)
		}
		return s.settle(ctx, tx, order, shipment, &box, now)
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return shipment, nil
}

func (s *ShipmentService) ListShipments(ctx context.Context, actor auth.Actor, status domain.ShipmentStatus) ([]domain.Shipment, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown shipment status %q", status)
	}
	return s.store.Shipments().List(ctx, repository.ShipmentFilter{
		UserID: s.authz.ScopeUserID(actor, ""),
		Status: status,
	})
}

func (s *ShipmentService) GetShipment(ctx context.Context, actor auth.Actor, id string) (*domain.Shipment, error) {
	sh, _, err := s.ownedShipment(ctx, s.store, actor, id)
	return sh, err
}

func (s *ShipmentService) UpdateShipment(ctx context.Context, actor auth.Actor, id string, in ShipmentInput) (*domain.Shipment, error) {
	var (
		shipment *domain.Shipment
		box      outbox
	)
	err := s.tx.run(ctx, "shipment.update", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		sh, order, err := s.ownedShipment(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		if err := patchShipment(sh, in, now); err != nil {
			return err
		}
		if err := tx.Shipments().Update(ctx, sh); err != nil {
			return err
		}
		shipment = sh
		return s.settle(ctx, tx, order, sh, &box, now)
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return shipment, nil
}

func (s *ShipmentService) DeleteShipment(ctx context.Context, actor auth.Actor, id string) (*domain.Shipment, error) {
	var shipment *domain.Shipment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		sh, order, err := s.ownedShipment(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		shipment = sh
		return tx.Shipments().Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}
